package app

import (
	"math/rand"
	"strings"
)

// DefaultWords is the built-in word list
var DefaultWords = []string{
	"apple", "car", "house", "cat", "tree",
	"phone", "pizza", "dog", "book", "sun",
}

// StaticWordBank picks uniformly from a fixed list. Repeats are allowed.
type StaticWordBank struct {
	words []string
}

// NewStaticWordBank creates a word bank from words, skipping blanks. An empty
// list falls back to DefaultWords.
func NewStaticWordBank(words []string) *StaticWordBank {
	clean := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			clean = append(clean, w)
		}
	}
	if len(clean) == 0 {
		clean = append(clean, DefaultWords...)
	}
	return &StaticWordBank{words: clean}
}

// RandomWord returns a random word from the bank
func (b *StaticWordBank) RandomWord() string {
	return b.words[rand.Intn(len(b.words))]
}

// Size returns the number of candidate words
func (b *StaticWordBank) Size() int {
	return len(b.words)
}
