package domain

import "time"

// Round represents the period during which one secret word is active
type Round struct {
	Number     int        `json:"number"`
	SecretWord string     `json:"-"`
	Strokes    *StrokeSet `json:"-"`
	StartedAt  time.Time  `json:"startedAt"`
}

// NewRound creates a new round with an empty drawing surface
func NewRound(number int, secretWord string) *Round {
	return &Round{
		Number:     number,
		SecretWord: secretWord,
		Strokes:    NewStrokeSet(),
		StartedAt:  time.Now(),
	}
}

// Next returns the round that follows r with the given word
func (r *Round) Next(secretWord string) *Round {
	return NewRound(r.Number+1, secretWord)
}
