package app

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticWordBank_PicksFromList(t *testing.T) {
	bank := NewStaticWordBank([]string{"cat", " dog ", ""})

	assert.Equal(t, 2, bank.Size())
	for i := 0; i < 100; i++ {
		w := bank.RandomWord()
		assert.Contains(t, []string{"cat", "dog"}, w)
	}
}

func TestStaticWordBank_EmptyFallsBackToDefaults(t *testing.T) {
	bank := NewStaticWordBank(nil)

	assert.Equal(t, len(DefaultWords), bank.Size())
	assert.Contains(t, DefaultWords, bank.RandomWord())
}

func TestRandomCodes_Format(t *testing.T) {
	gen := RandomCodes{Length: DefaultRoomCodeLength}

	for i := 0; i < 200; i++ {
		code, err := gen.NewCode()
		require.NoError(t, err)
		assert.Len(t, code, 4)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(RoomCodeChars, ch), "unexpected char %q in %q", ch, code)
		}
	}
}

func TestRandomCodes_ZeroLengthUsesDefault(t *testing.T) {
	code, err := RandomCodes{}.NewCode()
	require.NoError(t, err)
	assert.Len(t, code, DefaultRoomCodeLength)
}

func TestRandomCodes_DiscardsBiasedBytes(t *testing.T) {
	// 252..255 would wrap onto 0..3 and make those characters more likely
	src := bytes.NewReader([]byte{252, 255, 0, 253, 35, 36, 251, 254, 71})
	code, err := RandomCodes{Length: 4, Rand: src}.NewCode()

	require.NoError(t, err)
	assert.Equal(t, "0Z0Z", code)
}

func TestRandomCodes_EveryCharacterReachable(t *testing.T) {
	all := make([]byte, unbiasedLimit)
	for i := range all {
		all[i] = byte(i)
	}
	code, err := RandomCodes{Length: unbiasedLimit, Rand: bytes.NewReader(all)}.NewCode()
	require.NoError(t, err)

	counts := map[rune]int{}
	for _, ch := range code {
		counts[ch]++
	}
	assert.Len(t, counts, len(RoomCodeChars))
	for ch, n := range counts {
		assert.Equal(t, unbiasedLimit/len(RoomCodeChars), n, "char %q", ch)
	}
}

func TestRandomCodes_SourceFailure(t *testing.T) {
	_, err := RandomCodes{Length: 4, Rand: bytes.NewReader([]byte{1, 2})}.NewCode()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDirectory_CreateReportsCodeSourceFailure(t *testing.T) {
	d := newTestDirectory(t, RandomCodes{Rand: bytes.NewReader(nil)})

	_, err := d.Create("conn-a", "", nil)

	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, d.GetSessionCount())
}
