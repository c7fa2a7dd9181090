package app

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 4

	// maxCodeAttempts bounds retries against live codes
	maxCodeAttempts = 32
)

// RoomCodeChars are the base-36 characters used for room codes
const RoomCodeChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// unbiasedLimit is the largest multiple of len(RoomCodeChars) that fits in a
// byte. Bytes at or above it are discarded so every character is equally likely.
const unbiasedLimit = 256 - 256%len(RoomCodeChars)

// CodeGenerator produces candidate room codes. Uniqueness is checked by the
// Directory.
type CodeGenerator interface {
	NewCode() (string, error)
}

// RandomCodes generates uppercase alphanumeric codes
type RandomCodes struct {
	Length int
	// Rand is the entropy source; nil means crypto/rand
	Rand io.Reader
}

// NewCode generates a random room code
func (g RandomCodes) NewCode() (string, error) {
	n := g.Length
	if n <= 0 {
		n = DefaultRoomCodeLength
	}
	src := g.Rand
	if src == nil {
		src = rand.Reader
	}

	code := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(code) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= unbiasedLimit {
				continue
			}
			code = append(code, RoomCodeChars[int(b)%len(RoomCodeChars)])
			if len(code) == n {
				break
			}
		}
	}

	return string(code), nil
}
