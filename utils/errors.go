package utils

import (
	"errors"
	"fmt"
)

// ChunkSize is the number of input bits consumed per lookup chunk.
const ChunkSize = 3

var (
	ErrInputTooShort = errors.New("input too short")
	ErrInputTooLong  = errors.New("input too long")
	ErrInvalidParams = errors.New("invalid BHP parameters")
)

// LengthError reports an input that violates the window bounds of a BHP
// parameter set. Err is either ErrInputTooShort or ErrInputTooLong.
type LengthError struct {
	Len   int
	Bound int
	Err   error
}

func (e *LengthError) Error() string {
	if errors.Is(e.Err, ErrInputTooShort) {
		return fmt.Sprintf("inputs to this BHP variant must be greater than %d bits, got %d", e.Bound, e.Len)
	}
	return fmt.Sprintf("inputs to this BHP variant cannot exceed %d bits, got %d", e.Bound, e.Len)
}

func (e *LengthError) Unwrap() error {
	return e.Err
}

// CheckLength validates an input of n bits against a parameter set with the
// given number of windows and chunks per window.
func CheckLength(n, numWindows, windowSize int) error {
	if n <= windowSize*ChunkSize {
		return &LengthError{Len: n, Bound: windowSize * ChunkSize, Err: ErrInputTooShort}
	}
	if n > numWindows*windowSize*ChunkSize {
		return &LengthError{Len: n, Bound: numWindows * windowSize * ChunkSize, Err: ErrInputTooLong}
	}
	return nil
}

// PaddingLen returns how many zero bits round n up to a multiple of ChunkSize.
func PaddingLen(n int) int {
	return (ChunkSize - n%ChunkSize) % ChunkSize
}
