package utils

import (
	"github.com/consensys/gnark/frontend"
)

// BytesToBitsLE expands bytes into bits, least significant bit of each byte first.
func BytesToBitsLE(data []byte) []bool {
	bits := make([]bool, len(data)*8)
	for i, b := range data {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (b>>j)&1 == 1
		}
	}
	return bits
}

// BitsToVariables converts bits into 0/1 circuit assignments.
func BitsToVariables(bits []bool) []frontend.Variable {
	res := make([]frontend.Variable, len(bits))
	for i, b := range bits {
		if b {
			res[i] = 1
		} else {
			res[i] = 0
		}
	}
	return res
}
