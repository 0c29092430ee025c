package nanoid

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16

	numberAlphabet     = "0123456789"
	lowerUpperAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// String generate optional length nanoid of letters
func String(l ...int) string {
	return gonanoid.MustGenerate(lowerUpperAlphabet, getSize(l...))
}

// Number generate optional length nanoid of digits
func Number(l ...int) string {
	return gonanoid.MustGenerate(numberAlphabet, getSize(l...))
}
