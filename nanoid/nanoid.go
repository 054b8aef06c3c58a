package nanoid

import (
	"strconv"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const numbers = "0123456789"

// Number generates size random digits, leading zeros included
func Number(size int) string {
	return gonanoid.MustGenerate(numbers, size)
}

// Suffix returns a random number below 10^digits in plain decimal form,
// e.g. "42" rather than "0042".
func Suffix(digits int) string {
	n, err := strconv.Atoi(Number(digits))
	if err != nil {
		return "0"
	}
	return strconv.Itoa(n)
}
