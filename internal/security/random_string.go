package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// ReadableAlphabet leaves out characters that are easy to confuse when read aloud or retyped (0/O, 1/l/I).
const ReadableAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	ErrNoAcceptedDraw = errors.New("no generated value was accepted")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// RandomStringMatching draws up to maxDraws strings and returns the first one accept allows.
func RandomStringMatching(length int, alphabet string, maxDraws int, accept func(string) bool) (string, error) {
	for draw := 0; draw < maxDraws; draw++ {
		value, err := RandomString(length, alphabet)
		if err != nil {
			return "", err
		}
		if accept == nil || accept(value) {
			return value, nil
		}
	}
	return "", ErrNoAcceptedDraw
}
