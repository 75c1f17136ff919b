package random

import (
	"crypto/rand"
	"math/big"
)

const (
	// IDLength is the length of generated comment and message ids
	IDLength = 9
	// IDAlphabet matches the base36 ids that clients generate themselves
	IDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Random provides random values that can be mocked for testing
type Random interface {
	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string

	// ID generates an identifier for a comment or private message
	ID() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	max := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			n = big.NewInt(0)
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result)
}

// ID generates a base36 identifier
func (r *CryptoRandom) ID() string {
	return r.String(IDLength, IDAlphabet)
}
