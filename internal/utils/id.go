package utils

import (
	"crypto/rand"
	"fmt"
)

// idAlphabet is the base58 symbol set (no 0, O, I or l) used for wire ids.
const idAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// idLength is the fixed total length of a generated id, prefix included.
const idLength = 21

// GenerateID returns a collision-resistant short id of the form
// "<prefix><random>", always idLength characters long.
func GenerateID(prefix string) string {
	if len(prefix) >= idLength {
		return prefix[:idLength]
	}

	random := make([]byte, idLength-len(prefix))
	if _, err := rand.Read(random); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}

	for i, b := range random {
		random[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return prefix + string(random)
}
