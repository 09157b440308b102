// Package security generates the shared token secret for the HTTP server.
package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// MinSecretLength matches the minimum accepted for auth.secret.
const MinSecretLength = 32

const secretAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789-_"

var errEmptyAlphabet = errors.New("alphabet must not be empty")

// GenerateSecret returns a random secret of length characters suitable for HS256 signing.
func GenerateSecret(length int) (string, error) {
	if length < MinSecretLength {
		return "", fmt.Errorf("secret length must be at least %d, got %d", MinSecretLength, length)
	}
	return randomString(length, secretAlphabet)
}

// randomString draws each character uniformly from alphabet.
func randomString(length int, alphabet string) (string, error) {
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
