package project

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// newToken returns a short random id distinguishing project instances and
// compiler info generations.
func newToken() (string, error) {
	token, err := gonanoid.Generate(tokenAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	return token, nil
}
