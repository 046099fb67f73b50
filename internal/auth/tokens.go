package auth

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// TokenKeyLength is the length of a generated token key.
const TokenKeyLength = 40

// NewTokenKey returns a random URL-safe token key.
func NewTokenKey() (string, error) {
	key, err := gonanoid.New(TokenKeyLength)
	if err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return key, nil
}

// ParseAuthorization extracts the token key from an Authorization header.
// Both "Bearer <key>" and "Token <key>" are accepted.
func ParseAuthorization(header string) (string, bool) {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}
