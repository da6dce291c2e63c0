package rand

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/marinadb/marina"
)

// TokenGenerator implements marina.TokenGenerator backed by crypto/rand.
type TokenGenerator struct {
	size int
}

// NewTokenGenerator creates an instance of an available token generator.
func NewTokenGenerator(n int) marina.TokenGenerator {
	return &TokenGenerator{size: n}
}

// Token returns a new opaque token of the configured size.
func (g *TokenGenerator) Token() (string, error) {
	b := make([]byte, g.size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
