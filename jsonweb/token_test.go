package jsonweb

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeyStore = KeyStoreFunc(func(kid string) ([]byte, error) {
	if kid != "some-key" {
		return nil, ErrKeyNotFound
	}
	return []byte("correct-key"), nil
})

func signed(t *testing.T, keyID string, key []byte, expires time.Time) string {
	t.Helper()

	claims := &Token{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "some-subject",
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		KeyID: keyID,
	}

	v, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return v
}

func TestTokenParser(t *testing.T) {
	parser := NewTokenParser(testKeyStore)
	hour := time.Now().Add(time.Hour)

	t.Run("valid token", func(t *testing.T) {
		token, err := parser.Parse(signed(t, "some-key", []byte("correct-key"), hour))
		require.NoError(t, err)
		assert.Equal(t, "some-subject", token.Identifier())
	})

	t.Run("wrong signing key", func(t *testing.T) {
		_, err := parser.Parse(signed(t, "some-key", []byte("wrong-key"), hour))
		require.Error(t, err)
	})

	t.Run("unknown key id", func(t *testing.T) {
		_, err := parser.Parse(signed(t, "other-key", []byte("correct-key"), hour))
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := parser.Parse(signed(t, "some-key", []byte("correct-key"), time.Now().Add(-time.Hour)))
		require.Error(t, err)
	})

	t.Run("not a token", func(t *testing.T) {
		_, err := parser.Parse("definitely not a jwt")
		require.Error(t, err)
	})

	t.Run("empty key store", func(t *testing.T) {
		parser := NewTokenParser(EmptyKeyStore)
		_, err := parser.Parse(signed(t, "some-key", []byte("correct-key"), hour))
		require.Error(t, err)
	})
}
