package jsonweb

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v4"
)

var (
	// ErrKeyNotFound should be returned by a KeyStore when
	// a key cannot be located for the provided key ID.
	ErrKeyNotFound = errors.New("key not found")

	// EmptyKeyStore is a KeyStore implementation which contains no keys.
	EmptyKeyStore = KeyStoreFunc(func(string) ([]byte, error) {
		return nil, ErrKeyNotFound
	})
)

// KeyStore is a type which holds a set of keys accessed
// via an id.
type KeyStore interface {
	Key(string) ([]byte, error)
}

// KeyStoreFunc is a function which can be used as a KeyStore.
type KeyStoreFunc func(string) ([]byte, error)

// Key delegates to the receiver function.
func (k KeyStoreFunc) Key(v string) ([]byte, error) { return k(v) }

// Token is a structure which is serialized as a json web token.
// It contains the standard claims and a key ID locating the signing
// key in the parser's KeyStore.
type Token struct {
	jwt.RegisteredClaims
	KeyID string `json:"kid"`
}

// Identifier returns the identifier of the authenticated caller: the
// subject claim of the verified token.
func (t *Token) Identifier() string {
	return t.Subject
}

// TokenParser is a type which can parse and validate tokens.
type TokenParser struct {
	keyStore KeyStore
	parser   *jwt.Parser
}

// NewTokenParser returns a configured token parser used to
// parse Token types from strings.
func NewTokenParser(keyStore KeyStore) *TokenParser {
	return &TokenParser{
		keyStore: keyStore,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Parse returns a token given a signed json web token string, once the
// signature is verified against the key identified by the token's kid
// claim. Any verification failure yields an error.
func (t *TokenParser) Parse(v string) (*Token, error) {
	jwtToken, err := t.parser.ParseWithClaims(v, &Token{}, func(jt *jwt.Token) (interface{}, error) {
		token, ok := jt.Claims.(*Token)
		if !ok {
			return nil, errors.New("missing kid in token claims")
		}

		return t.keyStore.Key(token.KeyID)
	})
	if err != nil {
		return nil, err
	}

	token, ok := jwtToken.Claims.(*Token)
	if !ok {
		return nil, errors.New("token is unexpected type")
	}

	return token, nil
}
