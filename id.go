package marina

import (
	"strconv"
)

// ErrInvalidID signifies invalid IDs.
var ErrInvalidID = &Error{
	Code: EInvalid,
	Msg:  "id provided is invalid",
}

// ID is a unique identifier assigned by the store.
//
// Its zero value is not a valid ID. IDs render as decimal integers in
// JSON bodies and URL paths.
type ID uint64

// IDFromString creates an ID from a given string.
func IDFromString(s string) (*ID, error) {
	var id ID
	err := id.DecodeFromString(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Valid checks whether the receiving ID is a valid one or not.
func (i ID) Valid() bool {
	return i != 0
}

// String returns the decimal representation of the ID.
func (i ID) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// DecodeFromString parses s as a decimal integer and sets the receiver.
func (i *ID) DecodeFromString(s string) error {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return ErrInvalidID
	}
	*i = ID(v)
	return nil
}

// IDGenerator represents a generator for IDs.
type IDGenerator interface {
	// ID creates unique byte slice ID.
	ID() ID
}

// TokenGenerator represents a generator for API tokens.
type TokenGenerator interface {
	// Token generates a new API token.
	Token() (string, error)
}
