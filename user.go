package marina

import "context"

// User is an account created lazily on first successful sign-in with
// the external identity provider. Sub is the provider's stable subject
// identifier and is unique across users.
type User struct {
	ID    ID     `json:"id,omitempty"`
	Sub   string `json:"sub"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// UserService represents a service for managing user accounts. Users
// are never deleted by this system.
type UserService interface {
	// FindUserByID returns a single user by ID.
	FindUserByID(ctx context.Context, id ID) (*User, error)

	// FindUserBySub returns the user registered with the given subject
	// identifier.
	FindUserBySub(ctx context.Context, sub string) (*User, error)

	// FindUsers returns every user.
	FindUsers(ctx context.Context) ([]*User, error)

	// CreateUser creates a new user and sets u.ID. The subject
	// identifier must not already be registered.
	CreateUser(ctx context.Context, u *User) error
}
