// Package session implements the browser sign-in flow: it sends the
// user to the external identity provider, verifies the callback and
// mints the bearer token the resource API accepts.
package session

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

var statesBucket = []byte("oauthstatesv1")

// ErrInvalidState is returned when an oauth callback carries a state
// value this server never issued, or one that was already used.
var ErrInvalidState = &marina.Error{
	Code: marina.EUnauthorized,
	Msg:  "unrecognized oauth state",
}

// Store persists pending oauth state values. Each state is single use.
type Store struct {
	kvStore kv.Store
}

// NewStore constructs a session store on top of kvStore.
func NewStore(kvStore kv.Store) *Store {
	return &Store{kvStore: kvStore}
}

// PutState records a freshly issued state value.
func (s *Store) PutState(ctx context.Context, state string) error {
	return s.kvStore.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(statesBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(state), []byte{1})
	})
}

// ConsumeState verifies state was issued here and removes it so it
// cannot be replayed.
func (s *Store) ConsumeState(ctx context.Context, state string) error {
	return s.kvStore.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(statesBucket)
		if err != nil {
			return err
		}

		if _, err := b.Get([]byte(state)); kv.IsNotFound(err) {
			return ErrInvalidState
		} else if err != nil {
			return err
		}

		return b.Delete([]byte(state))
	})
}
