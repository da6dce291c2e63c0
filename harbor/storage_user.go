package harbor

import (
	"context"
	"encoding/json"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

func unmarshalUser(v []byte) (*marina.User, error) {
	u := &marina.User{}
	if err := json.Unmarshal(v, u); err != nil {
		return nil, ErrCorruptEntity("user", err)
	}

	return u, nil
}

func marshalUser(u *marina.User) ([]byte, error) {
	v, err := json.Marshal(u)
	if err != nil {
		return nil, ErrUnprocessableEntity("user", err)
	}

	return v, nil
}

// GetUser returns the user stored under id.
func (s *Store) GetUser(ctx context.Context, tx kv.Tx, id marina.ID) (*marina.User, error) {
	b, err := tx.Bucket(usersBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodeID(id))
	if kv.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalUser(v)
}

// GetUserBySub scans all users for the one registered with sub.
func (s *Store) GetUserBySub(ctx context.Context, tx kv.Tx, sub string) (*marina.User, error) {
	us, err := s.ListUsers(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, u := range us {
		if u.Sub == sub {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers returns every user in id order.
func (s *Store) ListUsers(ctx context.Context, tx kv.Tx) ([]*marina.User, error) {
	b, err := tx.Bucket(usersBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	us := []*marina.User{}
	for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
		u, err := unmarshalUser(v)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}

	return us, nil
}

// CreateUser assigns the user a fresh ID and persists it. The subject
// identifier must not already be registered.
func (s *Store) CreateUser(ctx context.Context, tx kv.Tx, u *marina.User) (err error) {
	if _, err := s.GetUserBySub(ctx, tx, u.Sub); err == nil {
		return ErrUserSubExists
	} else if marina.ErrorCode(err) != marina.ENotFound {
		return err
	}

	u.ID, err = s.generateSafeID(ctx, tx, usersBucket)
	if err != nil {
		return err
	}

	v, err := marshalUser(u)
	if err != nil {
		return err
	}

	bkt, err := tx.Bucket(usersBucket)
	if err != nil {
		return err
	}

	if err := bkt.Put(encodeID(u.ID), v); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}
