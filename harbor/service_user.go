package harbor

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

// FindUserByID retrieves a single user.
func (s *Service) FindUserByID(ctx context.Context, id marina.ID) (*marina.User, error) {
	var u *marina.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		user, err := s.store.GetUser(ctx, tx, id)
		if err != nil {
			return err
		}

		u = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindUserBySub retrieves the user registered with sub.
func (s *Service) FindUserBySub(ctx context.Context, sub string) (*marina.User, error) {
	var u *marina.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		user, err := s.store.GetUserBySub(ctx, tx, sub)
		if err != nil {
			return err
		}

		u = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// FindUsers returns every registered user.
func (s *Service) FindUsers(ctx context.Context) ([]*marina.User, error) {
	var us []*marina.User
	err := s.store.View(ctx, func(tx kv.Tx) error {
		var err error
		us, err = s.store.ListUsers(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return us, nil
}

// CreateUser registers a new user account.
func (s *Service) CreateUser(ctx context.Context, u *marina.User) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateUser(ctx, tx, u)
	})
}
