package harbor

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

// FindSlipByID retrieves a single slip.
func (s *Service) FindSlipByID(ctx context.Context, id marina.ID) (*marina.Slip, error) {
	var sl *marina.Slip
	err := s.store.View(ctx, func(tx kv.Tx) error {
		slip, err := s.store.GetSlip(ctx, tx, id)
		if err != nil {
			return err
		}

		sl = slip
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sl, nil
}

// FindSlips returns every slip. The collection is expected to stay
// small, so it is not paginated.
func (s *Service) FindSlips(ctx context.Context) ([]*marina.Slip, error) {
	var sls []*marina.Slip
	err := s.store.View(ctx, func(tx kv.Tx) error {
		var err error
		sls, err = s.store.ListSlips(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return sls, nil
}

// CreateSlip persists a new empty slip.
func (s *Service) CreateSlip(ctx context.Context, sl *marina.Slip) error {
	sl.CurrentBoat = nil

	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateSlip(ctx, tx, sl)
	})
}

// UpdateSlip applies a partial update. Occupancy is not a mutable
// attribute and is never touched here.
func (s *Service) UpdateSlip(ctx context.Context, id marina.ID, upd marina.SlipUpdate) (*marina.Slip, error) {
	var sl *marina.Slip
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		slip, err := s.store.GetSlip(ctx, tx, id)
		if err != nil {
			return err
		}

		if upd.Number != nil {
			slip.Number = *upd.Number
		}

		if err := s.store.PutSlip(ctx, tx, slip); err != nil {
			return err
		}

		sl = slip
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sl, nil
}

// DeleteSlip removes the slip. Any boat docked there simply becomes
// undocked; boat records hold no slip reference, so there is nothing
// further to cascade.
func (s *Service) DeleteSlip(ctx context.Context, id marina.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteSlip(ctx, tx, id)
	})
}
