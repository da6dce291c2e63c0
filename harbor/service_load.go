package harbor

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

// FindLoadByID retrieves a single load. Loads carry no owner, so any
// caller may read any load.
func (s *Service) FindLoadByID(ctx context.Context, id marina.ID) (*marina.Load, error) {
	var l *marina.Load
	err := s.store.View(ctx, func(tx kv.Tx) error {
		load, err := s.store.GetLoad(ctx, tx, id)
		if err != nil {
			return err
		}

		l = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// FindLoads returns a page of loads plus the total count.
func (s *Service) FindLoads(ctx context.Context, opt ...marina.FindOptions) ([]*marina.Load, int, error) {
	var (
		ls    []*marina.Load
		total int
	)

	o := normalizeFindOptions(opt)

	err := s.store.View(ctx, func(tx kv.Tx) error {
		var err error
		ls, err = s.store.ListLoads(ctx, tx, &o)
		if err != nil {
			return err
		}

		total, err = s.store.CountLoads(ctx, tx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ls, total, nil
}

// CreateLoad persists a new unassigned load.
func (s *Service) CreateLoad(ctx context.Context, l *marina.Load) error {
	l.Carrier = nil

	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateLoad(ctx, tx, l)
	})
}

// UpdateLoad applies a partial update. The carrier reference is not a
// mutable attribute and is never touched here.
func (s *Service) UpdateLoad(ctx context.Context, id marina.ID, upd marina.LoadUpdate) (*marina.Load, error) {
	var l *marina.Load
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		load, err := s.store.GetLoad(ctx, tx, id)
		if err != nil {
			return err
		}

		if upd.Item != nil {
			load.Item = *upd.Item
		}
		if upd.Volume != nil {
			load.Volume = *upd.Volume
		}
		if upd.CreationDate != nil {
			load.CreationDate = *upd.CreationDate
		}

		if err := s.store.PutLoad(ctx, tx, load); err != nil {
			return err
		}

		l = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// ReplaceLoad overwrites every mutable attribute with the values in
// replacement. The stored carrier reference and ID survive.
func (s *Service) ReplaceLoad(ctx context.Context, id marina.ID, replacement *marina.Load) (*marina.Load, error) {
	var l *marina.Load
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		load, err := s.store.GetLoad(ctx, tx, id)
		if err != nil {
			return err
		}

		load.Item = replacement.Item
		load.Volume = replacement.Volume
		load.CreationDate = replacement.CreationDate

		if err := s.store.PutLoad(ctx, tx, load); err != nil {
			return err
		}

		l = load
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// DeleteLoad removes the load after detaching it from its carrier. The
// detachment and the delete commit together.
func (s *Service) DeleteLoad(ctx context.Context, id marina.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		load, err := s.store.GetLoad(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.cascadeLoadDelete(ctx, tx, load); err != nil {
			return err
		}

		return s.store.DeleteLoad(ctx, tx, id)
	})
}
