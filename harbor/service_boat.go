package harbor

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

// FindBoatByID retrieves a single boat. Only its owner may read it.
func (s *Service) FindBoatByID(ctx context.Context, id marina.ID, subject string) (*marina.Boat, error) {
	var b *marina.Boat
	err := s.store.View(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, id)
		if err != nil {
			return err
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		b = boat
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// FindBoats returns a page of boats matching filter plus the total
// count of matches.
func (s *Service) FindBoats(ctx context.Context, filter marina.BoatFilter, opt ...marina.FindOptions) ([]*marina.Boat, int, error) {
	var (
		bs    []*marina.Boat
		total int
	)

	o := normalizeFindOptions(opt)

	err := s.store.View(ctx, func(tx kv.Tx) error {
		var err error
		bs, err = s.store.ListBoats(ctx, tx, filter, &o)
		if err != nil {
			return err
		}

		total, err = s.store.CountBoats(ctx, tx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return bs, total, nil
}

// CreateBoat persists a new boat. The caller must have populated Owner.
func (s *Service) CreateBoat(ctx context.Context, b *marina.Boat) error {
	if b.Loads == nil {
		b.Loads = []marina.ID{}
	}

	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateBoat(ctx, tx, b)
	})
}

// UpdateBoat applies a partial update. A rename re-checks name
// uniqueness and rewrites the denormalized carrier name on every load
// aboard, all inside the same transaction.
func (s *Service) UpdateBoat(ctx context.Context, id marina.ID, upd marina.BoatUpdate, subject string) (*marina.Boat, error) {
	var b *marina.Boat
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, id)
		if err != nil {
			return err
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		renamed := false
		if upd.Name != nil && *upd.Name != boat.Name {
			if err := s.store.uniqueBoatName(ctx, tx, *upd.Name, boat.ID); err != nil {
				return err
			}
			boat.Name = *upd.Name
			renamed = true
		}
		if upd.Type != nil {
			boat.Type = *upd.Type
		}
		if upd.Length != nil {
			boat.Length = *upd.Length
		}
		if upd.Public != nil {
			boat.Public = *upd.Public
		}

		if err := s.store.PutBoat(ctx, tx, boat); err != nil {
			return err
		}

		if renamed {
			if err := s.renameCarrier(ctx, tx, boat); err != nil {
				return err
			}
		}

		b = boat
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// ReplaceBoat overwrites every mutable attribute with the values in
// replacement. The stored owner, load list and ID survive.
func (s *Service) ReplaceBoat(ctx context.Context, id marina.ID, replacement *marina.Boat, subject string) (*marina.Boat, error) {
	var b *marina.Boat
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, id)
		if err != nil {
			return err
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		renamed := replacement.Name != boat.Name
		if renamed {
			if err := s.store.uniqueBoatName(ctx, tx, replacement.Name, boat.ID); err != nil {
				return err
			}
		}

		boat.Name = replacement.Name
		boat.Type = replacement.Type
		boat.Length = replacement.Length
		boat.Public = replacement.Public

		if err := s.store.PutBoat(ctx, tx, boat); err != nil {
			return err
		}

		if renamed {
			if err := s.renameCarrier(ctx, tx, boat); err != nil {
				return err
			}
		}

		b = boat
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBoat removes the boat after detaching its loads and vacating
// any slip it occupies. The cascade and the delete commit together.
func (s *Service) DeleteBoat(ctx context.Context, id marina.ID, subject string) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, id)
		if err != nil {
			return err
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		if err := s.cascadeBoatDelete(ctx, tx, boat); err != nil {
			return err
		}

		return s.store.DeleteBoat(ctx, tx, id)
	})
}

// renameCarrier rewrites the denormalized carrier name on every load
// aboard b to match b's current name.
func (s *Service) renameCarrier(ctx context.Context, tx kv.Tx, b *marina.Boat) error {
	for _, loadID := range b.Loads {
		l, err := s.store.GetLoad(ctx, tx, loadID)
		if err != nil {
			return err
		}

		if l.Carrier == nil || l.Carrier.ID != b.ID {
			return ErrCorruptEntity("load", errDanglingCarrier)
		}

		l.Carrier.Name = b.Name
		if err := s.store.PutLoad(ctx, tx, l); err != nil {
			return err
		}
	}
	return nil
}
