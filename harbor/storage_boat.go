package harbor

import (
	"context"
	"encoding/json"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

func unmarshalBoat(v []byte) (*marina.Boat, error) {
	b := &marina.Boat{}
	if err := json.Unmarshal(v, b); err != nil {
		return nil, ErrCorruptEntity("boat", err)
	}

	return b, nil
}

func marshalBoat(b *marina.Boat) ([]byte, error) {
	v, err := json.Marshal(b)
	if err != nil {
		return nil, ErrUnprocessableEntity("boat", err)
	}

	return v, nil
}

// GetBoat returns the boat stored under id.
func (s *Store) GetBoat(ctx context.Context, tx kv.Tx, id marina.ID) (*marina.Boat, error) {
	b, err := tx.Bucket(boatsBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodeID(id))
	if kv.IsNotFound(err) {
		return nil, ErrBoatNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalBoat(v)
}

// ListBoats returns the boats matching filter in id order. A nil opt
// returns the whole matching collection; otherwise offset and limit
// are applied after filtering.
func (s *Store) ListBoats(ctx context.Context, tx kv.Tx, filter marina.BoatFilter, opt *marina.FindOptions) ([]*marina.Boat, error) {
	b, err := tx.Bucket(boatsBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	seen := 0
	bs := []*marina.Boat{}
	for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
		boat, err := unmarshalBoat(v)
		if err != nil {
			return nil, err
		}

		if !boatMatchesFilter(boat, filter) {
			continue
		}

		if opt != nil && seen < opt.Offset {
			seen++
			continue
		}

		bs = append(bs, boat)

		if opt != nil && opt.Limit > 0 && len(bs) >= opt.Limit {
			break
		}
	}

	return bs, nil
}

// CountBoats returns the number of boats matching filter.
func (s *Store) CountBoats(ctx context.Context, tx kv.Tx, filter marina.BoatFilter) (int, error) {
	bs, err := s.ListBoats(ctx, tx, filter, nil)
	if err != nil {
		return 0, err
	}
	return len(bs), nil
}

func boatMatchesFilter(b *marina.Boat, filter marina.BoatFilter) bool {
	if filter.Owner != nil && b.Owner != *filter.Owner {
		return false
	}
	if filter.Public != nil && b.Public != *filter.Public {
		return false
	}
	return true
}

// uniqueBoatName ensures no boat other than exclude holds name. The
// check is a full-collection scan: there is no name index, and two
// concurrent creates racing past it are serialized only by the store's
// single-writer transaction.
func (s *Store) uniqueBoatName(ctx context.Context, tx kv.Tx, name string, exclude marina.ID) error {
	bs, err := s.ListBoats(ctx, tx, marina.BoatFilter{}, nil)
	if err != nil {
		return err
	}

	for _, b := range bs {
		if b.Name == name && b.ID != exclude {
			return ErrBoatNameNotUnique
		}
	}
	return nil
}

// CreateBoat assigns the boat a fresh ID, enforces name uniqueness and
// persists it.
func (s *Store) CreateBoat(ctx context.Context, tx kv.Tx, b *marina.Boat) (err error) {
	b.ID, err = s.generateSafeID(ctx, tx, boatsBucket)
	if err != nil {
		return err
	}

	if err := s.uniqueBoatName(ctx, tx, b.Name, b.ID); err != nil {
		return err
	}

	return s.PutBoat(ctx, tx, b)
}

// PutBoat writes the boat record under its ID.
func (s *Store) PutBoat(ctx context.Context, tx kv.Tx, b *marina.Boat) error {
	v, err := marshalBoat(b)
	if err != nil {
		return err
	}

	bkt, err := tx.Bucket(boatsBucket)
	if err != nil {
		return err
	}

	if err := bkt.Put(encodeID(b.ID), v); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}

// DeleteBoat removes the boat record. Callers are responsible for
// cascading relationship detachment first.
func (s *Store) DeleteBoat(ctx context.Context, tx kv.Tx, id marina.ID) error {
	if _, err := s.GetBoat(ctx, tx, id); err != nil {
		return err
	}

	b, err := tx.Bucket(boatsBucket)
	if err != nil {
		return err
	}

	if err := b.Delete(encodeID(id)); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}
