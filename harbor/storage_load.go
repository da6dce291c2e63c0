package harbor

import (
	"context"
	"encoding/json"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

func unmarshalLoad(v []byte) (*marina.Load, error) {
	l := &marina.Load{}
	if err := json.Unmarshal(v, l); err != nil {
		return nil, ErrCorruptEntity("load", err)
	}

	return l, nil
}

func marshalLoad(l *marina.Load) ([]byte, error) {
	v, err := json.Marshal(l)
	if err != nil {
		return nil, ErrUnprocessableEntity("load", err)
	}

	return v, nil
}

// GetLoad returns the load stored under id.
func (s *Store) GetLoad(ctx context.Context, tx kv.Tx, id marina.ID) (*marina.Load, error) {
	b, err := tx.Bucket(loadsBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodeID(id))
	if kv.IsNotFound(err) {
		return nil, ErrLoadNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalLoad(v)
}

// ListLoads returns loads in id order. A nil opt returns the whole
// collection.
func (s *Store) ListLoads(ctx context.Context, tx kv.Tx, opt *marina.FindOptions) ([]*marina.Load, error) {
	b, err := tx.Bucket(loadsBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	seen := 0
	ls := []*marina.Load{}
	for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
		if opt != nil && seen < opt.Offset {
			seen++
			continue
		}

		l, err := unmarshalLoad(v)
		if err != nil {
			return nil, err
		}

		ls = append(ls, l)

		if opt != nil && opt.Limit > 0 && len(ls) >= opt.Limit {
			break
		}
	}

	return ls, nil
}

// ListLoadsByCarrier returns every load whose carrier references boatID.
func (s *Store) ListLoadsByCarrier(ctx context.Context, tx kv.Tx, boatID marina.ID) ([]*marina.Load, error) {
	ls, err := s.ListLoads(ctx, tx, nil)
	if err != nil {
		return nil, err
	}

	carried := []*marina.Load{}
	for _, l := range ls {
		if l.Carrier != nil && l.Carrier.ID == boatID {
			carried = append(carried, l)
		}
	}
	return carried, nil
}

// CountLoads returns the total number of loads.
func (s *Store) CountLoads(ctx context.Context, tx kv.Tx) (int, error) {
	ls, err := s.ListLoads(ctx, tx, nil)
	if err != nil {
		return 0, err
	}
	return len(ls), nil
}

// CreateLoad assigns the load a fresh ID and persists it.
func (s *Store) CreateLoad(ctx context.Context, tx kv.Tx, l *marina.Load) (err error) {
	l.ID, err = s.generateSafeID(ctx, tx, loadsBucket)
	if err != nil {
		return err
	}

	return s.PutLoad(ctx, tx, l)
}

// PutLoad writes the load record under its ID.
func (s *Store) PutLoad(ctx context.Context, tx kv.Tx, l *marina.Load) error {
	v, err := marshalLoad(l)
	if err != nil {
		return err
	}

	bkt, err := tx.Bucket(loadsBucket)
	if err != nil {
		return err
	}

	if err := bkt.Put(encodeID(l.ID), v); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}

// DeleteLoad removes the load record. Callers are responsible for
// detaching the load from its carrier first.
func (s *Store) DeleteLoad(ctx context.Context, tx kv.Tx, id marina.ID) error {
	if _, err := s.GetLoad(ctx, tx, id); err != nil {
		return err
	}

	b, err := tx.Bucket(loadsBucket)
	if err != nil {
		return err
	}

	if err := b.Delete(encodeID(id)); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}
