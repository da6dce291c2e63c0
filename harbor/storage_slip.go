package harbor

import (
	"context"
	"encoding/json"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

func unmarshalSlip(v []byte) (*marina.Slip, error) {
	sl := &marina.Slip{}
	if err := json.Unmarshal(v, sl); err != nil {
		return nil, ErrCorruptEntity("slip", err)
	}

	return sl, nil
}

func marshalSlip(sl *marina.Slip) ([]byte, error) {
	v, err := json.Marshal(sl)
	if err != nil {
		return nil, ErrUnprocessableEntity("slip", err)
	}

	return v, nil
}

// GetSlip returns the slip stored under id.
func (s *Store) GetSlip(ctx context.Context, tx kv.Tx, id marina.ID) (*marina.Slip, error) {
	b, err := tx.Bucket(slipsBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get(encodeID(id))
	if kv.IsNotFound(err) {
		return nil, ErrSlipNotFound
	}

	if err != nil {
		return nil, ErrInternalServiceError(err)
	}

	return unmarshalSlip(v)
}

// ListSlips returns every slip in id order.
func (s *Store) ListSlips(ctx context.Context, tx kv.Tx) ([]*marina.Slip, error) {
	b, err := tx.Bucket(slipsBucket)
	if err != nil {
		return nil, err
	}

	cursor, err := b.Cursor()
	if err != nil {
		return nil, err
	}

	sls := []*marina.Slip{}
	for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
		sl, err := unmarshalSlip(v)
		if err != nil {
			return nil, err
		}
		sls = append(sls, sl)
	}

	return sls, nil
}

// FindSlipByBoat scans all slips for the one currently holding boatID.
// There is no occupancy index, so the scan visits every slip. Returns
// nil when the boat is not docked anywhere.
func (s *Store) FindSlipByBoat(ctx context.Context, tx kv.Tx, boatID marina.ID) (*marina.Slip, error) {
	sls, err := s.ListSlips(ctx, tx)
	if err != nil {
		return nil, err
	}

	for _, sl := range sls {
		if sl.CurrentBoat != nil && *sl.CurrentBoat == boatID {
			return sl, nil
		}
	}
	return nil, nil
}

// CreateSlip assigns the slip a fresh ID and persists it.
func (s *Store) CreateSlip(ctx context.Context, tx kv.Tx, sl *marina.Slip) (err error) {
	sl.ID, err = s.generateSafeID(ctx, tx, slipsBucket)
	if err != nil {
		return err
	}

	return s.PutSlip(ctx, tx, sl)
}

// PutSlip writes the slip record under its ID.
func (s *Store) PutSlip(ctx context.Context, tx kv.Tx, sl *marina.Slip) error {
	v, err := marshalSlip(sl)
	if err != nil {
		return err
	}

	bkt, err := tx.Bucket(slipsBucket)
	if err != nil {
		return err
	}

	if err := bkt.Put(encodeID(sl.ID), v); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}

// DeleteSlip removes the slip record.
func (s *Store) DeleteSlip(ctx context.Context, tx kv.Tx, id marina.ID) error {
	if _, err := s.GetSlip(ctx, tx, id); err != nil {
		return err
	}

	b, err := tx.Bucket(slipsBucket)
	if err != nil {
		return err
	}

	if err := b.Delete(encodeID(id)); err != nil {
		return ErrInternalServiceError(err)
	}
	return nil
}
