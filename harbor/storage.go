package harbor

import (
	"context"
	"encoding/binary"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
	"github.com/marinadb/marina/snowflake"
)

var (
	boatsBucket = []byte("boatsv1")
	loadsBucket = []byte("loadsv1")
	slipsBucket = []byte("slipsv1")
	usersBucket = []byte("usersv1")
)

// MaxIDGenerationN is the maximum number of times an ID generation is
// attempted before giving up.
const MaxIDGenerationN = 100

// Store wraps a kv.Store with the record-level operations for every
// resource kind. All methods expect to be called inside a transaction
// opened by View or Update; a two-entity mutation issued inside one
// Update call commits atomically or not at all.
type Store struct {
	kvStore kv.Store
	IDGen   marina.IDGenerator
}

// NewStore creates an instance of a Store.
func NewStore(store kv.Store) *Store {
	return &Store{
		kvStore: store,
		IDGen:   snowflake.NewDefaultIDGenerator(),
	}
}

// View opens up a transaction that will not write to any data.
func (s *Store) View(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.View(ctx, fn)
}

// Update opens up a transaction that will mutate data.
func (s *Store) Update(ctx context.Context, fn func(kv.Tx) error) error {
	return s.kvStore.Update(ctx, fn)
}

// encodeID renders an ID as the fixed-width big-endian key used in
// every bucket, so cursor order matches numeric order.
func encodeID(id marina.ID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// generateSafeID attempts to create ids several times until one is
// generated that does not already exist in the bucket.
func (s *Store) generateSafeID(ctx context.Context, tx kv.Tx, bucket []byte) (marina.ID, error) {
	b, err := tx.Bucket(bucket)
	if err != nil {
		return marina.ID(0), err
	}

	for i := 0; i < MaxIDGenerationN; i++ {
		id := s.IDGen.ID()

		_, err := b.Get(encodeID(id))
		if kv.IsNotFound(err) {
			return id, nil
		}
		if err != nil {
			return marina.ID(0), ErrInternalServiceError(err)
		}
	}
	return marina.ID(0), ErrFailureGeneratingID
}
