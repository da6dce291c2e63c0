package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinadb/marina/kv"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	bucket := []byte("telemetryv1")

	t.Run("put then get", func(t *testing.T) {
		s := NewKVStore()

		err := s.Update(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			return b.Put([]byte("hello"), []byte("world"))
		})
		require.NoError(t, err)

		err = s.View(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			v, err := b.Get([]byte("hello"))
			if err != nil {
				return err
			}
			assert.Equal(t, []byte("world"), v)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("get missing key", func(t *testing.T) {
		s := NewKVStore()

		err := s.View(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			_, err = b.Get([]byte("nope"))
			return err
		})
		assert.True(t, kv.IsNotFound(err))
	})

	t.Run("put in read transaction fails", func(t *testing.T) {
		s := NewKVStore()

		err := s.View(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			return b.Put([]byte("hello"), []byte("world"))
		})
		assert.Equal(t, kv.ErrTxNotWritable, err)
	})

	t.Run("cursor iterates in key order", func(t *testing.T) {
		s := NewKVStore()

		err := s.Update(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			for _, k := range []string{"c", "a", "b"} {
				if err := b.Put([]byte(k), []byte(k)); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)

		var keys []string
		err = s.View(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			cursor, err := b.Cursor()
			if err != nil {
				return err
			}
			for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
				keys = append(keys, string(k))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		s := NewKVStore()

		err := s.Update(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			if err := b.Put([]byte("hello"), []byte("world")); err != nil {
				return err
			}
			return b.Delete([]byte("hello"))
		})
		require.NoError(t, err)

		err = s.View(ctx, func(tx kv.Tx) error {
			b, err := tx.Bucket(bucket)
			if err != nil {
				return err
			}
			_, err = b.Get([]byte("hello"))
			return err
		})
		assert.True(t, kv.IsNotFound(err))
	})
}
