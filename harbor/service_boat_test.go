package harbor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinadb/marina"
)

func TestCreateBoat(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an id", func(t *testing.T) {
		svc := newTestService(t)
		b := mustCreateBoat(t, svc, "Evening Star", "alice")
		assert.True(t, b.ID.Valid())
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		svc := newTestService(t)
		mustCreateBoat(t, svc, "Evening Star", "alice")

		err := svc.CreateBoat(ctx, &marina.Boat{
			Name:   "Evening Star",
			Type:   "Yawl",
			Length: 20,
			Owner:  "bob",
		})
		require.Equal(t, ErrBoatNameNotUnique, err)
	})
}

func TestFindBoatByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.FindBoatByID(ctx, boat.ID, "alice")
		require.NoError(t, err)
		if diff := cmp.Diff(boat, got); diff != "" {
			t.Fatalf("unexpected boat (-want +got):\n%s", diff)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := svc.FindBoatByID(ctx, boat.ID, "mallory")
		require.Equal(t, ErrNotBoatOwner, err)
	})

	t.Run("missing boat reports not found", func(t *testing.T) {
		_, err := svc.FindBoatByID(ctx, marina.ID(42), "alice")
		require.Equal(t, ErrBoatNotFound, err)
	})
}

func TestUpdateBoat(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only present fields", func(t *testing.T) {
		svc := newTestService(t)
		boat := mustCreateBoat(t, svc, "Evening Star", "alice")

		length := 40
		got, err := svc.UpdateBoat(ctx, boat.ID, marina.BoatUpdate{Length: &length}, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Evening Star", got.Name)
		assert.Equal(t, 40, got.Length)
	})

	t.Run("rename to taken name conflicts", func(t *testing.T) {
		svc := newTestService(t)
		mustCreateBoat(t, svc, "Evening Star", "alice")
		boat := mustCreateBoat(t, svc, "Morning Star", "alice")

		name := "Evening Star"
		_, err := svc.UpdateBoat(ctx, boat.ID, marina.BoatUpdate{Name: &name}, "alice")
		require.Equal(t, ErrBoatNameNotUnique, err)
	})

	t.Run("rename to own name is fine", func(t *testing.T) {
		svc := newTestService(t)
		boat := mustCreateBoat(t, svc, "Evening Star", "alice")

		name := "Evening Star"
		_, err := svc.UpdateBoat(ctx, boat.ID, marina.BoatUpdate{Name: &name}, "alice")
		require.NoError(t, err)
	})

	t.Run("rename rewrites carrier names", func(t *testing.T) {
		svc := newTestService(t)
		boat := mustCreateBoat(t, svc, "Evening Star", "alice")
		load := mustCreateLoad(t, svc, "Rope")
		require.NoError(t, svc.AttachLoad(ctx, boat.ID, load.ID, "alice"))

		name := "Nightfall"
		_, err := svc.UpdateBoat(ctx, boat.ID, marina.BoatUpdate{Name: &name}, "alice")
		require.NoError(t, err)

		l, err := svc.FindLoadByID(ctx, load.ID)
		require.NoError(t, err)
		require.NotNil(t, l.Carrier)
		assert.Equal(t, "Nightfall", l.Carrier.Name)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc := newTestService(t)
		boat := mustCreateBoat(t, svc, "Evening Star", "alice")

		name := "Stolen"
		_, err := svc.UpdateBoat(ctx, boat.ID, marina.BoatUpdate{Name: &name}, "mallory")
		require.Equal(t, ErrNotBoatOwner, err)
	})
}

func TestReplaceBoat(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	boat := mustCreateBoat(t, svc, "Evening Star", "alice")
	load := mustCreateLoad(t, svc, "Rope")
	require.NoError(t, svc.AttachLoad(ctx, boat.ID, load.ID, "alice"))

	got, err := svc.ReplaceBoat(ctx, boat.ID, &marina.Boat{
		Name:   "Nightfall",
		Type:   "Ketch",
		Length: 44,
		Public: true,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, boat.ID, got.ID)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "Nightfall", got.Name)
	assert.Equal(t, "Ketch", got.Type)
	assert.Equal(t, 44, got.Length)
	assert.True(t, got.Public)
	assert.True(t, got.HasLoad(load.ID))

	l, err := svc.FindLoadByID(ctx, load.ID)
	require.NoError(t, err)
	require.NotNil(t, l.Carrier)
	assert.Equal(t, "Nightfall", l.Carrier.Name)
}

func TestFindBoatsPaging(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 7; i++ {
		mustCreateBoat(t, svc, fmt.Sprintf("Alice Boat %d", i), "alice")
		mustCreateBoat(t, svc, fmt.Sprintf("Bob Boat %d", i), "bob")
	}

	owner := "alice"
	filter := marina.BoatFilter{Owner: &owner}

	t.Run("default page size", func(t *testing.T) {
		bs, total, err := svc.FindBoats(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, bs, marina.DefaultPageSize)
		assert.Equal(t, 7, total)
	})

	t.Run("offset walks the filtered collection", func(t *testing.T) {
		seen := map[marina.ID]bool{}
		for offset := 0; offset < 7; offset += marina.DefaultPageSize {
			bs, total, err := svc.FindBoats(ctx, filter, marina.FindOptions{
				Limit:  marina.DefaultPageSize,
				Offset: offset,
			})
			require.NoError(t, err)
			assert.Equal(t, 7, total)
			for _, b := range bs {
				assert.Equal(t, "alice", b.Owner)
				assert.False(t, seen[b.ID], "boat %s appeared on two pages", b.ID)
				seen[b.ID] = true
			}
		}
		assert.Len(t, seen, 7)
	})

	t.Run("limit above maximum is clamped", func(t *testing.T) {
		bs, _, err := svc.FindBoats(ctx, marina.BoatFilter{}, marina.FindOptions{Limit: 1000})
		require.NoError(t, err)
		assert.Len(t, bs, 14)
	})
}

func TestDeleteBoat(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc := newTestService(t)
		boat := mustCreateBoat(t, svc, "Evening Star", "alice")

		err := svc.DeleteBoat(ctx, boat.ID, "mallory")
		require.Equal(t, ErrNotBoatOwner, err)

		_, err = svc.FindBoatByID(ctx, boat.ID, "alice")
		require.NoError(t, err)
	})

	t.Run("missing boat reports not found", func(t *testing.T) {
		svc := newTestService(t)
		err := svc.DeleteBoat(ctx, marina.ID(42), "alice")
		require.Equal(t, ErrBoatNotFound, err)
	})
}
