package bolt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/domain/repository/database"
)

func TestCollectionLifecycle(t *testing.T) {
	t.Parallel()

	store := NewCollectionStore(setupBolt(t))
	ctx := context.Background()

	first, err := store.Create(ctx, "cats")
	require.NoError(t, err)
	second, err := store.Create(ctx, "dogs")
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)
	assert.Empty(t, first.MediaIDs)

	_, err = store.Create(ctx, "cats")
	assert.ErrorIs(t, err, database.ErrDuplicateName)

	_, err = store.Rename(ctx, second.ID, "cats")
	assert.ErrorIs(t, err, database.ErrDuplicateName)

	renamed, err := store.Rename(ctx, second.ID, "puppies")
	require.NoError(t, err)
	assert.Equal(t, "puppies", renamed.Name)

	_, err = store.Create(ctx, "dogs")
	require.NoError(t, err)

	_, err = store.Rename(ctx, 999, "nothing")
	assert.ErrorIs(t, err, database.ErrNotFound)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "cats", all[0].Name)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = store.Create(ctx, "cats")
	require.NoError(t, err)
}

func TestCollectionMembership(t *testing.T) {
	t.Parallel()

	store := NewCollectionStore(setupBolt(t))
	ctx := context.Background()

	a, err := store.Create(ctx, "a")
	require.NoError(t, err)
	b, err := store.Create(ctx, "b")
	require.NoError(t, err)

	for range 2 {
		a, err = store.SetMembership(ctx, a.ID, "image-1", true)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"image-1"}, a.MediaIDs)

	_, err = store.SetMembership(ctx, b.ID, "image-1", true)
	require.NoError(t, err)

	require.NoError(t, store.RemoveMedia(ctx, "image-1"))

	for _, id := range []int64{a.ID, b.ID} {
		c, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, c.MediaIDs)
	}

	c, err := store.SetMembership(ctx, a.ID, "image-2", false)
	require.NoError(t, err)
	assert.Empty(t, c.MediaIDs)
}
