package storage

import (
	"context"
	"os"
	"testing"

	"SneakerShopBot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// openTestStorage connects to TEST_DATABASE_DSN, migrates it and wipes the
// catalog. The tests are skipped when the variable is not set.
func openTestStorage(t *testing.T) Storage {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE product_photos, products, categories, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return NewStorage(db)
}

func TestPostgresCatalogLifecycle(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	shoes, err := s.Categories.CreateGlobal(ctx, "Shoes")
	require.NoError(t, err)
	sneakers, err := s.Categories.CreateCategory(ctx, "Sneakers", "Shoes")
	require.NoError(t, err)

	_, err = s.Categories.CreateGlobal(ctx, "Sneakers")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	_, err = s.Categories.CreateCategory(ctx, "Boots", "Nope")
	assert.ErrorIs(t, err, ErrParentNotFound)

	minPrice := 5000.0
	id, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers, MinPrice: &minPrice},
		[]byte{1}, []byte{2})
	require.NoError(t, err)

	again, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers}, []byte{3})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: shoes})
	assert.ErrorIs(t, err, ErrNotLeaf)

	require.NoError(t, s.Products.IncrementPopularity(ctx, id))
	list, err := s.Products.ListByCategory(ctx, sneakers, model.SortPopularity)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].CountOfReviews)
	assert.Len(t, list[0].Photos, 3)
	require.NotNil(t, list[0].MinPrice)
	assert.Equal(t, 5000.0, *list[0].MinPrice)

	require.NoError(t, s.Categories.Rename(ctx, model.LevelSub, "Sneakers", "Trainers"))
	assert.ErrorIs(t, s.Categories.Rename(ctx, model.LevelSub, "Sneakers", "Trainers"), ErrNotFound)

	require.NoError(t, s.Categories.DeleteSubtree(ctx, model.LevelGlobal, "Shoes"))

	_, err = s.Products.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Categories.GetById(ctx, sneakers)
	assert.ErrorIs(t, err, ErrNotFound)

	roots, err := s.Categories.ListRoots(ctx)
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestPostgresUsers(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Users.Register(ctx, model.User{UserId: 7, Username: "u"}))
	require.NoError(t, s.Users.Register(ctx, model.User{UserId: 7, Username: "u"}))

	ok, err := s.Users.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPostgresConcurrentProductUpsert(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	_, err := s.Categories.CreateGlobal(ctx, "Shoes")
	require.NoError(t, err)
	sneakers, err := s.Categories.CreateCategory(ctx, "Sneakers", "Shoes")
	require.NoError(t, err)

	const writers = 8
	ids := make([]int64, writers)
	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			id, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers}, []byte{byte(i)})
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	p, err := s.Products.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Len(t, p.Photos, writers)
}
