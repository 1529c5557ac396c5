package memory

import (
	"context"
	"testing"

	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func seedTree(t *testing.T, s storage.Storage) (shoes, sneakers, boots int64) {
	t.Helper()
	ctx := context.Background()

	shoes, err := s.Categories.CreateGlobal(ctx, "Shoes")
	require.NoError(t, err)
	sneakers, err = s.Categories.CreateCategory(ctx, "Sneakers", "Shoes")
	require.NoError(t, err)
	boots, err = s.Categories.CreateCategory(ctx, "Boots", "Shoes")
	require.NoError(t, err)
	return shoes, sneakers, boots
}

func TestCategoriesCreate(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	shoes, sneakers, _ := seedTree(t, s)

	_, err := s.Categories.CreateGlobal(ctx, "Shoes")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	_, err = s.Categories.CreateGlobal(ctx, "Sneakers")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists, "names are unique across the whole tree")

	_, err = s.Categories.CreateCategory(ctx, "Running", "Nope")
	assert.ErrorIs(t, err, storage.ErrParentNotFound)

	ref, err := s.Categories.ResolveParent(ctx, "Shoes")
	require.NoError(t, err)
	assert.Equal(t, model.ParentRef{Kind: model.ParentGlobal, Id: shoes}, ref)

	ref, err = s.Categories.ResolveParent(ctx, "Sneakers")
	require.NoError(t, err)
	assert.Equal(t, model.ParentRef{Kind: model.ParentSub, Id: sneakers}, ref)

	children, err := s.Categories.ListChildren(ctx, shoes)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Sneakers", children[0].Name)
	assert.Equal(t, "Boots", children[1].Name)
}

func TestCategoriesRename(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_, sneakers, _ := seedTree(t, s)

	id, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers}, []byte("a"))
	require.NoError(t, err)

	require.NoError(t, s.Categories.Rename(ctx, model.LevelSub, "Sneakers", "Trainers"))
	assert.ErrorIs(t, s.Categories.Rename(ctx, model.LevelSub, "Sneakers", "Trainers"), storage.ErrNotFound)

	node, err := s.Categories.GetByName(ctx, model.LevelSub, "Trainers")
	require.NoError(t, err)
	assert.Equal(t, sneakers, node.Id)

	product, err := s.Products.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, node.Id, product.CategoryId)

	assert.ErrorIs(t, s.Categories.Rename(ctx, model.LevelGlobal, "Trainers", "X"), storage.ErrNotFound)
	assert.ErrorIs(t, s.Categories.Rename(ctx, model.LevelSub, "Trainers", "Boots"), storage.ErrAlreadyExists)
	assert.NoError(t, s.Categories.Rename(ctx, model.LevelGlobal, "Shoes", "Shoes"))
}

func TestCategoriesDeleteSubtree(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	shoes, sneakers, boots := seedTree(t, s)

	running, err := s.Categories.CreateCategory(ctx, "Running", "Sneakers")
	require.NoError(t, err)
	other, err := s.Categories.CreateGlobal(ctx, "Hats")
	require.NoError(t, err)
	caps, err := s.Categories.CreateCategory(ctx, "Caps", "Hats")
	require.NoError(t, err)

	var ids []int64
	for _, c := range []int64{running, boots} {
		id, err := s.Products.Create(ctx, &model.Product{Name: "p", CategoryId: c}, []byte("1"), []byte("2"))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	kept, err := s.Products.Create(ctx, &model.Product{Name: "cap", CategoryId: caps}, []byte("3"))
	require.NoError(t, err)

	require.NoError(t, s.Categories.DeleteSubtree(ctx, model.LevelGlobal, "Shoes"))

	for _, id := range ids {
		_, err := s.Products.Get(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
	for _, id := range []int64{shoes, sneakers, boots, running} {
		_, err := s.Categories.GetById(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}

	impl := s.Categories.(*categories)
	assert.Len(t, impl.photos, 1)
	assert.Len(t, impl.categories, 2)

	product, err := s.Products.Get(ctx, kept)
	require.NoError(t, err)
	assert.Equal(t, caps, product.CategoryId)

	roots, err := s.Categories.ListRoots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, other, roots[0].Id)

	assert.ErrorIs(t, s.Categories.DeleteSubtree(ctx, model.LevelSub, "Hats"), storage.ErrNotFound)
}

func TestProductsCreateUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	shoes, sneakers, _ := seedTree(t, s)

	first, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers, MinPrice: price(5000)},
		[]byte("1"), []byte("2"))
	require.NoError(t, err)

	second, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers}, []byte("3"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	list, err := s.Products.ListByCategory(ctx, sneakers, model.SortPriceAsc)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Photos, 3)
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2"), []byte("3")}, list[0].PhotoBlobs())
	require.NotNil(t, list[0].MinPrice)
	assert.Equal(t, 5000.0, *list[0].MinPrice)

	_, err = s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: shoes})
	assert.ErrorIs(t, err, storage.ErrNotLeaf)

	_, err = s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: 999})
	assert.ErrorIs(t, err, storage.ErrParentNotFound)

	_, err = s.Categories.CreateCategory(ctx, "Running", "Sneakers")
	assert.ErrorIs(t, err, storage.ErrHasProducts)
}

func TestProductsPhotosAndUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_, sneakers, _ := seedTree(t, s)

	id, err := s.Products.Create(ctx, &model.Product{Name: "AirX", CategoryId: sneakers}, []byte("1"))
	require.NoError(t, err)

	require.NoError(t, s.Products.AddPhoto(ctx, id, []byte("2")))
	require.NoError(t, s.Products.ReplacePhotos(ctx, id, []byte("9")))
	require.NoError(t, s.Products.UpdateName(ctx, id, "AirY"))
	require.NoError(t, s.Products.UpdateMinPrice(ctx, id, 7000))

	product, err := s.Products.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "AirY", product.Name)
	assert.Equal(t, 7000.0, *product.MinPrice)
	assert.Equal(t, [][]byte{[]byte("9")}, product.PhotoBlobs())

	assert.ErrorIs(t, s.Products.AddPhoto(ctx, 404, nil), storage.ErrNotFound)
	assert.ErrorIs(t, s.Products.UpdateName(ctx, 404, "x"), storage.ErrNotFound)

	require.NoError(t, s.Products.Delete(ctx, id))
	_, err = s.Products.Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.Products.Delete(ctx, id), storage.ErrNotFound)
}

func TestProductsListByCategorySort(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_, sneakers, _ := seedTree(t, s)

	seed := []struct {
		name  string
		price *float64
		buys  int
	}{
		{"a", price(300), 1},
		{"b", nil, 5},
		{"c", price(100), 0},
		{"d", price(200), 3},
	}
	for _, p := range seed {
		id, err := s.Products.Create(ctx, &model.Product{Name: p.name, CategoryId: sneakers, MinPrice: p.price}, []byte(p.name))
		require.NoError(t, err)
		for i := 0; i < p.buys; i++ {
			require.NoError(t, s.Products.IncrementPopularity(ctx, id))
		}
	}

	tests := []struct {
		key  model.SortKey
		want []string
	}{
		{model.SortPriceAsc, []string{"c", "d", "a", "b"}},
		{model.SortPriceDesc, []string{"a", "d", "c", "b"}},
		{model.SortPopularity, []string{"b", "d", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			list, err := s.Products.ListByCategory(ctx, sneakers, tt.key)
			require.NoError(t, err)

			var names []string
			for _, p := range list {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestUsersRegister(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()

	ok, err := s.Users.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Users.Register(ctx, model.User{UserId: 42, Username: "first"}))
	require.NoError(t, s.Users.Register(ctx, model.User{UserId: 42, Username: "second"}))

	ok, err = s.Users.Exists(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", s.Users.(*users).users[42].Username)
}
