// Package memory keeps the catalog in process memory. It backs the "memory"
// database driver and the tests of the packages above storage.
package memory

import (
	"context"
	"sort"
	"sync"

	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"
)

type db struct {
	mu sync.RWMutex

	users      map[int64]model.User
	categories map[int64]model.Category
	products   map[int64]model.Product
	photos     map[int64]model.ProductPhoto

	nextId int64
}

func NewStorage() storage.Storage {
	d := &db{
		users:      make(map[int64]model.User),
		categories: make(map[int64]model.Category),
		products:   make(map[int64]model.Product),
		photos:     make(map[int64]model.ProductPhoto),
	}
	return storage.Storage{
		Users:      &users{d},
		Categories: &categories{d},
		Products:   &products{d},
	}
}

func (d *db) id() int64 {
	d.nextId++
	return d.nextId
}

type users struct{ *db }

func (u *users) Register(_ context.Context, user model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.users[user.UserId]; !ok {
		user.Id = int(u.id())
		u.users[user.UserId] = user
	}
	return nil
}

func (u *users) Exists(_ context.Context, userId int64) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	_, ok := u.users[userId]
	return ok, nil
}

type categories struct{ *db }

func (c *categories) CreateGlobal(_ context.Context, name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byName(name); ok {
		return 0, storage.ErrAlreadyExists
	}
	node := model.Category{Id: c.id(), Name: name}
	c.categories[node.Id] = node
	return node.Id, nil
}

func (c *categories) CreateCategory(_ context.Context, name, parentName string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parent, ok := c.byName(parentName)
	if !ok {
		return 0, storage.ErrParentNotFound
	}
	if _, ok := c.byName(name); ok {
		return 0, storage.ErrAlreadyExists
	}
	for _, p := range c.products {
		if p.CategoryId == parent.Id {
			return 0, storage.ErrHasProducts
		}
	}
	ref := model.RefTo(parent)
	node := model.Category{Id: c.id(), Name: name, ParentId: &ref.Id}
	c.categories[node.Id] = node
	return node.Id, nil
}

func (c *categories) ResolveParent(_ context.Context, name string) (model.ParentRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parent, ok := c.byName(name)
	if !ok {
		return model.ParentRef{}, storage.ErrParentNotFound
	}
	return model.RefTo(parent), nil
}

func (c *categories) Rename(_ context.Context, level model.Level, oldName, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, err := c.atLevel(level, oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if _, ok := c.byName(newName); ok {
		return storage.ErrAlreadyExists
	}
	node.Name = newName
	c.categories[node.Id] = node
	return nil
}

func (c *categories) DeleteSubtree(_ context.Context, level model.Level, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, err := c.atLevel(level, name)
	if err != nil {
		return err
	}
	c.deleteBranch(node.Id)
	delete(c.categories, node.Id)
	return nil
}

func (c *categories) deleteBranch(categoryId int64) {
	for id, p := range c.products {
		if p.CategoryId == categoryId {
			c.dropProduct(id)
		}
	}
	for _, child := range c.children(categoryId) {
		c.deleteBranch(child.Id)
		delete(c.categories, child.Id)
	}
}

func (c *categories) GetById(_ context.Context, id int64) (*model.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	node, ok := c.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &node, nil
}

func (c *categories) GetByName(_ context.Context, level model.Level, name string) (*model.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	node, err := c.atLevel(level, name)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (c *categories) ListRoots(_ context.Context) ([]model.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	roots := []model.Category{}
	for _, node := range c.categories {
		if node.IsRoot() {
			roots = append(roots, node)
		}
	}
	sortCategories(roots)
	return roots, nil
}

func (c *categories) ListChildren(_ context.Context, parentId int64) ([]model.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.children(parentId), nil
}

func (c *categories) ListLeaves(_ context.Context) ([]model.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	leaves := []model.Category{}
	for _, node := range c.categories {
		if !node.IsRoot() && len(c.children(node.Id)) == 0 {
			leaves = append(leaves, node)
		}
	}
	sortCategories(leaves)
	return leaves, nil
}

func (d *db) byName(name string) (model.Category, bool) {
	for _, node := range d.categories {
		if node.Name == name {
			return node, true
		}
	}
	return model.Category{}, false
}

func (d *db) atLevel(level model.Level, name string) (model.Category, error) {
	node, ok := d.byName(name)
	if !ok || !level.Matches(node) {
		return model.Category{}, storage.ErrNotFound
	}
	return node, nil
}

func (d *db) children(parentId int64) []model.Category {
	children := []model.Category{}
	for _, node := range d.categories {
		if node.ParentId != nil && *node.ParentId == parentId {
			children = append(children, node)
		}
	}
	sortCategories(children)
	return children
}

func (d *db) dropProduct(productId int64) {
	for id, photo := range d.photos {
		if photo.ProductId == productId {
			delete(d.photos, id)
		}
	}
	delete(d.products, productId)
}

func sortCategories(categories []model.Category) {
	sort.Slice(categories, func(i, j int) bool { return categories[i].Id < categories[j].Id })
}
