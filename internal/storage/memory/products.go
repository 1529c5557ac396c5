package memory

import (
	"context"
	"sort"

	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"
)

type products struct{ *db }

func (p *products) Create(_ context.Context, product *model.Product, photos ...[]byte) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.categories[product.CategoryId]; !ok {
		return 0, storage.ErrParentNotFound
	}
	if len(p.children(product.CategoryId)) > 0 {
		return 0, storage.ErrNotLeaf
	}

	product.Id = 0
	for _, existing := range p.products {
		if existing.Name == product.Name && existing.CategoryId == product.CategoryId {
			product.Id = existing.Id
			break
		}
	}
	if product.Id == 0 {
		product.Id = p.id()
		stored := *product
		stored.CountOfReviews = 0
		stored.Photos = nil
		p.products[stored.Id] = stored
	}

	p.insertPhotos(product.Id, photos)
	return product.Id, nil
}

func (p *products) AddPhoto(_ context.Context, productId int64, photo []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.products[productId]; !ok {
		return storage.ErrNotFound
	}
	p.insertPhotos(productId, [][]byte{photo})
	return nil
}

func (p *products) ReplacePhotos(_ context.Context, productId int64, photos ...[]byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.products[productId]; !ok {
		return storage.ErrNotFound
	}
	for id, photo := range p.photos {
		if photo.ProductId == productId {
			delete(p.photos, id)
		}
	}
	p.insertPhotos(productId, photos)
	return nil
}

func (p *products) Get(_ context.Context, id int64) (*model.Product, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	product, ok := p.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	product.Photos = p.photosOf(id)
	return &product, nil
}

func (p *products) UpdateName(_ context.Context, id int64, name string) error {
	p.mu.RLock()
	current, ok := p.products[id]
	taken := false
	for _, other := range p.products {
		if ok && other.Id != id && other.Name == name && other.CategoryId == current.CategoryId {
			taken = true
		}
	}
	p.mu.RUnlock()
	if taken {
		return storage.ErrAlreadyExists
	}
	return p.update(id, func(product *model.Product) { product.Name = name })
}

func (p *products) UpdateMinPrice(_ context.Context, id int64, price float64) error {
	return p.update(id, func(product *model.Product) { product.MinPrice = &price })
}

func (p *products) IncrementPopularity(_ context.Context, id int64) error {
	return p.update(id, func(product *model.Product) { product.CountOfReviews++ })
}

func (p *products) Delete(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.products[id]; !ok {
		return storage.ErrNotFound
	}
	p.dropProduct(id)
	return nil
}

func (p *products) ListByCategory(_ context.Context, categoryId int64, key model.SortKey) ([]model.Product, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	list := []model.Product{}
	for _, product := range p.products {
		if product.CategoryId == categoryId {
			product.Photos = p.photosOf(product.Id)
			list = append(list, product)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch key {
		case model.SortPopularity:
			if a.CountOfReviews != b.CountOfReviews {
				return a.CountOfReviews > b.CountOfReviews
			}
		case model.SortPriceDesc:
			if less, decided := comparePrices(b.MinPrice, a.MinPrice, true); decided {
				return less
			}
		default:
			if less, decided := comparePrices(a.MinPrice, b.MinPrice, false); decided {
				return less
			}
		}
		return a.Id < b.Id
	})
	return list, nil
}

// comparePrices orders x before y when x is cheaper. Missing prices always go
// last; swapped tells that the arguments were swapped for a descending order.
func comparePrices(x, y *float64, swapped bool) (less bool, decided bool) {
	switch {
	case x == nil && y == nil:
		return false, false
	case x == nil:
		return swapped, true
	case y == nil:
		return !swapped, true
	case *x == *y:
		return false, false
	default:
		return *x < *y, true
	}
}

func (p *products) update(id int64, fn func(product *model.Product)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	product, ok := p.products[id]
	if !ok {
		return storage.ErrNotFound
	}
	fn(&product)
	p.products[id] = product
	return nil
}

func (d *db) insertPhotos(productId int64, photos [][]byte) {
	for _, blob := range photos {
		photo := model.ProductPhoto{Id: d.id(), ProductId: productId, Photo: blob}
		d.photos[photo.Id] = photo
	}
}

func (d *db) photosOf(productId int64) []model.ProductPhoto {
	var photos []model.ProductPhoto
	for _, photo := range d.photos {
		if photo.ProductId == productId {
			photos = append(photos, photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].Id < photos[j].Id })
	return photos
}
