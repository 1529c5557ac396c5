package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"SneakerShopBot/internal/model"

	"github.com/jmoiron/sqlx"
)

type ProductsStore struct {
	db *sqlx.DB
}

const productColumns = `id, name, category_id, min_price, count_of_reviews, parse_name`

// Create inserts the product, or reuses the one with the same name in the
// same category, and appends the photos to it.
func (s *ProductsStore) Create(ctx context.Context, product *model.Product, photos ...[]byte) (int64, error) {
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := ensureLeaf(ctx, tx, product.CategoryId); err != nil {
			return err
		}

		err := tx.GetContext(ctx, &product.Id, `
		INSERT INTO products (name, category_id, min_price, parse_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, product.Name, product.CategoryId, product.MinPrice, product.ParseName)
		if err != nil {
			return fmt.Errorf("upsert product %q: %w", product.Name, err)
		}

		return insertPhotos(ctx, tx, product.Id, photos)
	})
	if err != nil {
		return 0, err
	}
	return product.Id, nil
}

func (s *ProductsStore) AddPhoto(ctx context.Context, productId int64, photo []byte) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := ensureProduct(ctx, tx, productId); err != nil {
			return err
		}
		return insertPhotos(ctx, tx, productId, [][]byte{photo})
	})
}

// ReplacePhotos drops every photo of the product and stores the given ones.
func (s *ProductsStore) ReplacePhotos(ctx context.Context, productId int64, photos ...[]byte) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := ensureProduct(ctx, tx, productId); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_photos WHERE product_id = $1`, productId); err != nil {
			return fmt.Errorf("delete photos of product %d: %w", productId, err)
		}
		return insertPhotos(ctx, tx, productId, photos)
	})
}

func (s *ProductsStore) Get(ctx context.Context, id int64) (*model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var p model.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	products := []model.Product{p}
	if err := s.attachPhotos(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (s *ProductsStore) UpdateName(ctx context.Context, id int64, name string) error {
	return s.update(ctx, `UPDATE products SET name = $1 WHERE id = $2`, name, id)
}

func (s *ProductsStore) UpdateMinPrice(ctx context.Context, id int64, price float64) error {
	return s.update(ctx, `UPDATE products SET min_price = $1 WHERE id = $2`, price, id)
}

func (s *ProductsStore) IncrementPopularity(ctx context.Context, id int64) error {
	return s.update(ctx, `UPDATE products SET count_of_reviews = count_of_reviews + 1 WHERE id = $1`, id)
}

func (s *ProductsStore) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_photos WHERE product_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return expectRow(res)
	})
}

var orderBy = map[model.SortKey]string{
	model.SortPriceAsc:   `min_price ASC NULLS LAST, id`,
	model.SortPriceDesc:  `min_price DESC NULLS LAST, id`,
	model.SortPopularity: `count_of_reviews DESC, id`,
}

func (s *ProductsStore) ListByCategory(ctx context.Context, categoryId int64, sort model.SortKey) ([]model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	order, ok := orderBy[sort]
	if !ok {
		order = orderBy[model.SortPriceAsc]
	}

	products := []model.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY ` + order
	if err := s.db.SelectContext(ctx, &products, query, categoryId); err != nil {
		return nil, fmt.Errorf("list products of category %d: %w", categoryId, err)
	}

	if err := s.attachPhotos(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductsStore) attachPhotos(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids = append(ids, p.Id)
		index[p.Id] = i
	}

	query, args, err := sqlx.In(`SELECT id, product_id, photo FROM product_photos WHERE product_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return err
	}

	var photos []model.ProductPhoto
	if err := s.db.SelectContext(ctx, &photos, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("select product photos: %w", err)
	}

	for _, photo := range photos {
		i := index[photo.ProductId]
		products[i].Photos = append(products[i].Photos, photo)
	}
	return nil
}

func (s *ProductsStore) update(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	return expectRow(res)
}

func insertPhotos(ctx context.Context, tx *sqlx.Tx, productId int64, photos [][]byte) error {
	for _, photo := range photos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_photos (product_id, photo) VALUES ($1, $2)`, productId, photo); err != nil {
			return fmt.Errorf("insert photo of product %d: %w", productId, err)
		}
	}
	return nil
}

func ensureProduct(ctx context.Context, tx *sqlx.Tx, productId int64) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productId); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

func ensureLeaf(ctx context.Context, tx *sqlx.Tx, categoryId int64) error {
	var row struct {
		Found    bool `db:"found"`
		Children int  `db:"children"`
	}
	query := `
	SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1) AS found,
	       (SELECT count(*) FROM categories WHERE parent_id = $1) AS children`
	if err := tx.GetContext(ctx, &row, query, categoryId); err != nil {
		return err
	}
	if !row.Found {
		return ErrParentNotFound
	}
	if row.Children > 0 {
		return ErrNotLeaf
	}
	return nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
