package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"SneakerShopBot/internal/model"

	"github.com/jmoiron/sqlx"
)

type CategoriesStore struct {
	db *sqlx.DB
}

const categoryColumns = `id, name, parent_id`

func (s *CategoriesStore) CreateGlobal(ctx context.Context, name string) (int64, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := ensureNameFree(ctx, tx, name); err != nil {
			return err
		}
		return insertCategory(ctx, tx, name, nil, &id)
	})
	return id, err
}

// CreateCategory places a new category under the global category or
// category called parentName. A category that already holds products cannot
// get sub-categories.
func (s *CategoriesStore) CreateCategory(ctx context.Context, name, parentName string) (int64, error) {
	var id int64
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		parent, err := categoryByName(ctx, tx, parentName)
		if errors.Is(err, ErrNotFound) {
			return ErrParentNotFound
		}
		if err != nil {
			return err
		}
		if err := ensureNameFree(ctx, tx, name); err != nil {
			return err
		}
		var products int
		if err := tx.GetContext(ctx, &products, `SELECT count(*) FROM products WHERE category_id = $1`, parent.Id); err != nil {
			return err
		}
		if products > 0 {
			return ErrHasProducts
		}
		ref := model.RefTo(*parent)
		return insertCategory(ctx, tx, name, &ref.Id, &id)
	})
	return id, err
}

func (s *CategoriesStore) ResolveParent(ctx context.Context, name string) (model.ParentRef, error) {
	parent, err := categoryByName(ctx, s.db, name)
	if errors.Is(err, ErrNotFound) {
		return model.ParentRef{}, ErrParentNotFound
	}
	if err != nil {
		return model.ParentRef{}, err
	}
	return model.RefTo(*parent), nil
}

// Rename changes the name of a node. Children and products reference the
// node by id, so they follow the rename.
func (s *CategoriesStore) Rename(ctx context.Context, level model.Level, oldName, newName string) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		node, err := categoryAtLevel(ctx, tx, level, oldName)
		if err != nil {
			return err
		}
		if oldName == newName {
			return nil
		}
		if err := ensureNameFree(ctx, tx, newName); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, newName, node.Id)
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	})
}

// DeleteSubtree removes the named node together with every category,
// product and photo beneath it.
func (s *CategoriesStore) DeleteSubtree(ctx context.Context, level model.Level, name string) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		node, err := categoryAtLevel(ctx, tx, level, name)
		if err != nil {
			return err
		}
		if err := deleteBranch(ctx, tx, node.Id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, node.Id)
		return err
	})
}

// deleteBranch removes the products of categoryId, recurses into every
// sub-category and finally drops the sub-category rows.
func deleteBranch(ctx context.Context, tx *sqlx.Tx, categoryId int64) error {
	if err := deleteProductsIn(ctx, tx, categoryId); err != nil {
		return err
	}

	var children []int64
	if err := tx.SelectContext(ctx, &children, `SELECT id FROM categories WHERE parent_id = $1`, categoryId); err != nil {
		return fmt.Errorf("select sub-categories of %d: %w", categoryId, err)
	}
	for _, child := range children {
		if err := deleteBranch(ctx, tx, child); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE parent_id = $1`, categoryId); err != nil {
		return fmt.Errorf("delete sub-categories of %d: %w", categoryId, err)
	}
	return nil
}

func deleteProductsIn(ctx context.Context, tx *sqlx.Tx, categoryId int64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM product_photos WHERE product_id IN (SELECT id FROM products WHERE category_id = $1)`, categoryId)
	if err != nil {
		return fmt.Errorf("delete photos in category %d: %w", categoryId, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE category_id = $1`, categoryId); err != nil {
		return fmt.Errorf("delete products in category %d: %w", categoryId, err)
	}
	return nil
}

func (s *CategoriesStore) GetById(ctx context.Context, id int64) (*model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var c model.Category
	err := s.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoriesStore) GetByName(ctx context.Context, level model.Level, name string) (*model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return categoryAtLevel(ctx, s.db, level, name)
}

func (s *CategoriesStore) ListRoots(ctx context.Context) ([]model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	categories := []model.Category{}
	err := s.db.SelectContext(ctx, &categories,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL ORDER BY id`)
	return categories, err
}

func (s *CategoriesStore) ListChildren(ctx context.Context, parentId int64) ([]model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	categories := []model.Category{}
	err := s.db.SelectContext(ctx, &categories,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY id`, parentId)
	return categories, err
}

// ListLeaves returns the non-global categories without sub-categories, the
// only places a product may live.
func (s *CategoriesStore) ListLeaves(ctx context.Context) ([]model.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
	SELECT c.id, c.name, c.parent_id
	FROM categories c
	WHERE c.parent_id IS NOT NULL
	  AND NOT EXISTS (SELECT 1 FROM categories sub WHERE sub.parent_id = c.id)
	ORDER BY c.id`

	categories := []model.Category{}
	err := s.db.SelectContext(ctx, &categories, query)
	return categories, err
}

func categoryByName(ctx context.Context, q sqlx.QueryerContext, name string) (*model.Category, error) {
	var c model.Category
	err := sqlx.GetContext(ctx, q, &c, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category %q: %w", name, err)
	}
	return &c, nil
}

func categoryAtLevel(ctx context.Context, q sqlx.QueryerContext, level model.Level, name string) (*model.Category, error) {
	c, err := categoryByName(ctx, q, name)
	if err != nil {
		return nil, err
	}
	if !level.Matches(*c) {
		return nil, ErrNotFound
	}
	return c, nil
}

func ensureNameFree(ctx context.Context, q sqlx.QueryerContext, name string) error {
	_, err := categoryByName(ctx, q, name)
	switch {
	case err == nil:
		return ErrAlreadyExists
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}

func insertCategory(ctx context.Context, tx *sqlx.Tx, name string, parentId *int64, id *int64) error {
	err := tx.GetContext(ctx, id, `INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`, name, parentId)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return err
}
