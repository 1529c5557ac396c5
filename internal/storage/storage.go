package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"SneakerShopBot/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrParentNotFound = errors.New("parent category not found")
	ErrNotLeaf        = errors.New("category has sub-categories")
	ErrHasProducts    = errors.New("category holds products")

	QueryTimeoutDuration = 5 * time.Second
)

type UserStorage interface {
	Register(ctx context.Context, user model.User) error
	Exists(ctx context.Context, userId int64) (bool, error)
}

type CategoryStorage interface {
	CreateGlobal(ctx context.Context, name string) (int64, error)
	CreateCategory(ctx context.Context, name, parentName string) (int64, error)
	ResolveParent(ctx context.Context, name string) (model.ParentRef, error)
	Rename(ctx context.Context, level model.Level, oldName, newName string) error
	DeleteSubtree(ctx context.Context, level model.Level, name string) error
	GetById(ctx context.Context, id int64) (*model.Category, error)
	GetByName(ctx context.Context, level model.Level, name string) (*model.Category, error)
	ListRoots(ctx context.Context) ([]model.Category, error)
	ListChildren(ctx context.Context, parentId int64) ([]model.Category, error)
	ListLeaves(ctx context.Context) ([]model.Category, error)
}

type ProductStorage interface {
	Create(ctx context.Context, product *model.Product, photos ...[]byte) (int64, error)
	AddPhoto(ctx context.Context, productId int64, photo []byte) error
	ReplacePhotos(ctx context.Context, productId int64, photos ...[]byte) error
	Get(ctx context.Context, id int64) (*model.Product, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateMinPrice(ctx context.Context, id int64, price float64) error
	IncrementPopularity(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, categoryId int64, sort model.SortKey) ([]model.Product, error)
}

type Storage struct {
	Users      UserStorage
	Categories CategoryStorage
	Products   ProductStorage
}

func NewStorage(db *sqlx.DB) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Categories: &CategoriesStore{db},
		Products:   &ProductsStore{db},
	}
}

// withTx runs fn in a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Warnf("rollback failed: %v", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
