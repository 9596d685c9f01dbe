package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

// BaseRepository defines the record operations shared by every store.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
}

type baseRepository[T any] struct {
	db     *gorm.DB
	entity string
}

// NewBaseRepository returns a BaseRepository whose error messages name entity.
func NewBaseRepository[T any](db *gorm.DB, entity string) BaseRepository[T] {
	return &baseRepository[T]{db: db, entity: entity}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.Wrap(err, appErr.CodeConflict, r.entity+" already exists")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create "+r.entity+" failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, r.entity+" not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get "+r.entity+" failed")
	}
	return nil
}
