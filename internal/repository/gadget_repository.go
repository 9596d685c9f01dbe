package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imf-ops/gadget-api/internal/models"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

// GadgetPatch lists the columns an update may touch. Nil fields are left alone.
type GadgetPatch struct {
	Name             *string
	Status           *models.GadgetStatus
	DecommissionedAt *time.Time
}

func (p GadgetPatch) columns(now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.DecommissionedAt != nil {
		cols["decommissioned_at"] = *p.DecommissionedAt
	}
	return cols
}

// GadgetListFilter narrows List. A nil Status matches every gadget.
type GadgetListFilter struct {
	Status *models.GadgetStatus
}

type GadgetRepository interface {
	BaseRepository[models.Gadget]
	Update(ctx context.Context, id uuid.UUID, patch GadgetPatch) (*models.Gadget, error)
	List(ctx context.Context, filter GadgetListFilter) ([]models.Gadget, error)
}

type gadgetRepository struct {
	BaseRepository[models.Gadget]
	db  *gorm.DB
	now func() time.Time
}

func NewGadgetRepository(db *gorm.DB) GadgetRepository {
	return &gadgetRepository{
		BaseRepository: NewBaseRepository[models.Gadget](db, "gadget"),
		db:             db,
		now:            time.Now,
	}
}

// Update applies patch in a single statement and returns the stored record.
// Concurrent updates to the same gadget are last-writer-wins.
func (r *gadgetRepository) Update(ctx context.Context, id uuid.UUID, patch GadgetPatch) (*models.Gadget, error) {
	res := r.db.WithContext(ctx).Model(&models.Gadget{}).Where("id = ?", id).Updates(patch.columns(r.now()))
	if res.Error != nil {
		return nil, appErr.Wrap(res.Error, appErr.CodeInternal, "update gadget failed")
	}
	if res.RowsAffected == 0 {
		return nil, appErr.New(appErr.CodeNotFound, "gadget not found")
	}

	var g models.Gadget
	if err := r.GetByID(ctx, id, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gadgetRepository) List(ctx context.Context, filter GadgetListFilter) ([]models.Gadget, error) {
	q := r.db.WithContext(ctx).Model(&models.Gadget{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	out := []models.Gadget{}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list gadgets failed")
	}
	return out, nil
}
