package repository

import (
	"context"

	"gorm.io/gorm"

	"audiolab/filter"
	"audiolab/model"
)

// LabelRepository defines the interface for label data operations.
type LabelRepository interface {
	WithTx(tx *gorm.DB) LabelRepository
	Create(ctx context.Context, label *model.Label) error
	GetByUID(ctx context.Context, uid string) (*model.Label, error)
	List(ctx context.Context, filters []filter.Filter) ([]*model.Label, error)
	Delete(ctx context.Context, uid string) error
}

// gormLabelRepository implements LabelRepository on GORM.
type gormLabelRepository struct {
	db *gorm.DB
}

// NewGormLabelRepository creates a GORM-backed label repository.
func NewGormLabelRepository(db *gorm.DB) LabelRepository {
	return &gormLabelRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormLabelRepository) WithTx(tx *gorm.DB) LabelRepository {
	return &gormLabelRepository{db: tx}
}

func (r *gormLabelRepository) Create(ctx context.Context, label *model.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

// GetByUID returns the label with the given uid, or nil when no such
// label exists.
func (r *gormLabelRepository) GetByUID(ctx context.Context, uid string) (*model.Label, error) {
	var label model.Label
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&label).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &label, nil
}

func (r *gormLabelRepository) List(ctx context.Context, filters []filter.Filter) ([]*model.Label, error) {
	var labels []*model.Label
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.Label{}), filters)
	if err := tx.Order("created_at").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *gormLabelRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Label{}).Error
}
