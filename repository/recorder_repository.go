package repository

import (
	"context"

	"gorm.io/gorm"

	"audiolab/filter"
	"audiolab/model"
)

// RecorderRepository defines the interface for recorder data operations.
type RecorderRepository interface {
	WithTx(tx *gorm.DB) RecorderRepository
	Create(ctx context.Context, recorder *model.Recorder) error
	GetByUID(ctx context.Context, uid string) (*model.Recorder, error)
	List(ctx context.Context, filters []filter.Filter) ([]*model.Recorder, error)
	Update(ctx context.Context, recorder *model.Recorder) error
	SetCurrentSeries(ctx context.Context, uid string, seriesUID *string) error
	Delete(ctx context.Context, uid string) error
}

// gormRecorderRepository implements RecorderRepository on GORM.
type gormRecorderRepository struct {
	db *gorm.DB
}

// NewGormRecorderRepository creates a GORM-backed recorder repository.
func NewGormRecorderRepository(db *gorm.DB) RecorderRepository {
	return &gormRecorderRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormRecorderRepository) WithTx(tx *gorm.DB) RecorderRepository {
	return &gormRecorderRepository{db: tx}
}

func (r *gormRecorderRepository) Create(ctx context.Context, recorder *model.Recorder) error {
	return r.db.WithContext(ctx).Create(recorder).Error
}

// GetByUID returns the recorder with the given uid, or nil when no such
// recorder exists.
func (r *gormRecorderRepository) GetByUID(ctx context.Context, uid string) (*model.Recorder, error) {
	var recorder model.Recorder
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&recorder).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &recorder, nil
}

func (r *gormRecorderRepository) List(ctx context.Context, filters []filter.Filter) ([]*model.Recorder, error) {
	var recorders []*model.Recorder
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.Recorder{}), filters)
	if err := tx.Order("created_at").Find(&recorders).Error; err != nil {
		return nil, err
	}
	return recorders, nil
}

func (r *gormRecorderRepository) Update(ctx context.Context, recorder *model.Recorder) error {
	return r.db.WithContext(ctx).Save(recorder).Error
}

// SetCurrentSeries writes the current series binding, including clearing
// it when seriesUID is nil.
func (r *gormRecorderRepository) SetCurrentSeries(ctx context.Context, uid string, seriesUID *string) error {
	return r.db.WithContext(ctx).Model(&model.Recorder{}).
		Where("uid = ?", uid).
		Update("current_series_uid", seriesUID).Error
}

func (r *gormRecorderRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Recorder{}).Error
}
