package repository

import (
	"context"

	"gorm.io/gorm"

	"audiolab/filter"
	"audiolab/model"
)

// SeriesRepository defines the interface for series data operations.
type SeriesRepository interface {
	WithTx(tx *gorm.DB) SeriesRepository
	Create(ctx context.Context, series *model.Series) error
	GetByUID(ctx context.Context, uid string) (*model.Series, error)
	List(ctx context.Context, filters []filter.Filter) ([]*model.Series, error)
	Update(ctx context.Context, series *model.Series) error
	Delete(ctx context.Context, uid string) error
	CountByRecorder(ctx context.Context, recorderUID string) (int64, error)
	CountByParameters(ctx context.Context, parametersUID string) (int64, error)
	RecorderUIDsBySeries(ctx context.Context, seriesUIDs []string) ([]string, error)
}

// gormSeriesRepository implements SeriesRepository on GORM.
type gormSeriesRepository struct {
	db *gorm.DB
}

// NewGormSeriesRepository creates a GORM-backed series repository.
func NewGormSeriesRepository(db *gorm.DB) SeriesRepository {
	return &gormSeriesRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormSeriesRepository) WithTx(tx *gorm.DB) SeriesRepository {
	return &gormSeriesRepository{db: tx}
}

// Create persists the series row alone; its preset is stored through
// the parameters repository.
func (r *gormSeriesRepository) Create(ctx context.Context, series *model.Series) error {
	return r.db.WithContext(ctx).Omit("Parameters").Create(series).Error
}

// GetByUID returns the series with the given uid with its preset
// preloaded, or nil when no such series exists.
func (r *gormSeriesRepository) GetByUID(ctx context.Context, uid string) (*model.Series, error) {
	var series model.Series
	err := r.db.WithContext(ctx).Preload("Parameters").
		Where("uid = ?", uid).First(&series).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &series, nil
}

func (r *gormSeriesRepository) List(ctx context.Context, filters []filter.Filter) ([]*model.Series, error) {
	var serieses []*model.Series
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.Series{}), filters)
	if err := tx.Preload("Parameters").Order("created_at").Find(&serieses).Error; err != nil {
		return nil, err
	}
	return serieses, nil
}

func (r *gormSeriesRepository) Update(ctx context.Context, series *model.Series) error {
	return r.db.WithContext(ctx).Omit("Parameters").Save(series).Error
}

func (r *gormSeriesRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Series{}).Error
}

func (r *gormSeriesRepository) CountByRecorder(ctx context.Context, recorderUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Series{}).
		Where("recorder_uid = ?", recorderUID).Count(&count).Error
	return count, err
}

func (r *gormSeriesRepository) CountByParameters(ctx context.Context, parametersUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Series{}).
		Where("parameters_uid = ?", parametersUID).Count(&count).Error
	return count, err
}

// RecorderUIDsBySeries resolves the distinct owners of the given series.
func (r *gormSeriesRepository) RecorderUIDsBySeries(ctx context.Context, seriesUIDs []string) ([]string, error) {
	var uids []string
	err := r.db.WithContext(ctx).Model(&model.Series{}).
		Where("uid IN ?", seriesUIDs).
		Distinct().Pluck("recorder_uid", &uids).Error
	return uids, err
}
