package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"audiolab/filter"
	"audiolab/model"
)

// RecordRepository defines the interface for record data operations.
type RecordRepository interface {
	WithTx(tx *gorm.DB) RecordRepository
	Create(ctx context.Context, record *model.Record) error
	GetByUID(ctx context.Context, uid string) (*model.Record, error)
	List(ctx context.Context, filters []filter.Filter) ([]*model.Record, error)
	SetLabel(ctx context.Context, uid string, labelUID *string) error
	SetUploadedAt(ctx context.Context, uid string, uploadedAt time.Time) error
	DetachLabel(ctx context.Context, labelUID string) error
	Delete(ctx context.Context, uid string) error
	CountBySeries(ctx context.Context, seriesUID string) (int64, error)
}

// gormRecordRepository implements RecordRepository on GORM.
type gormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a GORM-backed record repository.
func NewGormRecordRepository(db *gorm.DB) RecordRepository {
	return &gormRecordRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormRecordRepository) WithTx(tx *gorm.DB) RecordRepository {
	return &gormRecordRepository{db: tx}
}

func (r *gormRecordRepository) Create(ctx context.Context, record *model.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByUID returns the record with the given uid, or nil when no such
// record exists.
func (r *gormRecordRepository) GetByUID(ctx context.Context, uid string) (*model.Record, error) {
	var record model.Record
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormRecordRepository) List(ctx context.Context, filters []filter.Filter) ([]*model.Record, error) {
	var records []*model.Record
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.Record{}), filters)
	if err := tx.Order("start_time").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SetLabel writes the classification binding, including clearing it
// when labelUID is nil.
func (r *gormRecordRepository) SetLabel(ctx context.Context, uid string, labelUID *string) error {
	return r.db.WithContext(ctx).Model(&model.Record{}).
		Where("uid = ?", uid).
		Update("label_uid", labelUID).Error
}

func (r *gormRecordRepository) SetUploadedAt(ctx context.Context, uid string, uploadedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Record{}).
		Where("uid = ?", uid).
		Update("uploaded_at", uploadedAt).Error
}

// DetachLabel clears the binding on every record referencing the label.
func (r *gormRecordRepository) DetachLabel(ctx context.Context, labelUID string) error {
	return r.db.WithContext(ctx).Model(&model.Record{}).
		Where("label_uid = ?", labelUID).
		Update("label_uid", nil).Error
}

func (r *gormRecordRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Record{}).Error
}

func (r *gormRecordRepository) CountBySeries(ctx context.Context, seriesUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Record{}).
		Where("series_uid = ?", seriesUID).Count(&count).Error
	return count, err
}
