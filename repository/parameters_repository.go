package repository

import (
	"context"

	"gorm.io/gorm"

	"audiolab/filter"
	"audiolab/model"
)

// ParametersRepository defines the interface for recording parameters
// data operations.
type ParametersRepository interface {
	WithTx(tx *gorm.DB) ParametersRepository
	Create(ctx context.Context, parameters *model.RecordingParameters) error
	GetByUID(ctx context.Context, uid string) (*model.RecordingParameters, error)
	List(ctx context.Context, filters []filter.Filter) ([]*model.RecordingParameters, error)
	ListUIDs(ctx context.Context, filters []filter.Filter) ([]string, error)
	FindBySettings(ctx context.Context, parameters *model.RecordingParameters) (*model.RecordingParameters, error)
	Delete(ctx context.Context, uid string) error
}

// gormParametersRepository implements ParametersRepository on GORM.
type gormParametersRepository struct {
	db *gorm.DB
}

// NewGormParametersRepository creates a GORM-backed parameters repository.
func NewGormParametersRepository(db *gorm.DB) ParametersRepository {
	return &gormParametersRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormParametersRepository) WithTx(tx *gorm.DB) ParametersRepository {
	return &gormParametersRepository{db: tx}
}

func (r *gormParametersRepository) Create(ctx context.Context, parameters *model.RecordingParameters) error {
	return r.db.WithContext(ctx).Create(parameters).Error
}

// GetByUID returns the preset with the given uid, or nil when no such
// preset exists.
func (r *gormParametersRepository) GetByUID(ctx context.Context, uid string) (*model.RecordingParameters, error) {
	var parameters model.RecordingParameters
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&parameters).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &parameters, nil
}

func (r *gormParametersRepository) List(ctx context.Context, filters []filter.Filter) ([]*model.RecordingParameters, error) {
	var sets []*model.RecordingParameters
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.RecordingParameters{}), filters)
	if err := tx.Order("created_at").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// ListUIDs returns the uids of the presets matched by the filters. Used
// to resolve numeric-bucket filters on series through their preset.
func (r *gormParametersRepository) ListUIDs(ctx context.Context, filters []filter.Filter) ([]string, error) {
	var uids []string
	tx := filter.Apply(r.db.WithContext(ctx).Model(&model.RecordingParameters{}), filters)
	if err := tx.Pluck("uid", &uids).Error; err != nil {
		return nil, err
	}
	return uids, nil
}

// FindBySettings returns an existing preset with identical capture
// settings, or nil when none exists.
func (r *gormParametersRepository) FindBySettings(ctx context.Context, parameters *model.RecordingParameters) (*model.RecordingParameters, error) {
	var existing model.RecordingParameters
	err := r.db.WithContext(ctx).
		Where("samplerate = ? AND channels = ? AND duration = ? AND amplification = ?",
			parameters.Samplerate, parameters.Channels, parameters.Duration, parameters.Amplification).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

func (r *gormParametersRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.RecordingParameters{}).Error
}
