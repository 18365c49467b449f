package catalog

import (
	"context"

	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/model"
)

// CreateParameters persists a standalone preset. When a preset with
// identical capture settings already exists, that preset is returned
// instead of creating a duplicate.
func (s *Service) CreateParameters(ctx context.Context, uid string, fields *ParametersFields) (*model.RecordingParameters, error) {
	candidate := fields.materialize(uid)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	var parameters *model.RecordingParameters
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.parameters.WithTx(tx)

		existing, err := repo.FindBySettings(ctx, candidate)
		if err != nil {
			return err
		}
		if existing != nil {
			parameters = existing
			return nil
		}

		if candidate.UID == "" {
			candidate.UID = newUID()
		}
		if err := repo.Create(ctx, candidate); err != nil {
			return err
		}
		parameters = candidate
		return nil
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return parameters, nil
}

// GetParameters returns the preset with the given uid.
func (s *Service) GetParameters(ctx context.Context, uid string) (*model.RecordingParameters, error) {
	parameters, err := s.parameters.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if parameters == nil {
		return nil, apperr.NotFoundf("recording parameters %s not found", uid)
	}
	return parameters, nil
}

// ListParameters returns the presets matching the given filter bag.
func (s *Service) ListParameters(ctx context.Context, params ParametersListParams) ([]*model.RecordingParameters, error) {
	filters, err := parametersFilters(params.CreatedFrom, params.CreatedTo,
		params.Samplerate, params.Channels, params.Duration, params.Amplification)
	if err != nil {
		return nil, err
	}
	return s.parameters.List(ctx, filters)
}

// DeleteParameters removes a preset that no series references.
func (s *Service) DeleteParameters(ctx context.Context, uid string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.parameters.WithTx(tx)

		parameters, err := repo.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if parameters == nil {
			return apperr.NotFoundf("recording parameters %s not found", uid)
		}

		references, err := s.serieses.WithTx(tx).CountByParameters(ctx, uid)
		if err != nil {
			return err
		}
		if references > 0 {
			return apperr.New(apperr.Consistency,
				"recording parameters %s are referenced by %d series", uid, references)
		}

		return repo.Delete(ctx, uid)
	})
	return convertStoreErr(err)
}
