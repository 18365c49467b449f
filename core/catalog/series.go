package catalog

import (
	"context"

	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/filter"
	"audiolab/model"
	"audiolab/repository"
)

// ParametersFields is an inline parameter object supplied by a caller.
// Missing fields fall back to the preset defaults.
type ParametersFields struct {
	Samplerate    *int
	Channels      *int
	Duration      *float64
	Amplification *float64
}

func (f *ParametersFields) materialize(uid string) *model.RecordingParameters {
	p := &model.RecordingParameters{
		UID:           uid,
		Samplerate:    model.DefaultSamplerate,
		Channels:      model.DefaultChannels,
		Duration:      model.DefaultDuration,
		Amplification: model.DefaultAmplification,
	}
	if f == nil {
		return p
	}
	if f.Samplerate != nil {
		p.Samplerate = *f.Samplerate
	}
	if f.Channels != nil {
		p.Channels = *f.Channels
	}
	if f.Duration != nil {
		p.Duration = *f.Duration
	}
	if f.Amplification != nil {
		p.Amplification = *f.Amplification
	}
	return p
}

// ParametersSpec is what a caller may pass where a series needs a
// preset: a bare reference uid, an inline object, or both.
type ParametersSpec struct {
	UID    string
	Inline *ParametersFields
}

// resolveParameters applies the preset identity protocol:
//
//	bare existing uid          -> reuse it
//	bare unknown uid           -> defaults created under that uid
//	inline only                -> new preset with a generated uid
//	inline + unknown uid       -> new preset created under that uid
//	inline + existing uid      -> conflict (cannot redefine a preset
//	                              under its own identity)
//
// A nil spec resolves to a fresh default preset.
func resolveParameters(ctx context.Context, parameters repository.ParametersRepository, spec *ParametersSpec) (*model.RecordingParameters, error) {
	if spec == nil {
		spec = &ParametersSpec{Inline: &ParametersFields{}}
	}

	if spec.UID != "" {
		existing, err := parameters.GetByUID(ctx, spec.UID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if spec.Inline != nil {
				return nil, apperr.New(apperr.Conflict,
					"recording parameters %s already exist and cannot be redefined", spec.UID)
			}
			return existing, nil
		}
	}

	uid := spec.UID
	if uid == "" {
		if spec.Inline == nil {
			return nil, apperr.New(apperr.Consistency, "recording parameters reference or fields required")
		}
		uid = newUID()
	}

	created := spec.Inline.materialize(uid)
	if err := created.Validate(); err != nil {
		return nil, err
	}
	if err := parameters.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateSeries opens a new recording campaign for an existing recorder,
// resolving its preset through the identity protocol.
func (s *Service) CreateSeries(ctx context.Context, uid, description, recorderUID string, spec *ParametersSpec) (*model.Series, error) {
	if uid == "" {
		uid = newUID()
	}

	var series *model.Series
	err := s.db.Transaction(func(tx *gorm.DB) error {
		recorder, err := s.recorders.WithTx(tx).GetByUID(ctx, recorderUID)
		if err != nil {
			return err
		}
		if recorder == nil {
			return apperr.NotFoundf("recorder %s not found", recorderUID)
		}

		parameters, err := resolveParameters(ctx, s.parameters.WithTx(tx), spec)
		if err != nil {
			return err
		}

		series = &model.Series{
			UID:           uid,
			Description:   description,
			ParametersUID: parameters.UID,
			RecorderUID:   recorderUID,
			Parameters:    parameters,
		}
		return s.serieses.WithTx(tx).Create(ctx, series)
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return series, nil
}

// GetSeries returns the series with the given uid, preset embedded.
func (s *Service) GetSeries(ctx context.Context, uid string) (*model.Series, error) {
	series, err := s.serieses.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if series == nil {
		return nil, apperr.NotFoundf("series %s not found", uid)
	}
	return series, nil
}

// ListSeries returns the serieses matching the given filter bag.
// Numeric dimensions resolve through recording parameters first; the
// resolved uids intersect with an explicit parameters_uid filter.
func (s *Service) ListSeries(ctx context.Context, params SeriesListParams) ([]*model.Series, error) {
	filters, err := appendDateRange(nil, "created_at", params.CreatedFrom, params.CreatedTo)
	if err != nil {
		return nil, err
	}
	if len(params.RecorderUIDs) > 0 {
		filters = append(filters, filter.Membership{Column: "recorder_uid", Values: params.RecorderUIDs})
	}

	parametersUIDs, restrict, err := s.resolveParametersDimension(ctx, params)
	if err != nil {
		return nil, err
	}
	if restrict {
		filters = append(filters, filter.Membership{Column: "parameters_uid", Values: parametersUIDs})
	}

	return s.serieses.List(ctx, filters)
}

// resolveParametersDimension folds the numeric preset dimensions and an
// explicit parameters_uid filter into one membership set. restrict is
// false when neither dimension is present.
func (s *Service) resolveParametersDimension(ctx context.Context, params SeriesListParams) (uids []string, restrict bool, err error) {
	numeric, err := parametersFilters("", "", params.Samplerate, params.Channels, params.Duration, params.Amplification)
	if err != nil {
		return nil, false, err
	}
	if len(numeric) == 0 {
		return params.ParametersUIDs, len(params.ParametersUIDs) > 0, nil
	}

	resolved, err := s.parameters.ListUIDs(ctx, numeric)
	if err != nil {
		return nil, false, err
	}
	if len(params.ParametersUIDs) == 0 {
		return resolved, true, nil
	}

	explicit := make(map[string]bool, len(params.ParametersUIDs))
	for _, uid := range params.ParametersUIDs {
		explicit[uid] = true
	}
	intersection := make([]string, 0, len(resolved))
	for _, uid := range resolved {
		if explicit[uid] {
			intersection = append(intersection, uid)
		}
	}
	return intersection, true, nil
}

// SeriesUpdate carries the mutable series attributes. nil fields stay
// untouched.
type SeriesUpdate struct {
	Description *string
	RecorderUID *string
	Parameters  *ParametersSpec
}

// UpdateSeries changes a series. The description is freely mutable;
// reassigning the recorder or the preset is allowed only while the
// series owns no records and is not any recorder's current series.
func (s *Service) UpdateSeries(ctx context.Context, uid string, update SeriesUpdate) (*model.Series, error) {
	var series *model.Series
	err := s.db.Transaction(func(tx *gorm.DB) error {
		serieses := s.serieses.WithTx(tx)

		var err error
		series, err = serieses.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if series == nil {
			return apperr.NotFoundf("series %s not found", uid)
		}

		if update.RecorderUID != nil || update.Parameters != nil {
			if err := s.guardReassignment(ctx, tx, series); err != nil {
				return err
			}
		}

		if update.Description != nil {
			series.Description = *update.Description
		}
		if update.RecorderUID != nil {
			recorder, err := s.recorders.WithTx(tx).GetByUID(ctx, *update.RecorderUID)
			if err != nil {
				return err
			}
			if recorder == nil {
				return apperr.NotFoundf("recorder %s not found", *update.RecorderUID)
			}
			series.RecorderUID = recorder.UID
		}
		if update.Parameters != nil {
			parameters, err := resolveParameters(ctx, s.parameters.WithTx(tx), update.Parameters)
			if err != nil {
				return err
			}
			series.ParametersUID = parameters.UID
			series.Parameters = parameters
		}

		return serieses.Update(ctx, series)
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return s.GetSeries(ctx, uid)
}

// guardReassignment enforces the immutability of the ownership edges:
// a series that owns records, or that is its recorder's current series,
// cannot change recorder or preset and cannot be deleted.
func (s *Service) guardReassignment(ctx context.Context, tx *gorm.DB, series *model.Series) error {
	owned, err := s.records.WithTx(tx).CountBySeries(ctx, series.UID)
	if err != nil {
		return err
	}
	if owned > 0 {
		return apperr.New(apperr.Consistency,
			"series %s owns %d records", series.UID, owned)
	}

	recorder, err := s.recorders.WithTx(tx).GetByUID(ctx, series.RecorderUID)
	if err != nil {
		return err
	}
	if recorder != nil && recorder.CurrentSeriesUID != nil && *recorder.CurrentSeriesUID == series.UID {
		return apperr.New(apperr.Consistency,
			"series %s is the current series of recorder %s", series.UID, recorder.UID)
	}
	return nil
}

// DeleteSeries removes an empty, non-current series.
func (s *Service) DeleteSeries(ctx context.Context, uid string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		serieses := s.serieses.WithTx(tx)

		series, err := serieses.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if series == nil {
			return apperr.NotFoundf("series %s not found", uid)
		}

		if err := s.guardReassignment(ctx, tx, series); err != nil {
			return err
		}

		return serieses.Delete(ctx, uid)
	})
	return convertStoreErr(err)
}

// GetSeriesParameters returns the preset a series records with.
func (s *Service) GetSeriesParameters(ctx context.Context, uid string) (*model.RecordingParameters, error) {
	series, err := s.GetSeries(ctx, uid)
	if err != nil {
		return nil, err
	}
	if series.Parameters == nil {
		return nil, apperr.NotFoundf("recording parameters %s not found", series.ParametersUID)
	}
	return series.Parameters, nil
}

// UpdateSeriesParameters rebinds a series to a preset resolved through
// the identity protocol, under the same reassignment guards.
func (s *Service) UpdateSeriesParameters(ctx context.Context, uid string, spec *ParametersSpec) (*model.RecordingParameters, error) {
	series, err := s.UpdateSeries(ctx, uid, SeriesUpdate{Parameters: spec})
	if err != nil {
		return nil, err
	}
	return series.Parameters, nil
}
