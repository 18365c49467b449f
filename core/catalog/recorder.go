package catalog

import (
	"context"

	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/filter"
	"audiolab/model"
)

// CreateRecorder registers a new recording device and mints its key.
// An empty uid is replaced with a generated one.
func (s *Service) CreateRecorder(ctx context.Context, uid, locationDescription string) (*model.Recorder, string, error) {
	if uid == "" {
		uid = newUID()
	}

	recorder := &model.Recorder{
		UID:                 uid,
		LocationDescription: locationDescription,
	}
	if err := s.recorders.Create(ctx, recorder); err != nil {
		return nil, "", convertStoreErr(err)
	}

	key, err := s.MintRecorderKey(recorder.UID)
	if err != nil {
		return nil, "", err
	}
	return recorder, key, nil
}

// GetRecorder returns the recorder with the given uid.
func (s *Service) GetRecorder(ctx context.Context, uid string) (*model.Recorder, error) {
	recorder, err := s.recorders.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		return nil, apperr.NotFoundf("recorder %s not found", uid)
	}
	return recorder, nil
}

// ListRecorders returns the recorders matching the given filter bag.
// A series_uid filter resolves to the owning recorders first, keeping
// the compiled dimensions single-table.
func (s *Service) ListRecorders(ctx context.Context, params RecorderListParams) ([]*model.Recorder, error) {
	filters, err := appendDateRange(nil, "created_at", params.CreatedFrom, params.CreatedTo)
	if err != nil {
		return nil, err
	}
	filters, err = appendPresence(filters, "current_series_uid", "busy", params.Busy)
	if err != nil {
		return nil, err
	}
	if len(params.SeriesUIDs) > 0 {
		owners, err := s.serieses.RecorderUIDsBySeries(ctx, params.SeriesUIDs)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter.Membership{Column: "uid", Values: owners})
	}
	return s.recorders.List(ctx, filters)
}

// UpdateRecorder changes the recorder's location description.
func (s *Service) UpdateRecorder(ctx context.Context, uid, locationDescription string) (*model.Recorder, error) {
	recorder, err := s.GetRecorder(ctx, uid)
	if err != nil {
		return nil, err
	}

	recorder.LocationDescription = locationDescription
	if err := s.recorders.Update(ctx, recorder); err != nil {
		return nil, convertStoreErr(err)
	}
	if err := s.recorderCache.Invalidate(ctx, uid); err != nil {
		return nil, err
	}
	return recorder, nil
}

// DeleteRecorder removes a recorder. A recorder that still owns any
// series is protected.
func (s *Service) DeleteRecorder(ctx context.Context, uid string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		recorders := s.recorders.WithTx(tx)

		recorder, err := recorders.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if recorder == nil {
			return apperr.NotFoundf("recorder %s not found", uid)
		}

		owned, err := s.serieses.WithTx(tx).CountByRecorder(ctx, uid)
		if err != nil {
			return err
		}
		if owned > 0 {
			return apperr.New(apperr.Consistency,
				"recorder %s still owns %d series", uid, owned)
		}

		return recorders.Delete(ctx, uid)
	})
	if err != nil {
		return convertStoreErr(err)
	}
	return s.recorderCache.Invalidate(ctx, uid)
}

// GetCurrentSeries returns the series the recorder is actively feeding.
func (s *Service) GetCurrentSeries(ctx context.Context, recorderUID string) (*model.Series, error) {
	recorder, err := s.GetRecorder(ctx, recorderUID)
	if err != nil {
		return nil, err
	}
	if recorder.CurrentSeriesUID == nil {
		return nil, apperr.NotFoundf("recorder %s has no current series", recorderUID)
	}
	return s.GetSeries(ctx, *recorder.CurrentSeriesUID)
}

// SetCurrentSeries binds the recorder to a series it owns. The series
// must exist and must be owned by this recorder.
func (s *Service) SetCurrentSeries(ctx context.Context, recorderUID, seriesUID string) (*model.Series, error) {
	var series *model.Series
	err := s.db.Transaction(func(tx *gorm.DB) error {
		recorder, err := s.recorders.WithTx(tx).GetByUID(ctx, recorderUID)
		if err != nil {
			return err
		}
		if recorder == nil {
			return apperr.NotFoundf("recorder %s not found", recorderUID)
		}

		series, err = s.serieses.WithTx(tx).GetByUID(ctx, seriesUID)
		if err != nil {
			return err
		}
		if series == nil {
			return apperr.NotFoundf("series %s not found", seriesUID)
		}
		if series.RecorderUID != recorderUID {
			return apperr.New(apperr.Consistency,
				"series %s is not maintained by recorder %s", seriesUID, recorderUID)
		}

		return s.recorders.WithTx(tx).SetCurrentSeries(ctx, recorderUID, &seriesUID)
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	if err := s.recorderCache.Invalidate(ctx, recorderUID); err != nil {
		return nil, err
	}
	return series, nil
}

// UnsetCurrentSeries clears the binding. Clearing always succeeds for
// an existing recorder.
func (s *Service) UnsetCurrentSeries(ctx context.Context, recorderUID string) error {
	if _, err := s.GetRecorder(ctx, recorderUID); err != nil {
		return err
	}
	if err := s.recorders.SetCurrentSeries(ctx, recorderUID, nil); err != nil {
		return convertStoreErr(err)
	}
	return s.recorderCache.Invalidate(ctx, recorderUID)
}
