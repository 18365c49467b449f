package catalog

import (
	"context"
	"io"
	"time"

	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/filter"
	"audiolab/model"
)

// RecordView pairs a record with the preset of its owning series, which
// supplies the duration every derived read needs.
type RecordView struct {
	Record     *model.Record
	Parameters *model.RecordingParameters
}

// AttributeMap returns the record's attribute mapping with stop_time
// derived from the preset's current duration.
func (v *RecordView) AttributeMap() map[string]interface{} {
	return v.Record.AttributeMap(v.Parameters.Duration)
}

// CreateRecord registers a capture on behalf of the authorized
// recorder. The actor must own the target series; a supplied label must
// resolve.
func (s *Service) CreateRecord(ctx context.Context, actor *model.Recorder, uid, seriesUID string, startTime time.Time, labelUID *string) (*RecordView, error) {
	if uid == "" {
		uid = newUID()
	}

	view := &RecordView{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		series, err := s.serieses.WithTx(tx).GetByUID(ctx, seriesUID)
		if err != nil {
			return err
		}
		if series == nil {
			return apperr.NotFoundf("series %s not found", seriesUID)
		}
		if series.RecorderUID != actor.UID {
			return apperr.New(apperr.Forbidden,
				"recorder %s does not maintain series %s", actor.UID, seriesUID)
		}

		if labelUID != nil {
			label, err := s.labels.WithTx(tx).GetByUID(ctx, *labelUID)
			if err != nil {
				return err
			}
			if label == nil {
				return apperr.NotFoundf("label %s not found", *labelUID)
			}
		}

		view.Record = &model.Record{
			UID:       uid,
			SeriesUID: seriesUID,
			LabelUID:  labelUID,
			StartTime: startTime,
		}
		view.Parameters = series.Parameters
		return s.records.WithTx(tx).Create(ctx, view.Record)
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return view, nil
}

// GetRecord returns the record with the given uid together with its
// series' current preset.
func (s *Service) GetRecord(ctx context.Context, uid string) (*RecordView, error) {
	record, err := s.records.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.NotFoundf("record %s not found", uid)
	}

	parameters, err := s.GetRecordParameters(ctx, record)
	if err != nil {
		return nil, err
	}
	return &RecordView{Record: record, Parameters: parameters}, nil
}

// GetRecordParameters returns the preset of the record's owning series.
func (s *Service) GetRecordParameters(ctx context.Context, record *model.Record) (*model.RecordingParameters, error) {
	return s.GetSeriesParameters(ctx, record.SeriesUID)
}

// ListRecords returns the records matching the given filter bag, each
// paired with its series' current preset.
func (s *Service) ListRecords(ctx context.Context, params RecordListParams) ([]*RecordView, error) {
	filters, err := appendDateRange(nil, "start_time", params.RecordedFrom, params.RecordedTo)
	if err != nil {
		return nil, err
	}
	filters, err = appendPresence(filters, "uploaded_at", "uploaded", params.Uploaded)
	if err != nil {
		return nil, err
	}
	filters, err = appendPresence(filters, "label_uid", "labeled", params.Labeled)
	if err != nil {
		return nil, err
	}
	if len(params.SeriesUIDs) > 0 {
		filters = append(filters, filter.Membership{Column: "series_uid", Values: params.SeriesUIDs})
	}
	if len(params.LabelUIDs) > 0 {
		filters = append(filters, filter.Membership{Column: "label_uid", Values: params.LabelUIDs})
	}

	records, err := s.records.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return s.attachParameters(ctx, records)
}

// attachParameters resolves the preset of every distinct series among
// the records once.
func (s *Service) attachParameters(ctx context.Context, records []*model.Record) ([]*RecordView, error) {
	presets := make(map[string]*model.RecordingParameters)
	views := make([]*RecordView, 0, len(records))
	for _, record := range records {
		parameters, ok := presets[record.SeriesUID]
		if !ok {
			var err error
			parameters, err = s.GetSeriesParameters(ctx, record.SeriesUID)
			if err != nil {
				return nil, err
			}
			presets[record.SeriesUID] = parameters
		}
		views = append(views, &RecordView{Record: record, Parameters: parameters})
	}
	return views, nil
}

// SetRecordLabel binds or clears a record's classification. A supplied
// label must resolve.
func (s *Service) SetRecordLabel(ctx context.Context, uid string, labelUID *string) (*RecordView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		record, err := s.records.WithTx(tx).GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		if record == nil {
			return apperr.NotFoundf("record %s not found", uid)
		}

		if labelUID != nil {
			label, err := s.labels.WithTx(tx).GetByUID(ctx, *labelUID)
			if err != nil {
				return err
			}
			if label == nil {
				return apperr.NotFoundf("label %s not found", *labelUID)
			}
		}

		return s.records.WithTx(tx).SetLabel(ctx, uid, labelUID)
	})
	if err != nil {
		return nil, convertStoreErr(err)
	}
	return s.GetRecord(ctx, uid)
}

// UploadRecord stores the payload of a record at its derived location
// on behalf of the authorized recorder, then stamps the upload time.
// The stamp is written only after the payload write succeeded.
func (s *Service) UploadRecord(ctx context.Context, actor *model.Recorder, uid string, payload []byte) (*RecordView, error) {
	view, err := s.GetRecord(ctx, uid)
	if err != nil {
		return nil, err
	}

	series, err := s.GetSeries(ctx, view.Record.SeriesUID)
	if err != nil {
		return nil, err
	}
	if series.RecorderUID != actor.UID {
		return nil, apperr.New(apperr.Forbidden,
			"recorder %s does not maintain series %s", actor.UID, series.UID)
	}

	if err := s.payloads.Put(ctx, view.Record.ObjectPath(), payload); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.records.SetUploadedAt(ctx, uid, now); err != nil {
		return nil, convertStoreErr(err)
	}
	view.Record.UploadedAt = &now
	return view, nil
}

// DownloadRecord streams a record's payload from its derived location.
func (s *Service) DownloadRecord(ctx context.Context, uid string) (io.ReadCloser, error) {
	view, err := s.GetRecord(ctx, uid)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.IsUploaded(ctx, view.Record)
	if err != nil {
		return nil, err
	}
	if !uploaded {
		return nil, apperr.NotFoundf("record %s has no uploaded payload", uid)
	}

	return s.payloads.Get(ctx, view.Record.ObjectPath())
}

// IsUploaded reports whether a record's payload is fully present: the
// upload must be stamped AND the payload must exist at the derived
// location. A stamp without a payload is an interrupted upload; a
// payload without a stamp is an orphaned artifact. Neither counts.
func (s *Service) IsUploaded(ctx context.Context, record *model.Record) (bool, error) {
	if record.UploadedAt == nil {
		return false, nil
	}
	return s.payloads.Exists(ctx, record.ObjectPath())
}

// DeleteRecord removes a record and its payload, if any.
func (s *Service) DeleteRecord(ctx context.Context, uid string) error {
	record, err := s.records.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if record == nil {
		return apperr.NotFoundf("record %s not found", uid)
	}

	if err := s.records.Delete(ctx, uid); err != nil {
		return convertStoreErr(err)
	}
	// The row is gone; a leftover payload is unreachable either way.
	return s.payloads.Remove(ctx, record.ObjectPath())
}
