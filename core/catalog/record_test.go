package catalog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiolab/apperr"
	"audiolab/model"
)

func TestCreateRecordRequiresSeriesOwnership(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, series := seedSeries(t, s, nil)
	stranger, _, err := s.CreateRecorder(ctx, "", "elsewhere")
	require.NoError(t, err)

	_, err = s.CreateRecord(ctx, stranger, "", series.UID, time.Now(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestCreateRecordUnknownSeries(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, _, err := s.CreateRecorder(ctx, "", "site")
	require.NoError(t, err)

	_, err = s.CreateRecord(ctx, actor, "", "ghost", time.Now(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCreateRecordUnknownLabel(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)

	_, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), strPtr("ghost"))
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCreateRecordWithSeededLabel(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)

	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), strPtr(model.LabelAnomaly))
	require.NoError(t, err)
	require.NotNil(t, view.Record.LabelUID)
	assert.Equal(t, model.LabelAnomaly, *view.Record.LabelUID)
}

func TestStopTimeDerivesFromCurrentDuration(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, &ParametersFields{Duration: floatPtr(2.5)})

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, start, nil)
	require.NoError(t, err)

	attrs := view.AttributeMap()
	assert.Equal(t, "2024-03-01T10:00:00Z", attrs["start_time"])
	assert.Equal(t, "2024-03-01T10:00:02Z", attrs["stop_time"])
}

func TestRecordParametersFollowSeriesPreset(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, &ParametersFields{Duration: floatPtr(2.0)})

	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	preset, err := s.GetRecordParameters(ctx, view.Record)
	require.NoError(t, err)
	assert.Equal(t, 2.0, preset.Duration)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	s, payloads := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	// Not uploaded yet: no payload to download.
	_, err = s.DownloadRecord(ctx, view.Record.UID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	uploaded, err := s.UploadRecord(ctx, actor, view.Record.UID, []byte("wav-bytes"))
	require.NoError(t, err)
	assert.NotNil(t, uploaded.Record.UploadedAt)
	assert.Contains(t, payloads.objects, view.Record.ObjectPath())

	object, err := s.DownloadRecord(ctx, view.Record.UID)
	require.NoError(t, err)
	defer object.Close()
	payload, err := io.ReadAll(object)
	require.NoError(t, err)
	assert.Equal(t, []byte("wav-bytes"), payload)
}

func TestUploadRequiresSeriesOwnership(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	stranger, _, err := s.CreateRecorder(ctx, "", "elsewhere")
	require.NoError(t, err)

	_, err = s.UploadRecord(ctx, stranger, view.Record.UID, []byte("wav-bytes"))
	require.Error(t, err)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestIsUploadedNeedsStampAndObject(t *testing.T) {
	s, payloads := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	uploaded, err := s.IsUploaded(ctx, view.Record)
	require.NoError(t, err)
	assert.False(t, uploaded)

	// An orphaned payload without a stamp does not count.
	payloads.objects[view.Record.ObjectPath()] = []byte("stray")
	uploaded, err = s.IsUploaded(ctx, view.Record)
	require.NoError(t, err)
	assert.False(t, uploaded)

	stamped, err := s.UploadRecord(ctx, actor, view.Record.UID, []byte("wav-bytes"))
	require.NoError(t, err)

	// A stamp whose payload disappeared does not count either.
	delete(payloads.objects, view.Record.ObjectPath())
	uploaded, err = s.IsUploaded(ctx, stamped.Record)
	require.NoError(t, err)
	assert.False(t, uploaded)
}

func TestSetRecordLabel(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	labeled, err := s.SetRecordLabel(ctx, view.Record.UID, strPtr(model.LabelNormal))
	require.NoError(t, err)
	require.NotNil(t, labeled.Record.LabelUID)
	assert.Equal(t, model.LabelNormal, *labeled.Record.LabelUID)

	cleared, err := s.SetRecordLabel(ctx, view.Record.UID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Record.LabelUID)

	_, err = s.SetRecordLabel(ctx, view.Record.UID, strPtr("ghost"))
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteRecordRemovesPayload(t *testing.T) {
	s, payloads := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), nil)
	require.NoError(t, err)

	_, err = s.UploadRecord(ctx, actor, view.Record.UID, []byte("wav-bytes"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(ctx, view.Record.UID))
	assert.NotContains(t, payloads.objects, view.Record.ObjectPath())

	_, err = s.GetRecord(ctx, view.Record.UID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestListRecordsFilters(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	actor, series := seedSeries(t, s, nil)

	early := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	first, err := s.CreateRecord(ctx, actor, "", series.UID, early, strPtr(model.LabelAnomaly))
	require.NoError(t, err)
	second, err := s.CreateRecord(ctx, actor, "", series.UID, late, nil)
	require.NoError(t, err)

	_, err = s.UploadRecord(ctx, actor, second.Record.UID, []byte("wav-bytes"))
	require.NoError(t, err)

	views, err := s.ListRecords(ctx, RecordListParams{RecordedTo: "2024-03-05"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.Record.UID, views[0].Record.UID)

	views, err = s.ListRecords(ctx, RecordListParams{Labeled: "true"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.Record.UID, views[0].Record.UID)

	views, err = s.ListRecords(ctx, RecordListParams{Uploaded: "true"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, second.Record.UID, views[0].Record.UID)

	views, err = s.ListRecords(ctx, RecordListParams{LabelUIDs: []string{model.LabelAnomaly}})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, first.Record.UID, views[0].Record.UID)

	views, err = s.ListRecords(ctx, RecordListParams{SeriesUIDs: []string{series.UID}})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
