package catalog

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"audiolab/model"
)

const testSecret = "test-secret"

// memoryPayloadStore keeps payloads in a map, standing in for the
// object store.
type memoryPayloadStore struct {
	objects map[string][]byte
}

func newMemoryPayloadStore() *memoryPayloadStore {
	return &memoryPayloadStore{objects: map[string][]byte{}}
}

func (s *memoryPayloadStore) Put(ctx context.Context, path string, payload []byte) error {
	s.objects[path] = payload
	return nil
}

func (s *memoryPayloadStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	payload, ok := s.objects[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (s *memoryPayloadStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := s.objects[path]
	return ok, nil
}

func (s *memoryPayloadStore) Remove(ctx context.Context, path string) error {
	delete(s.objects, path)
	return nil
}

// setupService builds a catalog service on an in-memory database with
// the well-known labels seeded.
func setupService(t *testing.T) (*Service, *memoryPayloadStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Recorder{},
		&model.RecordingParameters{},
		&model.Series{},
		&model.Label{},
		&model.Record{},
	))

	for _, uid := range []string{model.LabelNormal, model.LabelAnomaly} {
		require.NoError(t, db.Create(&model.Label{UID: uid, Description: uid + " capture"}).Error)
	}

	payloads := newMemoryPayloadStore()
	return New(db, payloads, nil, testSecret), payloads
}

// seedSeries creates a recorder and a series with the given preset
// fields, returning both.
func seedSeries(t *testing.T, s *Service, fields *ParametersFields) (*model.Recorder, *model.Series) {
	t.Helper()
	ctx := context.Background()

	recorder, _, err := s.CreateRecorder(ctx, "", "test site")
	require.NoError(t, err)

	var spec *ParametersSpec
	if fields != nil {
		spec = &ParametersSpec{Inline: fields}
	}
	series, err := s.CreateSeries(ctx, "", "test campaign", recorder.UID, spec)
	require.NoError(t, err)
	return recorder, series
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
