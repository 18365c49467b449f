package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"audiolab/config"
	"audiolab/core/catalog"
	"audiolab/model"
)

const testSecret = "test-secret"

// memoryPayloadStore keeps payloads in a map, standing in for the
// object store.
type memoryPayloadStore struct {
	objects map[string][]byte
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

func setupServer(t *testing.T) *httptest.Server {
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

	payloads := &memoryPayloadStore{objects: map[string][]byte{}}
	catalogService := catalog.New(db, payloads, nil, testSecret)
	handler := NewAPIHandler(catalogService, &config.Config{SecretKey: testSecret})

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(payload) > 0 {
		require.NoError(t, json.Unmarshal(payload, &decoded), "body: %s", payload)
	}
	return resp.StatusCode, decoded
}

func TestRecorderEndpoints(t *testing.T) {
	srv := setupServer(t)

	status, created := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "rooftop"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, created["uid"])
	assert.NotEmpty(t, created["recorder_key"])
	assert.Equal(t, "rooftop", created["location_description"])

	uid := created["uid"].(string)

	status, fetched := doJSON(t, http.MethodGet, srv.URL+"/api/recorders/"+uid, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uid, fetched["uid"])
	// The key is minted once at registration, never echoed back.
	assert.NotContains(t, fetched, "recorder_key")

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/recorders/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, updated := doJSON(t, http.MethodPut, srv.URL+"/api/recorders/"+uid,
		`{"location_description": "basement"}`, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "basement", updated["location_description"])
}

func TestSeriesParameterResolutionOverHTTP(t *testing.T) {
	srv := setupServer(t)

	_, recorder := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "rooftop"}`, nil)
	recorderUID := recorder["uid"].(string)

	// Inline parameters object.
	status, series := doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "spring", "recorder_uid": "`+recorderUID+`",
		  "parameters": {"samplerate": 96000, "duration": 2.5}}`, nil)
	require.Equal(t, http.StatusCreated, status)
	parameters := series["parameters"].(map[string]interface{})
	assert.Equal(t, float64(96000), parameters["samplerate"])

	// Bare string reference to the preset just created.
	presetUID := parameters["uid"].(string)
	status, second := doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "summer", "recorder_uid": "`+recorderUID+`",
		  "parameters": "`+presetUID+`"}`, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, presetUID, second["parameters_uid"])

	// Redefining an existing preset under its own uid is refused.
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "autumn", "recorder_uid": "`+recorderUID+`",
		  "parameters": {"uid": "`+presetUID+`", "samplerate": 22050}}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecordEndpointsRequireRecorderKey(t *testing.T) {
	srv := setupServer(t)

	_, recorder := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "rooftop"}`, nil)
	recorderUID := recorder["uid"].(string)
	recorderKey := recorder["recorder_key"].(string)

	_, series := doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "spring", "recorder_uid": "`+recorderUID+`"}`, nil)
	seriesUID := series["uid"].(string)

	body := `{"series_uid": "` + seriesUID + `", "start_time": "2024-03-01T10:00:00Z"}`

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/records", body, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/records", body,
		map[string]string{"recorder_key": "forged"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, record := doJSON(t, http.MethodPost, srv.URL+"/api/records", body,
		map[string]string{"recorder_key": recorderKey})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "2024-03-01T10:00:00Z", record["start_time"])
	assert.Equal(t, "2024-03-01T10:00:01Z", record["stop_time"])

	// A second recorder's key cannot write into this series.
	_, intruder := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "elsewhere"}`, nil)
	status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/records", body,
		map[string]string{"recorder_key": intruder["recorder_key"].(string)})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRecordEpochStartTime(t *testing.T) {
	srv := setupServer(t)

	_, recorder := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "rooftop"}`, nil)
	recorderKey := recorder["recorder_key"].(string)

	_, series := doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "spring", "recorder_uid": "`+recorder["uid"].(string)+`"}`, nil)

	// 2024-03-01T10:00:00Z as epoch seconds.
	status, record := doJSON(t, http.MethodPost, srv.URL+"/api/records",
		`{"series_uid": "`+series["uid"].(string)+`", "start_time": 1709287200}`,
		map[string]string{"recorder_key": recorderKey})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "2024-03-01T10:00:00Z", record["start_time"])
}

func TestUploadDownloadOverHTTP(t *testing.T) {
	srv := setupServer(t)

	_, recorder := doJSON(t, http.MethodPost, srv.URL+"/api/recorders",
		`{"location_description": "rooftop"}`, nil)
	recorderKey := recorder["recorder_key"].(string)

	_, series := doJSON(t, http.MethodPost, srv.URL+"/api/series",
		`{"description": "spring", "recorder_uid": "`+recorder["uid"].(string)+`"}`, nil)

	_, record := doJSON(t, http.MethodPost, srv.URL+"/api/records",
		`{"series_uid": "`+series["uid"].(string)+`", "start_time": "2024-03-01T10:00:00Z"}`,
		map[string]string{"recorder_key": recorderKey})
	recordUID := record["uid"].(string)

	// Download before upload: nothing there yet.
	resp, err := http.Get(srv.URL + "/api/records/" + recordUID + "/download")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost,
		srv.URL+"/api/records/"+recordUID+"/upload", strings.NewReader("wav-bytes"))
	require.NoError(t, err)
	req.Header.Set("recorder_key", recorderKey)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/records/" + recordUID + "/download")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "wav-bytes", string(payload))
}

func TestInvalidFilterIsBadRequest(t *testing.T) {
	srv := setupServer(t)

	status, _ := doJSON(t, http.MethodGet,
		srv.URL+"/api/records?recorded_from=2024-03-05&recorded_to=2024-03-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/parameters?duration=fast", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestListResponsesArePlainArrays(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/labels")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var labels []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&labels))
	assert.Len(t, labels, 2)
}
