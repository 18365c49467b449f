// Package catalog implements the resource consistency rules of the
// recording lab: relationship guards checked before every mutation,
// the parameter dedup-or-create protocol, device-scoped write
// authorization and the derived record lifecycle attributes. Every
// check-then-act sequence runs inside one database transaction.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"audiolab/apperr"
	"audiolab/cache"
	"audiolab/core/auth"
	"audiolab/model"
	"audiolab/repository"
	"audiolab/storage"
)

// Service carries the catalog operations over the entity store, the
// payload store and the recorder cache.
type Service struct {
	db            *gorm.DB
	recorders     repository.RecorderRepository
	serieses      repository.SeriesRepository
	parameters    repository.ParametersRepository
	records       repository.RecordRepository
	labels        repository.LabelRepository
	payloads      storage.PayloadStore
	recorderCache *cache.RecorderCache
	secret        string
}

// New creates the catalog service. recorderCache may wrap a nil client
// and payloads may be nil when no payload store is configured.
func New(db *gorm.DB, payloads storage.PayloadStore, recorderCache *cache.RecorderCache, secret string) *Service {
	if recorderCache == nil {
		recorderCache = cache.NewRecorderCache(nil)
	}
	return &Service{
		db:            db,
		recorders:     repository.NewGormRecorderRepository(db),
		serieses:      repository.NewGormSeriesRepository(db),
		parameters:    repository.NewGormParametersRepository(db),
		records:       repository.NewGormRecordRepository(db),
		labels:        repository.NewGormLabelRepository(db),
		payloads:      payloads,
		recorderCache: recorderCache,
		secret:        secret,
	}
}

// ResolveRecorderKey verifies a recorder key and resolves it to the
// recorder it names. An unresolvable identity is reported as an
// authorization failure, not as "not found", so the error code does not
// reveal whether the identity exists.
func (s *Service) ResolveRecorderKey(ctx context.Context, key string) (*model.Recorder, error) {
	uid, err := auth.DecodeRecorderKey(key, s.secret)
	if err != nil {
		return nil, err
	}

	if cached, err := s.recorderCache.Get(ctx, uid); err == nil && cached != nil {
		return cached, nil
	}

	recorder, err := s.recorders.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		return nil, apperr.New(apperr.Unauthorized, "recorder key does not resolve")
	}

	// Best effort; a failed cache write only costs the next lookup.
	_ = s.recorderCache.Set(ctx, recorder)
	return recorder, nil
}

// MintRecorderKey issues a signed key for the given recorder uid.
func (s *Service) MintRecorderKey(recorderUID string) (string, error) {
	return auth.EncodeRecorderKey(recorderUID, s.secret)
}

func newUID() string {
	return uuid.NewString()
}

// convertStoreErr maps store-level constraint violations onto the
// error taxonomy. The surrounding transaction has already rolled back
// by the time callers see the error.
func convertStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.Conflict, err, "identifier already in use")
	}
	return err
}
