package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiolab/apperr"
	"audiolab/model"
)

func TestSeededLabelsExist(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	for _, uid := range []string{model.LabelNormal, model.LabelAnomaly} {
		label, err := s.GetLabel(ctx, uid)
		require.NoError(t, err)
		assert.True(t, label.Seeded())
	}
}

func TestDeleteSeededLabelRefused(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	err := s.DeleteLabel(ctx, model.LabelNormal)
	require.Error(t, err)
	assert.Equal(t, apperr.Consistency, apperr.KindOf(err))

	_, err = s.GetLabel(ctx, model.LabelNormal)
	require.NoError(t, err)
}

func TestDeleteLabelDetachesRecords(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	label, err := s.CreateLabel(ctx, "", "chainsaw")
	require.NoError(t, err)

	actor, series := seedSeries(t, s, nil)
	view, err := s.CreateRecord(ctx, actor, "", series.UID, time.Now(), &label.UID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteLabel(ctx, label.UID))

	detached, err := s.GetRecord(ctx, view.Record.UID)
	require.NoError(t, err)
	assert.Nil(t, detached.Record.LabelUID)
}

func TestCreateLabelDuplicateUID(t *testing.T) {
	s, _ := setupService(t)
	ctx := context.Background()

	_, err := s.CreateLabel(ctx, "chainsaw", "chainsaw noise")
	require.NoError(t, err)

	_, err = s.CreateLabel(ctx, "chainsaw", "again")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestDeleteUnknownLabel(t *testing.T) {
	s, _ := setupService(t)

	err := s.DeleteLabel(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
