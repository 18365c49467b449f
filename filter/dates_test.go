package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiolab/apperr"
)

func TestIncreaseLastDigit(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.0, 2.0},
		{7.0, 8.0},
		{13.7, 13.8},
		{1.0001, 1.0002},
		{0.02, 0.03},
		{1.9, 2.0},
		{9.9, 10.0},
		{99.0, 100.0},
		{0.0, 1.0},
		{44100, 44101},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, IncreaseLastDigit(c.in), 1e-9, "IncreaseLastDigit(%v)", c.in)
	}
}

func TestParseDatetimeFormats(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00.250000Z", time.Date(2024, 3, 1, 10, 30, 0, 250000000, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDatetime(c.value)
		require.NoError(t, err, "ParseDatetime(%q)", c.value)
		assert.True(t, got.Equal(c.want), "ParseDatetime(%q) = %v, want %v", c.value, got, c.want)
	}
}

func TestParseDatetimeRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "yesterday", "2024/03/01", "2024-03-01 10:30:00"} {
		_, err := ParseDatetime(value)
		require.Error(t, err, "ParseDatetime(%q)", value)
		assert.Equal(t, apperr.InvalidFilter, apperr.KindOf(err))
	}
}

func TestParseRangeNormalizesDateOnlyTo(t *testing.T) {
	from, to, err := ParseRange("2024-03-01", "2024-03-05")
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC), *to)
}

func TestParseRangeKeepsExplicitTimeOfDay(t *testing.T) {
	_, to, err := ParseRange("", "2024-03-05T08:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), *to)
}

func TestParseRangeSameDayIsValid(t *testing.T) {
	// Date-only bounds on the same day span that whole day.
	from, to, err := ParseRange("2024-03-01", "2024-03-01")
	require.NoError(t, err)
	assert.True(t, to.After(*from))
}

func TestParseRangeRejectsInvertedBounds(t *testing.T) {
	_, _, err := ParseRange("2024-03-05", "2024-03-01")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidFilter, apperr.KindOf(err))

	_, _, err = ParseRange("2024-03-01T10:00:00Z", "2024-03-01T10:00:00Z")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidFilter, apperr.KindOf(err))
}

func TestParseRangeOpenBounds(t *testing.T) {
	from, to, err := ParseRange("", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)
}
