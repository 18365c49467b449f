package model

import (
	"time"

	"audiolab/apperr"
)

// Default capture settings used when a series references a preset uid
// that does not exist yet.
const (
	DefaultSamplerate    = 44100
	DefaultChannels      = 1
	DefaultDuration      = 1.0
	DefaultAmplification = 1.0
)

// RecordingParameters is a reusable, deduplicated preset of capture
// settings. Presets are shared between serieses, never owned by one.
type RecordingParameters struct {
	ID            int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UID           string    `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	Samplerate    int       `json:"samplerate"`
	Channels      int       `json:"channels"`
	Duration      float64   `json:"duration"`      // seconds
	Amplification float64   `json:"amplification"`
	CreatedAt     time.Time `json:"created_at"`
}

func (RecordingParameters) TableName() string {
	return "recording_parameters"
}

// Validate rejects any non-positive capture setting.
func (p *RecordingParameters) Validate() error {
	if p.Samplerate <= 0 {
		return apperr.New(apperr.Consistency, "samplerate must be positive, got %d", p.Samplerate)
	}
	if p.Channels <= 0 {
		return apperr.New(apperr.Consistency, "channels must be positive, got %d", p.Channels)
	}
	if p.Duration <= 0 {
		return apperr.New(apperr.Consistency, "duration must be positive, got %g", p.Duration)
	}
	if p.Amplification <= 0 {
		return apperr.New(apperr.Consistency, "amplification must be positive, got %g", p.Amplification)
	}
	return nil
}

// SameSettings reports whether two presets carry identical capture
// settings, which is the dedup identity for standalone creation.
func (p *RecordingParameters) SameSettings(other *RecordingParameters) bool {
	return p.Samplerate == other.Samplerate &&
		p.Channels == other.Channels &&
		p.Duration == other.Duration &&
		p.Amplification == other.Amplification
}

// AttributeMap returns the plain attribute mapping exposed by the API.
func (p *RecordingParameters) AttributeMap() map[string]interface{} {
	return map[string]interface{}{
		"uid":           p.UID,
		"samplerate":    p.Samplerate,
		"channels":      p.Channels,
		"duration":      p.Duration,
		"amplification": p.Amplification,
		"created_at":    p.CreatedAt.UTC().Format(TimeFormat),
	}
}
