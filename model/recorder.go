package model

import "time"

// TimeFormat is the wire format for every timestamp the API returns.
const TimeFormat = "2006-01-02T15:04:05Z"

// Recorder is a physical or logical recording device identity.
type Recorder struct {
	ID                  int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UID                 string    `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	LocationDescription string    `json:"location_description" gorm:"size:100"`
	CurrentSeriesUID    *string   `json:"current_series_uid" gorm:"size:36"`
	CreatedAt           time.Time `json:"created_at"`
}

func (Recorder) TableName() string {
	return "recorders"
}

// AttributeMap returns the plain attribute mapping exposed by the API.
func (r *Recorder) AttributeMap() map[string]interface{} {
	m := map[string]interface{}{
		"uid":                  r.UID,
		"location_description": r.LocationDescription,
		"current_series_uid":   nil,
		"created_at":           r.CreatedAt.UTC().Format(TimeFormat),
	}
	if r.CurrentSeriesUID != nil {
		m["current_series_uid"] = *r.CurrentSeriesUID
	}
	return m
}
