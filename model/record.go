package model

import (
	"fmt"
	"time"
)

// Record is one captured audio artifact belonging to a series,
// optionally tagged with a classification label.
type Record struct {
	ID         int64      `json:"-" gorm:"primaryKey;autoIncrement"`
	UID        string     `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	SeriesUID  string     `json:"series_uid" gorm:"size:36;index;not null"`
	LabelUID   *string    `json:"label_uid" gorm:"size:36;index"`
	StartTime  time.Time  `json:"start_time"`
	UploadedAt *time.Time `json:"uploaded_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Record) TableName() string {
	return "records"
}

// StopTime derives the capture end from the start and the preset
// duration in seconds. It is never stored; callers pass the owning
// series' current preset value.
func (r *Record) StopTime(duration float64) time.Time {
	return r.StartTime.Add(time.Duration(duration * float64(time.Second)))
}

// ObjectPath derives the payload location from the record's identity.
// The path is deterministic and never persisted.
func (r *Record) ObjectPath() string {
	return fmt.Sprintf("records/%s/%s.wav", r.SeriesUID, r.UID)
}

// AttributeMap returns the plain attribute mapping exposed by the API.
// duration is the owning series' current preset duration, used to derive
// stop_time on every read.
func (r *Record) AttributeMap(duration float64) map[string]interface{} {
	m := map[string]interface{}{
		"uid":         r.UID,
		"series_uid":  r.SeriesUID,
		"label_uid":   nil,
		"start_time":  r.StartTime.UTC().Format(TimeFormat),
		"stop_time":   r.StopTime(duration).UTC().Format(TimeFormat),
		"uploaded_at": nil,
		"created_at":  r.CreatedAt.UTC().Format(TimeFormat),
	}
	if r.LabelUID != nil {
		m["label_uid"] = *r.LabelUID
	}
	if r.UploadedAt != nil {
		m["uploaded_at"] = r.UploadedAt.UTC().Format(TimeFormat)
	}
	return m
}
