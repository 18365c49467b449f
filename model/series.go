package model

import "time"

// Series is a bounded recording campaign owned by exactly one recorder
// and using one parameter preset. Both references are uid-valued.
type Series struct {
	ID            int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UID           string    `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	Description   string    `json:"description" gorm:"size:255"`
	ParametersUID string    `json:"parameters_uid" gorm:"size:36;index;not null"`
	RecorderUID   string    `json:"recorder_uid" gorm:"size:36;index;not null"`
	CreatedAt     time.Time `json:"created_at"`

	Parameters *RecordingParameters `json:"parameters,omitempty" gorm:"foreignKey:ParametersUID;references:UID"`
}

func (Series) TableName() string {
	return "series"
}

// AttributeMap returns the plain attribute mapping exposed by the API.
// The preset is embedded when it has been loaded.
func (s *Series) AttributeMap() map[string]interface{} {
	m := map[string]interface{}{
		"uid":            s.UID,
		"description":    s.Description,
		"parameters_uid": s.ParametersUID,
		"recorder_uid":   s.RecorderUID,
		"created_at":     s.CreatedAt.UTC().Format(TimeFormat),
	}
	if s.Parameters != nil {
		m["parameters"] = s.Parameters.AttributeMap()
	}
	return m
}
