package model

import "time"

// Well-known labels seeded at schema creation. They cannot be deleted.
const (
	LabelNormal  = "normal"
	LabelAnomaly = "anomaly"
)

// Label is a classification tag applicable to records. Labels are
// shared references, never owned by a record.
type Label struct {
	ID          int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UID         string    `json:"uid" gorm:"size:36;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Label) TableName() string {
	return "labels"
}

// Seeded reports whether the label is one of the well-known seeded
// labels protected from deletion.
func (l *Label) Seeded() bool {
	return l.UID == LabelNormal || l.UID == LabelAnomaly
}

// AttributeMap returns the plain attribute mapping exposed by the API.
func (l *Label) AttributeMap() map[string]interface{} {
	return map[string]interface{}{
		"uid":         l.UID,
		"description": l.Description,
		"created_at":  l.CreatedAt.UTC().Format(TimeFormat),
	}
}
