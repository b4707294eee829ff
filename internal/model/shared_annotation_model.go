package model

import (
	"time"

	"github.com/google/uuid"
)

// SharedAnnotation is an annotation waiting to be fetched by its target user.
// Rows are hard-deleted once the target acknowledges them.
type SharedAnnotation struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Url        string    `gorm:"type:text;not null"`
	Content    string    `gorm:"type:text;not null"`
	Time       float64   `gorm:"type:double precision;not null"`
	TargetUser string    `gorm:"type:varchar(255);not null;index:idx_shared_annotations_target_created,priority:1"`
	SharedBy   string    `gorm:"type:varchar(255)"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_shared_annotations_target_created,priority:2"`
}

func (SharedAnnotation) TableName() string {
	return "shared_annotations"
}
