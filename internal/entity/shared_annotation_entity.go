package entity

import (
	"time"

	"github.com/google/uuid"
)

type SharedAnnotation struct {
	Id         uuid.UUID
	Url        string
	Content    string
	Time       float64
	TargetUser string
	SharedBy   string
	CreatedAt  time.Time
}
