package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Activity struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Category    string         `gorm:"type:varchar(50);not null;index"`
	Action      string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:text;not null"`
	EntityType  string         `gorm:"type:varchar(100);not null"`
	EntityId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"default:now();not null;index"`
}

func (Activity) TableName() string {
	return "activities"
}
