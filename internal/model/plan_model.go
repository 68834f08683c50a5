package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Plan struct {
	Id              uuid.UUID                    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string                       `gorm:"type:varchar(255);not null"`
	Slug            string                       `gorm:"type:varchar(255);uniqueIndex;not null"`
	Description     string                       `gorm:"type:text"`
	Price           float64                      `gorm:"type:decimal(10,2);not null"`
	BillingPeriod   string                       `gorm:"type:varchar(20);not null"`
	TrialPeriodDays int                          `gorm:"default:0"`
	Features        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsActive        bool                         `gorm:"default:true"`
	SortOrder       int                          `gorm:"default:0"`
	CreatedAt       time.Time                    `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                    `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt               `gorm:"index"`
}

func (Plan) TableName() string {
	return "plans"
}
