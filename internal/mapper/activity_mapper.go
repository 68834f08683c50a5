package mapper

import (
	"encoding/json"

	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(a.Metadata) > 0 {
		// Corrupt metadata is tolerated; the audit row itself still surfaces.
		_ = json.Unmarshal(a.Metadata, &meta)
	}
	return &entity.Activity{
		Id:          a.Id,
		TenantId:    a.TenantId,
		Category:    a.Category,
		Action:      a.Action,
		Description: a.Description,
		EntityType:  a.EntityType,
		EntityId:    a.EntityId,
		Metadata:    meta,
		CreatedAt:   a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}
	var meta datatypes.JSON
	if a.Metadata != nil {
		if raw, err := json.Marshal(a.Metadata); err == nil {
			meta = raw
		}
	}
	return &model.Activity{
		Id:          a.Id,
		TenantId:    a.TenantId,
		Category:    a.Category,
		Action:      a.Action,
		Description: a.Description,
		EntityType:  a.EntityType,
		EntityId:    a.EntityId,
		Metadata:    meta,
		CreatedAt:   a.CreatedAt,
	}
}
