package mapper

import (
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/model"

	"gorm.io/datatypes"
)

type PlanMapper struct{}

func NewPlanMapper() *PlanMapper {
	return &PlanMapper{}
}

func (m *PlanMapper) ToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:              p.Id,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		BillingPeriod:   entity.BillingPeriod(p.BillingPeriod),
		TrialPeriodDays: p.TrialPeriodDays,
		Features:        []string(p.Features),
		IsActive:        p.IsActive,
		SortOrder:       p.SortOrder,
	}
}

func (m *PlanMapper) ToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:              p.Id,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		BillingPeriod:   string(p.BillingPeriod),
		TrialPeriodDays: p.TrialPeriodDays,
		Features:        datatypes.JSONSlice[string](p.Features),
		IsActive:        p.IsActive,
		SortOrder:       p.SortOrder,
	}
}
