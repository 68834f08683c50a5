package memory

import (
	"time"

	"school-mgmt-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const activePlansKey = "plans:active"

// PlanCache is a read-through TTL cache for the plan catalog. The catalog is
// tiny and nearly static, so a short TTL plus explicit invalidation on writes
// is enough.
type PlanCache struct {
	cache *cache.Cache
}

func NewPlanCache() *PlanCache {
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &PlanCache{
		cache: c,
	}
}

func (p *PlanCache) GetActivePlans() ([]*entity.Plan, bool) {
	if x, found := p.cache.Get(activePlansKey); found {
		return x.([]*entity.Plan), true
	}
	return nil, false
}

func (p *PlanCache) SetActivePlans(plans []*entity.Plan) {
	p.cache.Set(activePlansKey, plans, cache.DefaultExpiration)
}

func (p *PlanCache) Invalidate() {
	p.cache.Delete(activePlansKey)
}
