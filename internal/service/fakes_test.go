package service

import (
	"context"
	"fmt"
	"sync"

	"school-mgmt-be/internal/dto"
	"school-mgmt-be/internal/entity"
	"school-mgmt-be/internal/repository/contract"
	"school-mgmt-be/internal/repository/specification"
	"school-mgmt-be/internal/repository/unitofwork"
	"school-mgmt-be/pkg/events"

	"github.com/google/uuid"
)

// In-memory store shared by all fake repositories. Specifications are
// interpreted by type switch; ordering and pagination specs are ignored
// because the tests assert on content, not order.

type fakeStore struct {
	mu         sync.Mutex
	plans      []*entity.Plan
	tenants    []*entity.Tenant
	subs       []*entity.Subscription
	invoices   []*entity.Invoice
	activities []*entity.Activity
	nextSeq    int64
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: &fakeStore{}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	u.inTx = false
	return nil
}

func (u *fakeUow) TenantRepository() contract.TenantRepository {
	return &fakeTenantRepo{store: u.store}
}

func (u *fakeUow) PlanRepository() contract.PlanRepository {
	return &fakePlanRepo{store: u.store}
}

func (u *fakeUow) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{store: u.store}
}

func (u *fakeUow) InvoiceRepository() contract.InvoiceRepository {
	return &fakeInvoiceRepo{store: u.store}
}

func (u *fakeUow) ActivityRepository() contract.ActivityRepository {
	return &fakeActivityRepo{store: u.store}
}

// --- plan repo ---

type fakePlanRepo struct {
	store *fakeStore
}

func matchPlan(p *entity.Plan, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.BySlug:
			if p.Slug != s.Slug {
				return false
			}
		case specification.FilterBy:
			if s.Field == "is_active" && p.IsActive != s.Value.(bool) {
				return false
			}
		}
	}
	return true
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *entity.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *plan
	r.store.plans = append(r.store.plans, &cp)
	return nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *entity.Plan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, p := range r.store.plans {
		if p.Id == plan.Id {
			cp := *plan
			r.store.plans[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("plan %s not found", plan.Id)
}

func (r *fakePlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, p := range r.store.plans {
		if p.Id == id {
			r.store.plans = append(r.store.plans[:i], r.store.plans[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePlanRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.plans {
		if matchPlan(p, specs) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Plan
	for _, p := range r.store.plans {
		if matchPlan(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) CountSubscriptionsReferencing(ctx context.Context, planId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, s := range r.store.subs {
		if s.PlanId == planId {
			n++
		}
	}
	return n, nil
}

// --- tenant repo ---

type fakeTenantRepo struct {
	store *fakeStore
}

func matchTenant(t *entity.Tenant, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if t.Id != s.ID {
				return false
			}
		case specification.BySlug:
			if t.Slug != s.Slug {
				return false
			}
		}
	}
	return true
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *entity.Tenant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *tenant
	r.store.tenants = append(r.store.tenants, &cp)
	return nil
}

func (r *fakeTenantRepo) Update(ctx context.Context, tenant *entity.Tenant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, t := range r.store.tenants {
		if t.Id == tenant.Id {
			cp := *tenant
			r.store.tenants[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("tenant %s not found", tenant.Id)
}

func (r *fakeTenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeTenantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.tenants {
		if matchTenant(t, specs) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTenantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.store.tenants {
		if matchTenant(t, specs) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTenantRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- subscription repo ---

type fakeSubscriptionRepo struct {
	store *fakeStore
}

func matchSubscription(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if sub.Id != s.ID {
				return false
			}
		case specification.TenantOwnedBy:
			if sub.TenantId != s.TenantID {
				return false
			}
		case specification.StatusIs:
			if string(sub.Status) != s.Status {
				return false
			}
		case specification.StatusNot:
			if string(sub.Status) == s.Status {
				return false
			}
		case specification.AutoRenewEnabled:
			if !sub.AutoRenew {
				return false
			}
		case specification.EndsAfter:
			if sub.EndsAt == nil || !sub.EndsAt.After(s.Time) {
				return false
			}
		case specification.EndsOnOrBefore:
			if sub.EndsAt == nil || sub.EndsAt.After(s.Time) {
				return false
			}
		}
	}
	return true
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *sub
	r.store.subs = append(r.store.subs, &cp)
	return nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *entity.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, s := range r.store.subs {
		if s.Id == sub.Id {
			cp := *sub
			r.store.subs[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("subscription %s not found", sub.Id)
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, s := range r.store.subs {
		if matchSubscription(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Subscription
	for _, s := range r.store.subs {
		if matchSubscription(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) FindCurrentForTenant(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var latest *entity.Subscription
	for _, s := range r.store.subs {
		if s.TenantId != tenantId {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

// --- invoice repo ---

type fakeInvoiceRepo struct {
	store *fakeStore
}

func matchInvoice(inv *entity.Invoice, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if inv.Id != s.ID {
				return false
			}
		case specification.TenantOwnedBy:
			if inv.TenantId != s.TenantID {
				return false
			}
		case specification.FilterBy:
			if s.Field == "subscription_id" && inv.SubscriptionId != s.Value.(uuid.UUID) {
				return false
			}
		case specification.StatusNot:
			if string(inv.Status) == s.Status {
				return false
			}
		case specification.StatusIs:
			if string(inv.Status) != s.Status {
				return false
			}
		case specification.PeriodEndWithin:
			if inv.BillingPeriodEnd.Before(s.From) || inv.BillingPeriodEnd.After(s.To) {
				return false
			}
		}
	}
	return true
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *invoice
	r.store.invoices = append(r.store.invoices, &cp)
	return nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, inv := range r.store.invoices {
		if inv.Id == invoice.Id {
			cp := *invoice
			r.store.invoices[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("invoice %s not found", invoice.Id)
}

func (r *fakeInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeInvoiceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.invoices {
		if matchInvoice(inv, specs) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.store.invoices {
		if matchInvoice(inv, specs) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) NextSequence(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextSeq++
	return r.store.nextSeq, nil
}

// --- activity repo ---

type fakeActivityRepo struct {
	store *fakeStore
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *activity
	r.store.activities = append(r.store.activities, &cp)
	return nil
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Activity
	for _, a := range r.store.activities {
		keep := true
		for _, spec := range specs {
			if s, ok := spec.(specification.TenantOwnedBy); ok && a.TenantId != s.TenantID {
				keep = false
			}
		}
		if keep {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- collaborators ---

type noopLogger struct{}

func (noopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (noopLogger) Info(module string, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (noopLogger) Error(module string, message string, details map[string]interface{}) {}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

type stubPaymentService struct {
	mu      sync.Mutex
	charges int
	status  string
	err     error
	failFor map[uuid.UUID]error
}

func (s *stubPaymentService) CreatePaymentIntent(ctx context.Context, sub *entity.Subscription, plan *entity.Plan, amount float64) (*PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges++
	if err, ok := s.failFor[sub.Id]; ok {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	status := s.status
	if status == "" {
		status = "settlement"
	}
	return &PaymentIntent{
		OrderId:       "test-order",
		TransactionId: uuid.NewString(),
		Status:        status,
	}, nil
}

func (s *stubPaymentService) ProcessPayment(ctx context.Context, orderId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == "" || (&PaymentIntent{Status: s.status}).Settled(), nil
}

func (s *stubPaymentService) HandleNotification(ctx context.Context, req *dto.MidtransNotification) error {
	return nil
}

type stubMailDispatch struct {
	mu         sync.Mutex
	dispatched []uuid.UUID
}

func (s *stubMailDispatch) DispatchInvoice(ctx context.Context, invoiceId uuid.UUID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = append(s.dispatched, invoiceId)
	return nil
}
