package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/reconcile"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
)

// ── In-memory fakes mirroring the store's contract ───────────────────────────
// The register fake also emulates the partial unique index: a second open
// insert for the same tenant fails with gorm.ErrDuplicatedKey, exactly like
// postgres under uniq_cash_registers_open_per_tenant.

type fakeRegisterRepo struct {
	mu        sync.Mutex
	registers map[uuid.UUID]*model.CashRegister
	// raceMode makes the friendly read-check blind, simulating two
	// terminals passing the check before either insert lands.
	raceMode bool
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{registers: make(map[uuid.UUID]*model.CashRegister)}
}

func (r *fakeRegisterRepo) Create(_ context.Context, reg *model.CashRegister) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.registers {
		if existing.TenantID == reg.TenantID && existing.Status == model.RegisterOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	cp := *reg
	r.registers[reg.ID] = &cp
	return nil
}

func (r *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegisterRepo) FindOpenByTenant(_ context.Context, tenantID uuid.UUID) (*model.CashRegister, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceMode {
		return nil, gorm.ErrRecordNotFound
	}
	for _, reg := range r.registers {
		if reg.TenantID == tenantID && reg.Status == model.RegisterOpen {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRegisterRepo) Close(_ context.Context, id uuid.UUID, closedAt time.Time, closingAmount decimal.Decimal, summary reconcile.Summary, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registers[id]
	if !ok || reg.Status != model.RegisterOpen {
		return gorm.ErrRecordNotFound
	}
	reg.Status = model.RegisterClosed
	reg.ClosingAmount = &closingAmount
	expected := summary.ExpectedAmount
	cash := summary.TotalSalesCash
	digital := summary.TotalSalesDigital
	ingresos := summary.TotalIngresos
	egresos := summary.TotalEgresos
	reg.ExpectedAmount = &expected
	reg.TotalSalesCash = &cash
	reg.TotalSalesDigital = &digital
	reg.TotalIngresos = &ingresos
	reg.TotalEgresos = &egresos
	reg.ClosedAt = &closedAt
	reg.Notes = notes
	return nil
}

func (r *fakeRegisterRepo) UpdateAuditTotals(_ context.Context, id uuid.UUID, cash, digital, expected decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.registers[id]
	if !ok || reg.Status != model.RegisterClosed {
		return gorm.ErrRecordNotFound
	}
	reg.TotalSalesCash = &cash
	reg.TotalSalesDigital = &digital
	reg.ExpectedAmount = &expected
	return nil
}

func (r *fakeRegisterRepo) ListClosedByTenant(_ context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegister, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.CashRegister
	for _, reg := range r.registers {
		if reg.TenantID == tenantID && reg.Status == model.RegisterClosed {
			all = append(all, *reg)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.RegisterRepository = (*fakeRegisterRepo)(nil)

// ── Movements ────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []model.CashMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *model.CashMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) ListByRegister(_ context.Context, registerID uuid.UUID) ([]model.CashMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.CashRegisterID == registerID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type fakeSaleRepo struct {
	mu        sync.Mutex
	sales     []model.Sale
	listCalls int
	// onSecondList runs before the second query only — used to inject a
	// sale between the close path's recompute and its pre-persist re-check.
	onSecondList func(r *fakeSaleRepo)
}

func (r *fakeSaleRepo) add(tenantID uuid.UUID, total, method string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, model.Sale{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Total:         decimal.RequireFromString(total),
		PaymentMethod: method,
		CreatedAt:     at,
	})
}

func (r *fakeSaleRepo) ListInWindow(_ context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	r.listCalls++
	if r.listCalls == 2 && r.onSecondList != nil {
		hook := r.onSecondList
		r.onSecondList = nil
		hook(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.TenantID == tenantID && !s.CreatedAt.Before(from) && !s.CreatedAt.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)

// ── Tenants ──────────────────────────────────────────────────────────────────

type fakeTenantRepo struct {
	settings  map[uuid.UUID]*model.TenantSettings
	operators map[string]*model.Operator
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		settings:  make(map[uuid.UUID]*model.TenantSettings),
		operators: make(map[string]*model.Operator),
	}
}

func (r *fakeTenantRepo) FindSettings(_ context.Context, tenantID uuid.UUID) (*model.TenantSettings, error) {
	return r.settings[tenantID], nil
}

func (r *fakeTenantRepo) FindOperatorByUsername(_ context.Context, username string) (*model.Operator, error) {
	op, ok := r.operators[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return op, nil
}

var _ repository.TenantRepository = (*fakeTenantRepo)(nil)

// ── Audit records ────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []model.AuditRecord
}

func (r *fakeAuditRepo) CreateRecords(_ context.Context, records []model.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeAuditRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, page, limit int) ([]model.AuditRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.AuditRecord
	for _, rec := range r.records {
		if rec.TenantID == tenantID {
			all = append(all, rec)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.AuditRepository = (*fakeAuditRepo)(nil)
