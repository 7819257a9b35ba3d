package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/reconcile"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
)

type RegisterService interface {
	Open(ctx context.Context, tenantID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error)
	// Active returns the tenant's single open register, or nil when no
	// session is trading.
	Active(ctx context.Context, tenantID uuid.UUID) (*dto.RegisterResponse, error)
	// LiveSummary recomputes the open register's figures from raw sale and
	// movement rows with now as the window end. The summary is a derived
	// view, never a cached fact.
	LiveSummary(ctx context.Context, tenantID uuid.UUID) (*dto.SummaryResponse, error)
	// CloseContext tells the close workflow whether the tenant closes blind
	// (admin PIN configured) and, only in visible mode, includes the live
	// summary shown before the operator enters the count.
	CloseContext(ctx context.Context, tenantID uuid.UUID) (*dto.CloseContextResponse, error)
	Close(ctx context.Context, tenantID uuid.UUID, req dto.CloseRegisterRequest) (*dto.CloseRegisterResponse, error)
	Get(ctx context.Context, tenantID, registerID uuid.UUID) (*dto.RegisterResponse, error)
	History(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.RegisterResponse, int64, error)
}

type registerService struct {
	registers repository.RegisterRepository
	movements repository.MovementRepository
	sales     repository.SaleRepository
	tenants   repository.TenantRepository
}

func NewRegisterService(
	registers repository.RegisterRepository,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	tenants repository.TenantRepository,
) RegisterService {
	return &registerService{
		registers: registers,
		movements: movements,
		sales:     sales,
		tenants:   tenants,
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *registerService) Open(ctx context.Context, tenantID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterResponse, error) {
	if req.OpeningAmount.IsNegative() {
		return nil, fmt.Errorf("%w: el monto inicial no puede ser negativo", ErrValidation)
	}

	// Friendly guard. The authoritative one is the partial unique index on
	// (tenant_id) WHERE status='open' — two concurrent opens can both pass
	// this read, but only one insert survives the index.
	if _, err := s.registers.FindOpenByTenant(ctx, tenantID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("find open register", err)
	}

	reg := &model.CashRegister{
		TenantID:      tenantID,
		Status:        model.RegisterOpen,
		OpeningAmount: req.OpeningAmount,
		OpenedAt:      time.Now().UTC(),
	}
	if err := s.registers.Create(ctx, reg); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, storeErr("create register", err)
	}

	return registerToDTO(reg), nil
}

// ── Active / LiveSummary ─────────────────────────────────────────────────────

func (s *registerService) Active(ctx context.Context, tenantID uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.registers.FindOpenByTenant(ctx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find open register", err)
	}
	return registerToDTO(reg), nil
}

func (s *registerService) LiveSummary(ctx context.Context, tenantID uuid.UUID) (*dto.SummaryResponse, error) {
	reg, err := s.openRegister(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarize(ctx, reg, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return summaryToDTO(summary), nil
}

// ── CloseContext ─────────────────────────────────────────────────────────────

func (s *registerService) CloseContext(ctx context.Context, tenantID uuid.UUID) (*dto.CloseContextResponse, error) {
	reg, err := s.openRegister(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	blind, _, err := s.pinConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CloseContextResponse{RegisterID: reg.ID.String(), Blind: blind}
	if !blind {
		// Visible mode shows the expected figure before the count is
		// entered; blind mode withholds it to produce an unbiased count.
		summary, err := s.summarize(ctx, reg, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		resp.Summary = summaryToDTO(summary)
	}
	return resp, nil
}

// ── Close ────────────────────────────────────────────────────────────────────
// Recompute-then-snapshot order is mandatory: the persisted figures must
// come from a summary computed inside this call, never from anything the UI
// cached before the operator started the closing workflow.

func (s *registerService) Close(ctx context.Context, tenantID uuid.UUID, req dto.CloseRegisterRequest) (*dto.CloseRegisterResponse, error) {
	registerID, err := uuid.Parse(req.RegisterID)
	if err != nil {
		return nil, fmt.Errorf("%w: register_id inválido", ErrValidation)
	}
	if req.PhysicalCount.IsNegative() {
		return nil, fmt.Errorf("%w: el conteo físico no puede ser negativo", ErrValidation)
	}

	reg, err := s.registers.FindByID(ctx, registerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, storeErr("find register", err)
	}
	if reg.TenantID != tenantID || reg.Status != model.RegisterOpen {
		return nil, ErrInvalidState
	}

	// PIN challenge — only when the tenant configured one.
	blind, pinHash, err := s.pinConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if blind {
		if req.PIN == nil {
			return nil, ErrAuthorization
		}
		if bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(*req.PIN)) != nil {
			return nil, ErrAuthorization
		}
	}

	closedAt := time.Now().UTC()
	summary, err := s.summarize(ctx, reg, closedAt)
	if err != nil {
		return nil, err
	}

	// Re-recompute immediately before the final write: a sale or movement
	// that landed mid-close would freeze a stale snapshot. Drift beyond
	// tolerance re-prompts the operator instead of persisting silently.
	verify, err := s.summarize(ctx, reg, closedAt)
	if err != nil {
		return nil, err
	}
	if !reconcile.WithinTolerance(verify.ExpectedAmount, summary.ExpectedAmount) {
		return nil, ErrStaleSummary
	}

	if err := s.registers.Close(ctx, reg.ID, closedAt, req.PhysicalCount, verify, req.Notes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the race against another terminal's close.
			return nil, ErrInvalidState
		}
		return nil, storeErr("close register", err)
	}

	closed, err := s.registers.FindByID(ctx, reg.ID)
	if err != nil {
		return nil, storeErr("reload register", err)
	}

	discrepancy := verify.Discrepancy(req.PhysicalCount)
	return &dto.CloseRegisterResponse{
		Register:       *registerToDTO(closed),
		Discrepancy:    discrepancy,
		Classification: reconcile.Classify(discrepancy),
	}, nil
}

// ── Get / History ────────────────────────────────────────────────────────────

func (s *registerService) Get(ctx context.Context, tenantID, registerID uuid.UUID) (*dto.RegisterResponse, error) {
	reg, err := s.registers.FindByID(ctx, registerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, storeErr("find register", err)
	}
	if reg.TenantID != tenantID {
		return nil, ErrInvalidState
	}
	return registerToDTO(reg), nil
}

func (s *registerService) History(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.RegisterResponse, int64, error) {
	regs, total, err := s.registers.ListClosedByTenant(ctx, tenantID, page, limit)
	if err != nil {
		return nil, 0, storeErr("list closed registers", err)
	}
	out := make([]dto.RegisterResponse, 0, len(regs))
	for i := range regs {
		out = append(out, *registerToDTO(&regs[i]))
	}
	return out, total, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *registerService) openRegister(ctx context.Context, tenantID uuid.UUID) (*model.CashRegister, error) {
	reg, err := s.registers.FindOpenByTenant(ctx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, storeErr("find open register", err)
	}
	return reg, nil
}

// summarize recomputes the register's figures over [opened_at, end] from
// raw rows. Shared by the live view, the close path, and CloseContext.
func (s *registerService) summarize(ctx context.Context, reg *model.CashRegister, end time.Time) (reconcile.Summary, error) {
	sales, err := s.sales.ListInWindow(ctx, reg.TenantID, reg.OpenedAt, end)
	if err != nil {
		return reconcile.Summary{}, storeErr("list sales", err)
	}
	movements, err := s.movements.ListByRegister(ctx, reg.ID)
	if err != nil {
		return reconcile.Summary{}, storeErr("list movements", err)
	}
	return reconcile.Summarize(reg.OpeningAmount, sales, movements), nil
}

// pinConfig returns whether the tenant closes blind and the configured hash.
func (s *registerService) pinConfig(ctx context.Context, tenantID uuid.UUID) (bool, string, error) {
	settings, err := s.tenants.FindSettings(ctx, tenantID)
	if err != nil {
		return false, "", storeErr("find tenant settings", err)
	}
	if settings == nil || settings.AdminPINHash == nil || *settings.AdminPINHash == "" {
		return false, "", nil
	}
	return true, *settings.AdminPINHash, nil
}

func summaryToDTO(s reconcile.Summary) *dto.SummaryResponse {
	return &dto.SummaryResponse{
		OpeningAmount:     s.OpeningAmount,
		TotalSalesCash:    s.TotalSalesCash,
		TotalSalesDigital: s.TotalSalesDigital,
		TotalIngresos:     s.TotalIngresos,
		TotalEgresos:      s.TotalEgresos,
		ExpectedAmount:    s.ExpectedAmount,
	}
}

func registerToDTO(r *model.CashRegister) *dto.RegisterResponse {
	resp := &dto.RegisterResponse{
		ID:                r.ID.String(),
		Status:            r.Status,
		OpeningAmount:     r.OpeningAmount,
		OpenedAt:          r.OpenedAt.UTC().Format(time.RFC3339),
		ClosingAmount:     r.ClosingAmount,
		ExpectedAmount:    r.ExpectedAmount,
		TotalSalesCash:    r.TotalSalesCash,
		TotalSalesDigital: r.TotalSalesDigital,
		TotalIngresos:     r.TotalIngresos,
		TotalEgresos:      r.TotalEgresos,
		Notes:             r.Notes,
	}
	if r.ClosedAt != nil {
		t := r.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
