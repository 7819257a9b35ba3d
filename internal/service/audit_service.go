package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/reconcile"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
)

// auditPageSize bounds how many closed registers one pass loads at a time.
const auditPageSize = 100

type AuditService interface {
	// Run re-derives every closed register's sale totals from raw sale rows
	// and repairs snapshots that drifted beyond tolerance. Idempotent:
	// a second pass with no intervening writes performs zero corrections.
	// Drift never aborts the batch; store failures do.
	Run(ctx context.Context, tenantID uuid.UUID) (*dto.AuditRunResponse, error)
	Records(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.AuditRecordResponse, int64, error)
}

type auditService struct {
	registers repository.RegisterRepository
	sales     repository.SaleRepository
	audits    repository.AuditRepository
}

func NewAuditService(
	registers repository.RegisterRepository,
	sales repository.SaleRepository,
	audits repository.AuditRepository,
) AuditService {
	return &auditService{registers: registers, sales: sales, audits: audits}
}

func (s *auditService) Run(ctx context.Context, tenantID uuid.UUID) (*dto.AuditRunResponse, error) {
	runID := uuid.New()
	resp := &dto.AuditRunResponse{RunID: runID.String(), Entries: []dto.AuditEntry{}}
	var records []model.AuditRecord

	for page := 1; ; page++ {
		regs, _, err := s.registers.ListClosedByTenant(ctx, tenantID, page, auditPageSize)
		if err != nil {
			return nil, storeErr("list closed registers", err)
		}
		if len(regs) == 0 {
			break
		}
		for i := range regs {
			entry, record, err := s.auditRegister(ctx, runID, &regs[i])
			if err != nil {
				return nil, err
			}
			resp.Entries = append(resp.Entries, *entry)
			resp.Audited++
			if entry.Status == model.AuditCorrected {
				resp.Corrected++
			}
			records = append(records, *record)
		}
		if len(regs) < auditPageSize {
			break
		}
	}

	if err := s.audits.CreateRecords(ctx, records); err != nil {
		return nil, storeErr("persist audit records", err)
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("run_id", runID.String()).
		Int("audited", resp.Audited).
		Int("corrected", resp.Corrected).
		Msg("audit pass completed")

	return resp, nil
}

// auditRegister recomputes one closed register's sale totals strictly over
// [opened_at, closed_at] and repairs the snapshot when either total drifted
// beyond tolerance. Ingresos/egresos come from the stored snapshot: they are
// immutable append-only rows untouched by the bug classes this repair
// targets. The physically counted closing_amount is never altered.
func (s *auditService) auditRegister(ctx context.Context, runID uuid.UUID, reg *model.CashRegister) (*dto.AuditEntry, *model.AuditRecord, error) {
	sales, err := s.sales.ListInWindow(ctx, reg.TenantID, reg.OpenedAt, *reg.ClosedAt)
	if err != nil {
		return nil, nil, storeErr("list sales", err)
	}
	cash, digital := reconcile.PartitionSales(sales)

	storedCash := deref(reg.TotalSalesCash)
	storedDigital := deref(reg.TotalSalesDigital)
	storedExpected := deref(reg.ExpectedAmount)

	entry := dto.AuditEntry{
		RegisterID:     reg.ID.String(),
		Status:         model.AuditMatched,
		CashBefore:     storedCash,
		CashAfter:      storedCash,
		DigitalBefore:  storedDigital,
		DigitalAfter:   storedDigital,
		ExpectedBefore: storedExpected,
		ExpectedAfter:  storedExpected,
	}

	if !reconcile.WithinTolerance(cash, storedCash) || !reconcile.WithinTolerance(digital, storedDigital) {
		expected := reg.OpeningAmount.
			Add(cash).
			Add(deref(reg.TotalIngresos)).
			Sub(deref(reg.TotalEgresos))

		if err := s.registers.UpdateAuditTotals(ctx, reg.ID, cash, digital, expected); err != nil {
			return nil, nil, storeErr("repair register totals", err)
		}

		entry.Status = model.AuditCorrected
		entry.CashAfter = cash
		entry.DigitalAfter = digital
		entry.ExpectedAfter = expected

		log.Warn().
			Str("register_id", reg.ID.String()).
			Str("cash_before", storedCash.String()).
			Str("cash_after", cash.String()).
			Str("expected_after", expected.String()).
			Msg("register snapshot corrected")
	}

	record := &model.AuditRecord{
		RunID:          runID,
		TenantID:       reg.TenantID,
		CashRegisterID: reg.ID,
		Status:         entry.Status,
		CashBefore:     entry.CashBefore,
		CashAfter:      entry.CashAfter,
		DigitalBefore:  entry.DigitalBefore,
		DigitalAfter:   entry.DigitalAfter,
		ExpectedBefore: entry.ExpectedBefore,
		ExpectedAfter:  entry.ExpectedAfter,
		CreatedAt:      time.Now().UTC(),
	}
	return &entry, record, nil
}

func (s *auditService) Records(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]dto.AuditRecordResponse, int64, error) {
	recs, total, err := s.audits.ListByTenant(ctx, tenantID, page, limit)
	if err != nil {
		return nil, 0, storeErr("list audit records", err)
	}
	out := make([]dto.AuditRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.AuditRecordResponse{
			ID:             r.ID.String(),
			RunID:          r.RunID.String(),
			RegisterID:     r.CashRegisterID.String(),
			Status:         r.Status,
			CashBefore:     r.CashBefore,
			CashAfter:      r.CashAfter,
			DigitalBefore:  r.DigitalBefore,
			DigitalAfter:   r.DigitalAfter,
			ExpectedBefore: r.ExpectedBefore,
			ExpectedAfter:  r.ExpectedAfter,
			CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out, total, nil
}

func deref(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
