package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/reconcile"
)

type RegisterRepository interface {
	Create(ctx context.Context, r *model.CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	FindOpenByTenant(ctx context.Context, tenantID uuid.UUID) (*model.CashRegister, error)
	// Close persists the close-time fields of an open register and flips it
	// to closed. Only the snapshot columns are written — nothing else on the
	// row can change through this path.
	Close(ctx context.Context, id uuid.UUID, closedAt time.Time, closingAmount decimal.Decimal, summary reconcile.Summary, notes *string) error
	// UpdateAuditTotals is the auditor's repair path: it rewrites the two
	// derived sale totals and the expected amount, never the closing amount.
	UpdateAuditTotals(ctx context.Context, id uuid.UUID, cash, digital, expected decimal.Decimal) error
	ListClosedByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegister, int64, error)
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) Create(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) FindOpenByTenant(ctx context.Context, tenantID uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, model.RegisterOpen).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registerRepo) Close(ctx context.Context, id uuid.UUID, closedAt time.Time, closingAmount decimal.Decimal, summary reconcile.Summary, notes *string) error {
	updates := map[string]interface{}{
		"status":              model.RegisterClosed,
		"closing_amount":      closingAmount,
		"expected_amount":     summary.ExpectedAmount,
		"total_sales_cash":    summary.TotalSalesCash,
		"total_sales_digital": summary.TotalSalesDigital,
		"total_ingresos":      summary.TotalIngresos,
		"total_egresos":       summary.TotalEgresos,
		"closed_at":           closedAt,
		"notes":               notes,
	}
	res := r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("id = ? AND status = ?", id, model.RegisterOpen).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registerRepo) UpdateAuditTotals(ctx context.Context, id uuid.UUID, cash, digital, expected decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("id = ? AND status = ?", id, model.RegisterClosed).
		Updates(map[string]interface{}{
			"total_sales_cash":    cash,
			"total_sales_digital": digital,
			"expected_amount":     expected,
		}).Error
}

func (r *registerRepo) ListClosedByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.CashRegister, int64, error) {
	var regs []model.CashRegister
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("tenant_id = ? AND status = ?", tenantID, model.RegisterClosed)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&regs).Error
	return regs, total, err
}
