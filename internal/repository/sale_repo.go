package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
)

// SaleRepository reads sales written by the sales subsystem. This service
// never inserts or mutates sale rows.
type SaleRepository interface {
	// ListInWindow returns the tenant's sales with created_at inside
	// [from, to], both ends inclusive — the SQL twin of reconcile.InWindow.
	ListInWindow(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) ListInWindow(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ? AND created_at <= ?", tenantID, from.UTC(), to.UTC()).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}
