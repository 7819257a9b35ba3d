package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
)

type AuditRepository interface {
	CreateRecords(ctx context.Context, records []model.AuditRecord) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.AuditRecord, int64, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) CreateRecords(ctx context.Context, records []model.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *auditRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]model.AuditRecord, int64, error) {
	var recs []model.AuditRecord
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AuditRecord{}).Where("tenant_id = ?", tenantID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&recs).Error
	return recs, total, err
}
