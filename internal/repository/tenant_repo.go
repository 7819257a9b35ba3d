package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
)

type TenantRepository interface {
	// FindSettings returns the tenant's settings, or nil when the tenant has
	// never configured any (treated as "no PIN, visible close").
	FindSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error)
	FindOperatorByUsername(ctx context.Context, username string) (*model.Operator, error)
}

type tenantRepo struct{ db *gorm.DB }

func NewTenantRepository(db *gorm.DB) TenantRepository { return &tenantRepo{db: db} }

func (r *tenantRepo) FindSettings(ctx context.Context, tenantID uuid.UUID) (*model.TenantSettings, error) {
	var s model.TenantSettings
	err := r.db.WithContext(ctx).First(&s, "tenant_id = ?", tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *tenantRepo) FindOperatorByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var op model.Operator
	err := r.db.WithContext(ctx).First(&op, "username = ? AND active", username).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}
