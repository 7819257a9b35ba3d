package model

import (
	"time"

	"github.com/google/uuid"
)

// TenantSettings holds per-tenant configuration consumed by the close
// workflow. AdminPINHash is a bcrypt hash; nil means no PIN is configured
// and the tenant closes in visible (non-blind) mode.
type TenantSettings struct {
	TenantID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminPINHash *string   `gorm:"column:admin_pin_hash"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Operator is a till user. Login produces a JWT whose claims carry the
// tenant id; every service call takes the tenant explicitly from there.
type Operator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
