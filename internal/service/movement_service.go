package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
)

type MovementService interface {
	// Record appends an immutable manual movement against the tenant's open
	// register. No recomputation is triggered — the reconciliation
	// calculator reads movements lazily.
	Record(ctx context.Context, tenantID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error)
	List(ctx context.Context, tenantID, registerID uuid.UUID) ([]dto.MovementResponse, error)
}

type movementService struct {
	registers repository.RegisterRepository
	movements repository.MovementRepository
}

func NewMovementService(registers repository.RegisterRepository, movements repository.MovementRepository) MovementService {
	return &movementService{registers: registers, movements: movements}
}

func (s *movementService) Record(ctx context.Context, tenantID uuid.UUID, req dto.MovementRequest) (*dto.MovementResponse, error) {
	registerID, err := uuid.Parse(req.RegisterID)
	if err != nil {
		return nil, fmt.Errorf("%w: register_id inválido", ErrValidation)
	}
	if req.Type != model.MovementIngreso && req.Type != model.MovementEgreso {
		return nil, fmt.Errorf("%w: tipo debe ser ingreso o egreso", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", ErrValidation)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: la descripción es obligatoria", ErrValidation)
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

	mov := &model.CashMovement{
		TenantID:       tenantID,
		CashRegisterID: reg.ID,
		Type:           req.Type,
		Amount:         req.Amount,
		Description:    description,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.movements.Create(ctx, mov); err != nil {
		return nil, storeErr("create movement", err)
	}

	return movementToDTO(mov), nil
}

func (s *movementService) List(ctx context.Context, tenantID, registerID uuid.UUID) ([]dto.MovementResponse, error) {
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

	movs, err := s.movements.ListByRegister(ctx, reg.ID)
	if err != nil {
		return nil, storeErr("list movements", err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *movementToDTO(&movs[i]))
	}
	return out, nil
}

func movementToDTO(m *model.CashMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID.String(),
		RegisterID:  m.CashRegisterID.String(),
		Type:        m.Type,
		Amount:      m.Amount,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
