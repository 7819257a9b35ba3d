package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/config"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	tenants repository.TenantRepository
	cfg     *config.Config
}

func NewAuthService(tenants repository.TenantRepository, cfg *config.Config) AuthService {
	return &authService{tenants: tenants, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := s.tenants.FindOperatorByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("credenciales inválidas")
	}
	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.New("credenciales inválidas")
	}

	token, err := s.generateToken(op)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
	}, nil
}

func (s *authService) generateToken(op *model.Operator) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       op.ID.String(),
		"username":  op.Username,
		"tenant_id": op.TenantID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
