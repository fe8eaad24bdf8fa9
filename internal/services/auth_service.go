package services

import (
	"context"
	"errors"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/auth"
	"github.com/gaming-marketplace/backend/internal/config"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthService struct {
	adminRepo *repositories.AdminRepo
	cfg       *config.Config
	log       *zap.Logger
}

func NewAuthService(adminRepo *repositories.AdminRepo, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{adminRepo: adminRepo, cfg: cfg, log: log}
}

type Session struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}

// Login exchanges a username + API key for a JWT session. Unknown users and
// bad keys get the same error.
func (s *AuthService) Login(ctx context.Context, username, apiKey string) (*Session, error) {
	if username == "" || apiKey == "" {
		return nil, apperrors.New(apperrors.CodeRequiredFieldMissing, "username and api key are required")
	}

	admin, err := s.adminRepo.GetByCredentials(ctx, username, apiKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "invalid credentials")
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to look up admin").WithCause(err)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, admin.ID, admin.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeOperationFailed, "failed to issue token").WithCause(err)
	}
	if err := s.adminRepo.TouchLogin(ctx, admin.ID); err != nil {
		s.log.Warn("failed to record login time", zap.Error(err))
	}

	s.log.Info("admin logged in", zap.String("username", admin.Username), zap.String("role", admin.Role))
	return &Session{Token: token, Admin: admin}, nil
}
