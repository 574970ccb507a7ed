package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/pkg/auth"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
	"github.com/jwalitptl/dentalcare-api/pkg/security"
)

const DefaultMinPasswordLength = 8

const (
	msgMissingCredentials = "Email and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgUserExists         = "User already exists"
	msgSignupDisabled     = "Sign up is disabled"
)

type Config struct {
	AllowSignup       bool
	MinPasswordLength int
}

type Service struct {
	repo     repository.AdminRepository
	hasher   security.PasswordHasher
	tokens   *auth.JWTManager
	cfg      Config
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewService(repo repository.AdminRepository, hasher security.PasswordHasher, tokens *auth.JWTManager, cfg Config, m *metrics.Metrics) *Service {
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = DefaultMinPasswordLength
	}
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		metrics:  m,
		validate: validator.New(),
	}
}

// SignUp creates an admin account. The duplicate check runs before any
// password policy so an existing email always yields a conflict.
func (s *Service) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AdminUser, error) {
	if !s.cfg.AllowSignup {
		return nil, apperrors.Forbidden(msgSignupDisabled)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperrors.Validation(msgMissingCredentials, nil)
	}

	email := model.NormalizeEmail(req.Email)

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(msgUserExists, nil)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.Internal(fmt.Errorf("failed to look up admin: %w", err))
	}

	if err := s.validate.Var(email, "email"); err != nil {
		return nil, apperrors.Validation("Invalid email address", err)
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, apperrors.Validation(
			fmt.Sprintf("Password must be at least %d characters", s.cfg.MinPasswordLength), nil)
	}

	role := req.Role
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		return nil, apperrors.Validation("Invalid role", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	account := &model.AdminAccount{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgUserExists, err)
		}
		return nil, apperrors.Internal(err)
	}

	log.Info().Str("admin_id", account.ID.String()).Str("role", string(role)).Msg("admin account created")
	return account.User(), nil
}

// SignIn verifies credentials and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, req *model.SignInRequest) (*model.SignInResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.metrics.SignIn("invalid_request")
		return nil, apperrors.Validation(msgMissingCredentials, nil)
	}

	account, err := s.repo.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.SignIn("invalid_credentials")
			return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		s.metrics.SignIn("invalid_credentials")
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, apperrors.Unauthorized(msgInvalidCredentials, nil)
		}
		// A corrupt stored hash is still a failed sign-in for the caller.
		log.Error().Err(err).Str("admin_id", account.ID.String()).Msg("password comparison failed")
		return nil, apperrors.Unauthorized(msgInvalidCredentials, err)
	}

	token, err := s.tokens.GenerateToken(account.ID, account.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.SignIn("success")
	return &model.SignInResponse{User: account.User(), Token: token}, nil
}

// Me returns the public projection of the given account.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidToken, err)
		}
		return nil, apperrors.Internal(err)
	}
	return account.User(), nil
}

// Resolve verifies a session token and loads the account it names.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken, err)
	}
	id, err := claims.AccountID()
	if err != nil {
		return nil, apperrors.Unauthorized(msgInvalidToken, err)
	}

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(msgInvalidToken, err)
		}
		return nil, apperrors.Internal(err)
	}

	return &model.Identity{ID: account.ID, Email: account.Email, Role: account.Role}, nil
}
