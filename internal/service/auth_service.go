package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MaxLoginFailures is the number of failed sign-ins tolerated inside the failure window
const MaxLoginFailures = 5

// AuthService defines admin sign-in, sign-out and onboarding
type AuthService interface {
	// Login verifies credentials and starts a session
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Logout tears the session down
	Logout(ctx context.Context, sess *session.TenantSession) error
	// Onboard creates a tenant with its first admin and starts a session
	Onboard(ctx context.Context, req *dto.OnboardingRequest) (*dto.AuthResponse, error)
	// Packages returns the onboarding package catalogue
	Packages() []domain.PricingPackage
}

type authService struct {
	tenantRepo repository.TenantRepository
	adminRepo  repository.AdminRepository
	sessions   *session.Manager
	store      session.Store
	bcryptCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tenantRepo repository.TenantRepository,
	adminRepo repository.AdminRepository,
	sessions *session.Manager,
	store session.Store,
) AuthService {
	return &authService{
		tenantRepo: tenantRepo,
		adminRepo:  adminRepo,
		sessions:   sessions,
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Login verifies credentials and starts a session
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	failures, err := s.store.LoginFailures(ctx, email)
	if err != nil {
		logger.WarnCtx(ctx, "failed to read login failures", zap.Error(err))
	}
	if failures > MaxLoginFailures {
		return nil, &AuthError{Code: AuthCodeTooManyRequests}
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, s.loginFailed(ctx, email)
	}

	if err := s.store.ResetLoginFailures(ctx, email); err != nil {
		logger.WarnCtx(ctx, "failed to reset login failures", zap.Error(err))
	}
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		logger.WarnCtx(ctx, "failed to update last login", zap.String("user_id", admin.ID), zap.Error(err))
	}

	return s.startSession(ctx, admin)
}

// loginFailed counts the failure and picks the code reported to the form
func (s *authService) loginFailed(ctx context.Context, email string) error {
	n, err := s.store.IncrLoginFailures(ctx, email)
	if err != nil {
		logger.WarnCtx(ctx, "failed to count login failure", zap.Error(err))
	}
	if n > MaxLoginFailures {
		return &AuthError{Code: AuthCodeTooManyRequests}
	}
	return &AuthError{Code: AuthCodeInvalidCredential}
}

// Logout tears the session down
func (s *authService) Logout(ctx context.Context, sess *session.TenantSession) error {
	return s.sessions.End(ctx, sess)
}

// Onboard creates a tenant with its first admin and starts a session
func (s *authService) Onboard(ctx context.Context, req *dto.OnboardingRequest) (*dto.AuthResponse, error) {
	if !domain.IsValidPackage(req.Package) {
		return nil, invalid("Unknown package")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.New().String()
	tenantID := userID
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tenant := &domain.Tenant{
		ID:               tenantID,
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		ContactPerson:    strings.TrimSpace(req.ContactPerson),
		Email:            email,
		Phone:            strings.TrimSpace(req.Phone),
		Package:          req.Package,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	admin := &domain.Admin{
		ID:           userID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		TenantID:     &tenantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	settings := domain.DefaultAppSettings(tenantID)
	settings.EventName = tenant.OrganizationName
	settings.UpdatedAt = now

	if err := s.tenantRepo.CreateWithAdmin(ctx, tenant, admin, settings); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrAdminEmailTaken
		}
		return nil, err
	}

	logger.InfoCtx(ctx, "tenant onboarded",
		zap.String("tenant_id", tenantID),
		zap.String("package", req.Package),
	)

	return s.startSession(ctx, admin)
}

// Packages returns the onboarding package catalogue
func (s *authService) Packages() []domain.PricingPackage {
	return domain.PricingPackages()
}

func (s *authService) startSession(ctx context.Context, admin *domain.Admin) (*dto.AuthResponse, error) {
	sess, token, err := s.sessions.Start(ctx, admin)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		Session:   ToSessionResponse(sess),
	}, nil
}

// ToSessionResponse converts a session to its response DTO
func ToSessionResponse(sess *session.TenantSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		SessionID: sess.SessionID,
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		TenantID:  sess.TenantID,
		IssuedAt:  sess.IssuedAt,
		ExpiresAt: sess.ExpiresAt,
	}
}
