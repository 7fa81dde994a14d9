package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the phone/password pair does not
// match a known user. Deliberately indistinguishable between the two cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// authService issues bearer tokens for the HTTP surface.
type authService struct {
	BaseService
	userRepo  portsrepo.UserReader
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo portsrepo.UserReader, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.jwtExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		Issuer:    s.jwtIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		UserID:    user.UserID,
	}, nil
}

// HashPassword produces a bcrypt hash for storage. Exposed for the
// onboarding flow and seeding tools.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
