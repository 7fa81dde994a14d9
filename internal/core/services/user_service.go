package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/google/uuid"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(repo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: repo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetOrCreateByPhone resolves the identity the messaging transport hands us,
// provisioning a user on first contact.
func (s *userService) GetOrCreateByPhone(ctx context.Context, phoneNumber string, timezone string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByPhone(ctx, phoneNumber)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by phone: %w", err)
	}

	now := time.Now().UTC()
	newUser := domain.User{
		UserID:      uuid.NewString(),
		PhoneNumber: phoneNumber,
		Timezone:    timezone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	newUser.CreatedBy = newUser.UserID
	newUser.LastUpdatedBy = newUser.UserID

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		// A concurrent first message may have created the user already.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.userRepo.FindUserByPhone(ctx, phoneNumber)
		}
		s.LogError(ctx, err, "Failed to provision user", slog.String("phone", phoneNumber))
		return nil, err
	}

	s.LogInfo(ctx, "User provisioned on first contact", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}
