package services

import (
	"context"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
)

// UserSvcFacade exposes user lookup and provisioning.
type UserSvcFacade interface {
	// GetUserByID fetches a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetOrCreateByPhone resolves the sender identity coming from the
	// messaging transport, provisioning a user on first contact.
	GetOrCreateByPhone(ctx context.Context, phoneNumber string, timezone string) (*domain.User, error)
}

// AuthSvcFacade issues bearer tokens for the HTTP surface.
type AuthSvcFacade interface {
	// Login verifies credentials and returns a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
