package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	userID   string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:     "Ahorros",
		Kind:     domain.Savings,
		Currency: "COP",
	}

	existingDefault := &domain.Account{AccountID: uuid.NewString(), UserID: suite.userID, IsDefault: true}
	suite.mockRepo.On("FindDefaultAccount", ctx, suite.userID).Return(existingDefault, nil).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(req.Name, created.Name)
	suite.Equal(req.Kind, created.Kind)
	suite.True(created.IsActive)
	suite.False(created.IsDefault)
	suite.True(created.Balance.IsZero())
	suite.Equal(suite.userID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_FirstAccountBecomesDefault() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:     "Efectivo",
		Kind:     domain.Cash,
		Currency: "COP",
		// Deliberately not requesting default.
	}

	suite.mockRepo.On("FindDefaultAccount", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.IsDefault
	})).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(created.IsDefault)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CreditLimitOnlyForCreditCards() {
	ctx := context.Background()
	limit := decimal.NewFromInt(1000000)
	req := dto.CreateAccountRequest{
		Name:        "Ahorros",
		Kind:        domain.Savings,
		Currency:    "COP",
		CreditLimit: &limit,
	}

	_, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherUsersAccountLooksMissing() {
	ctx := context.Background()
	account := &domain.Account{
		AccountID: uuid.NewString(),
		UserID:    uuid.NewString(), // different owner
		Kind:      domain.Cash,
	}
	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, suite.userID, account.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateDefaultAccount_ReturnsExisting() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: uuid.NewString(), UserID: suite.userID, IsDefault: true}
	suite.mockRepo.On("FindDefaultAccount", ctx, suite.userID).Return(existing, nil).Once()

	account, err := suite.service.GetOrCreateDefaultAccount(ctx, suite.userID, "COP")

	suite.Require().NoError(err)
	suite.Equal(existing.AccountID, account.AccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateDefaultAccount_ProvisionsCashAccount() {
	ctx := context.Background()
	// Two lookups: one from GetOrCreateDefaultAccount, one inside CreateAccount.
	suite.mockRepo.On("FindDefaultAccount", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Kind == domain.Cash && a.IsDefault && a.Currency == "COP"
	})).Return(nil).Once()

	account, err := suite.service.GetOrCreateDefaultAccount(ctx, suite.userID, "COP")

	suite.Require().NoError(err)
	suite.Equal(domain.Cash, account.Kind)
	suite.True(account.IsDefault)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_VerifiesOwnershipFirst() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), UserID: suite.userID, Kind: domain.Cash}
	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("DeactivateAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, suite.userID, account.AccountID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
