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
)

type ReconciliationMatcherTestSuite struct {
	suite.Suite
	txnRepo     *MockTransactionRepository
	accountRepo *MockAccountRepository
	txManager   *MockTxManager
	matcher     portssvc.ReconciliationSvc

	userID string
}

func (suite *ReconciliationMatcherTestSuite) SetupTest() {
	suite.txnRepo = new(MockTransactionRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.txManager = new(MockTxManager)
	suite.matcher = services.NewReconciliationMatcher(suite.txnRepo, suite.accountRepo, suite.txManager)
	suite.userID = uuid.NewString()
}

func (suite *ReconciliationMatcherTestSuite) pendingTxn(description string, amount int64) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		AccountID:     uuid.NewString(),
		Type:          domain.Expense,
		Amount:        decimal.NewFromInt(amount),
		Currency:      "COP",
		Description:   description,
		Status:        domain.StatusPending,
	}
}

func (suite *ReconciliationMatcherTestSuite) TestFindPendingMatch_CaseInsensitiveSubstring() {
	pending := suite.pendingTxn("Cena con Camila", 50000)
	suite.txnRepo.On("FindPendingByUser", mock.Anything, suite.userID).
		Return([]domain.Transaction{pending}, nil).Once()

	match, err := suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(50000), "CENA")

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.Equal(pending.TransactionID, match.TransactionID)
}

func (suite *ReconciliationMatcherTestSuite) TestFindPendingMatch_AmountWithinTolerance() {
	pending := suite.pendingTxn("cena", 50000)
	suite.txnRepo.On("FindPendingByUser", mock.Anything, suite.userID).
		Return([]domain.Transaction{pending}, nil).Times(3)

	// Exactly at the +10% edge: 55000.
	match, err := suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(55000), "cena")
	suite.Require().NoError(err)
	suite.NotNil(match)

	// At the -10% edge: 45000.
	match, err = suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(45000), "cena")
	suite.Require().NoError(err)
	suite.NotNil(match)

	// Just outside the window.
	match, err = suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(55001), "cena")
	suite.Require().NoError(err)
	suite.Nil(match)
}

func (suite *ReconciliationMatcherTestSuite) TestFindPendingMatch_TakesEarliestOfAmbiguous() {
	first := suite.pendingTxn("cena viernes", 50000)
	second := suite.pendingTxn("cena sabado", 50000)
	// Repo contract: earliest created first.
	suite.txnRepo.On("FindPendingByUser", mock.Anything, suite.userID).
		Return([]domain.Transaction{first, second}, nil).Once()

	match, err := suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(50000), "cena")

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.Equal(first.TransactionID, match.TransactionID)
}

func (suite *ReconciliationMatcherTestSuite) TestFindPendingMatch_EmptyFragmentMatchesNothing() {
	match, err := suite.matcher.FindPendingMatch(context.Background(), suite.userID, decimal.NewFromInt(100), "   ")

	suite.Require().NoError(err)
	suite.Nil(match)
	suite.txnRepo.AssertNotCalled(suite.T(), "FindPendingByUser", mock.Anything, mock.Anything)
}

func (suite *ReconciliationMatcherTestSuite) TestResolveMatch_CompletesAndAppliesDelta() {
	pending := suite.pendingTxn("cena", 50000)
	account := &domain.Account{
		AccountID: pending.AccountID,
		UserID:    suite.userID,
		Kind:      domain.Cash,
		Balance:   decimal.NewFromInt(100000),
	}
	now := time.Now().UTC()

	suite.txManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.txManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.txnRepo.On("CompletePendingInTx", mock.Anything, mock.Anything, pending.TransactionID, now, suite.userID).Return(nil).Once()
	suite.accountRepo.On("ApplyBalanceDeltaInTx", mock.Anything, mock.Anything, account.AccountID, pending.Amount.Neg(), false, suite.userID, now).
		Return(nil).Once()
	suite.txManager.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.matcher.ResolveMatch(context.Background(), &pending, account, now)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, pending.Status)
	suite.Equal(now, pending.TransactionDate)
	suite.txnRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
	suite.txManager.AssertExpectations(suite.T())
}

func (suite *ReconciliationMatcherTestSuite) TestResolveMatch_ConflictLeavesBalanceAlone() {
	pending := suite.pendingTxn("cena", 50000)
	account := &domain.Account{AccountID: pending.AccountID, UserID: suite.userID, Kind: domain.Cash}
	now := time.Now().UTC()

	suite.txManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.txManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.txnRepo.On("CompletePendingInTx", mock.Anything, mock.Anything, pending.TransactionID, now, suite.userID).
		Return(apperrors.ErrConflict).Once()

	err := suite.matcher.ResolveMatch(context.Background(), &pending, account, now)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(domain.StatusPending, pending.Status)
	suite.accountRepo.AssertNotCalled(suite.T(), "ApplyBalanceDeltaInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.txManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationMatcherTestSuite) TestResolveMatch_BalanceFailureRollsBackCompletion() {
	pending := suite.pendingTxn("cena", 50000)
	account := &domain.Account{
		AccountID: pending.AccountID,
		UserID:    suite.userID,
		Kind:      domain.Cash,
		Balance:   decimal.NewFromInt(100000),
	}
	now := time.Now().UTC()

	suite.txManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.txManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.txnRepo.On("CompletePendingInTx", mock.Anything, mock.Anything, pending.TransactionID, now, suite.userID).Return(nil).Once()
	suite.accountRepo.On("ApplyBalanceDeltaInTx", mock.Anything, mock.Anything, account.AccountID, pending.Amount.Neg(), false, suite.userID, now).
		Return(apperrors.ErrPersistence).Once()

	err := suite.matcher.ResolveMatch(context.Background(), &pending, account, now)

	suite.Require().ErrorIs(err, apperrors.ErrPersistence)
	// The completion rolls back with the failed balance update; the row
	// stays pending and nothing commits.
	suite.Equal(domain.StatusPending, pending.Status)
	suite.txManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.txManager.AssertExpectations(suite.T())
}

func (suite *ReconciliationMatcherTestSuite) TestResolveMatch_RejectsAccountMismatch() {
	pending := suite.pendingTxn("cena", 50000)
	other := &domain.Account{AccountID: uuid.NewString(), UserID: suite.userID, Kind: domain.Cash}

	err := suite.matcher.ResolveMatch(context.Background(), &pending, other, time.Now().UTC())

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.txManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.txnRepo.AssertNotCalled(suite.T(), "CompletePendingInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconciliationMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationMatcherTestSuite))
}
