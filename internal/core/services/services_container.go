package services

import (
	"time"

	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
)

// ContainerDeps bundles everything the service container needs. Repositories
// and the classifier are constructed once at process start and injected;
// nothing in the core reaches for ambient singletons.
type ContainerDeps struct {
	AccountRepo  portsrepo.AccountRepositoryFacade
	TxnRepo      portsrepo.TransactionRepositoryFacade
	CategoryRepo portsrepo.CategoryRepositoryFacade
	UserRepo     portsrepo.UserRepositoryFacade
	TxManager    portsrepo.TransactionManager
	Classifier   portssvc.TransactionClassifier

	JWTSecret       string
	JWTExpiry       time.Duration
	JWTIssuer       string
	DefaultTimezone string
}

// NewServiceContainer wires up all application services.
func NewServiceContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(deps.AccountRepo)
	userSvc := NewUserService(deps.UserRepo)
	authSvc := NewAuthService(deps.UserRepo, deps.JWTSecret, deps.JWTExpiry, deps.JWTIssuer)
	streakSvc := NewStreakTracker(deps.UserRepo, deps.DefaultTimezone)
	reconciler := NewReconciliationMatcher(deps.TxnRepo, deps.AccountRepo, deps.TxManager)

	ledgerSvc := NewLedgerService(
		deps.AccountRepo,
		deps.TxnRepo,
		deps.CategoryRepo,
		deps.UserRepo,
		deps.TxManager,
		accountSvc,
		deps.Classifier,
		reconciler,
		streakSvc,
	)

	return &portssvc.ServiceContainer{
		Account:    accountSvc,
		User:       userSvc,
		Auth:       authSvc,
		Ledger:     ledgerSvc,
		Classifier: deps.Classifier,
	}
}
