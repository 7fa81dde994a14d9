package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(dbPool),
		TransactionRepo: NewTransactionRepository(dbPool),
		CategoryRepo:    NewCategoryRepository(dbPool),
		UserRepo:        NewUserRepository(dbPool),
		TxManager:       &BaseRepository{Pool: dbPool},
	}
}
