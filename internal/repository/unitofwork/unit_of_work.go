package unitofwork

import (
	"context"

	"notebook-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one storage handle. Between Begin and
// Commit/Rollback every repository it hands out shares the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	NotebookStepRepository() contract.NotebookStepRepository
}

// RepositoryFactory hands out a fresh UnitOfWork per operation. Both the gorm
// and the memory drivers implement it.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
