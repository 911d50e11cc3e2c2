package memory

import (
	"context"
	"fmt"

	"notebook-be/internal/repository/contract"
)

type UnitOfWorkImpl struct {
	store *Store
	tx    *state
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	if err := u.store.acquire(ctx); err != nil {
		return err
	}
	u.tx = u.store.snapshot()
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.store.publish(u.tx)
	u.tx = nil
	u.store.release()
	return nil
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.tx = nil
	u.store.release()
	return nil
}

func (u *UnitOfWorkImpl) NotebookRepository() contract.NotebookRepository {
	return &NotebookRepositoryImpl{access: access{store: u.store, tx: u.tx}}
}

func (u *UnitOfWorkImpl) NotebookStepRepository() contract.NotebookStepRepository {
	return &NotebookStepRepositoryImpl{access: access{store: u.store, tx: u.tx}}
}

// access routes repository calls to the open transaction, or to the committed
// state when none is open.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	return a.store.read(fn)
}

func (a access) write(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	return a.store.autoCommit(fn)
}
