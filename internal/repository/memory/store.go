package memory

import (
	"context"
	"sync"

	"notebook-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

// state is one consistent version of the data set. Records are stored by
// value so a cloned state never shares mutable data with its origin.
type state struct {
	notebooks  *cache.Cache // notebook id -> entity.Notebook
	steps      *cache.Cache // step id -> entity.NotebookStep
	lastStepId int64
}

func newState() *state {
	return &state{
		notebooks: cache.New(cache.NoExpiration, 0),
		steps:     cache.New(cache.NoExpiration, 0),
	}
}

func (s *state) clone() *state {
	return &state{
		notebooks:  cache.NewFrom(cache.NoExpiration, 0, s.notebooks.Items()),
		steps:      cache.NewFrom(cache.NoExpiration, 0, s.steps.Items()),
		lastStepId: s.lastStepId,
	}
}

// Store is an in-process storage driver. Transactions are serialized by txSem
// and run against a private copy of the committed state, which replaces the
// committed state on Commit and is dropped on Rollback.
type Store struct {
	// txSem holds one token while a transaction or auto-committed write runs.
	txSem chan struct{}

	mu        sync.RWMutex
	committed *state
}

func NewStore() *Store {
	return &Store{
		txSem:     make(chan struct{}, 1),
		committed: newState(),
	}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed.clone()
}

func (s *Store) publish(next *state) {
	s.mu.Lock()
	s.committed = next
	s.mu.Unlock()
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// acquire waits for the transaction token or for ctx to end.
func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.txSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.txSem
}

// autoCommit runs a single write outside an explicit transaction.
func (s *Store) autoCommit(fn func(st *state) error) error {
	s.txSem <- struct{}{}
	defer s.release()

	next := s.snapshot()
	if err := fn(next); err != nil {
		return err
	}
	s.publish(next)
	return nil
}

type RepositoryFactoryImpl struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactoryImpl{store: store}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWorkImpl{store: f.store}
}
