package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
)

// MockTransactionManager is a mock implementation of TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	mock.Mock
	committed  bool
	rolledback bool
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	m.committed = true
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	m.rolledback = true
	return args.Error(0)
}

func (m *MockTransaction) Context() context.Context {
	args := m.Called()
	return args.Get(0).(context.Context)
}

// newMockTx returns a transaction manager that hands out one transaction
// whose context is ctx.
func newMockTx(ctx context.Context) (*MockTransactionManager, *MockTransaction) {
	txMgr := new(MockTransactionManager)
	tx := new(MockTransaction)
	txMgr.On("Begin", ctx).Return(tx, nil)
	tx.On("Context").Return(ctx)
	return txMgr, tx
}

// assertTxOutcome checks how the transaction from newMockTx ended. An
// empty outcome means no transaction was started.
func assertTxOutcome(t *testing.T, txMgr *MockTransactionManager, tx *MockTransaction, outcome string) {
	t.Helper()
	switch outcome {
	case "commit":
		assert.True(t, tx.committed, "expected commit")
		assert.False(t, tx.rolledback, "unexpected rollback")
	case "rollback":
		assert.True(t, tx.rolledback, "expected rollback")
		assert.False(t, tx.committed, "unexpected commit")
	default:
		txMgr.AssertNotCalled(t, "Begin", mock.Anything)
	}
}

type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActorRepository) List(ctx context.Context) ([]*models.Actor, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.([]*models.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

func (m *MockActorRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockActorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if mv := args.Get(0); mv != nil {
		return mv.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	args := m.Called(ctx)
	if mv := args.Get(0); mv != nil {
		return mv.([]*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMovieRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockCastingRepository struct {
	mock.Mock
}

func (m *MockCastingRepository) Create(ctx context.Context, casting *models.Casting) error {
	args := m.Called(ctx, casting)
	return args.Error(0)
}

func (m *MockCastingRepository) GetByID(ctx context.Context, id int64) (*models.Casting, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Casting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCastingRepository) List(ctx context.Context) ([]*models.Casting, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]*models.Casting), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCastingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCastingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
