package repository

import (
	"context"
	"testing"

	"tokenrush/domain/entities"
	"tokenrush/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAppliesAllWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().ApplyBalanceDelta(ctx, 1, -10)
	require.NoError(t, err)

	session := &entities.GameSession{
		ID:        uuid.NewString(),
		UserID:    1,
		GameType:  entities.GameTypeDiceHero,
		BetAmount: 10,
	}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))
	require.NoError(t, uow.TransactionRepository().Append(ctx, &entities.TokenTransaction{
		ID:     uuid.NewString(),
		UserID: 1,
		Amount: -10,
		Source: entities.TokenSourceGameBet,
	}))
	require.NoError(t, uow.Commit())

	assert.Equal(t, int64(90), testutil.GetBalance(t, testDB.DB, 1))
	assert.Equal(t, 1, testutil.CountTransactions(t, testDB.DB, 1))
}

func TestUnitOfWork_RollbackDiscardsAllWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().ApplyBalanceDelta(ctx, 1, -10)
	require.NoError(t, err)
	require.NoError(t, uow.SessionRepository().Create(ctx, &entities.GameSession{
		ID:        uuid.NewString(),
		UserID:    1,
		GameType:  entities.GameTypeDiceHero,
		BetAmount: 10,
	}))
	require.NoError(t, uow.Rollback())

	// Neither the debit nor the session survived
	assert.Equal(t, int64(100), testutil.GetBalance(t, testDB.DB, 1))

	repo := NewSessionRepository(testDB.DB)
	sessions, err := repo.GetByUser(ctx, 1, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestUnitOfWork_RollbackAfterCommitIsNoOp(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.UserRepository().ApplyBalanceDelta(ctx, 1, 25)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	assert.NoError(t, uow.Rollback())
	assert.Equal(t, int64(125), testutil.GetBalance(t, testDB.DB, 1))
}

func TestUnitOfWork_RepositoriesBeforeBeginPanic(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	uow := NewUnitOfWorkFactory(testDB.DB).Create()
	assert.Panics(t, func() { uow.UserRepository() })
}

func TestUnitOfWork_DoubleBeginFails(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	uow := NewUnitOfWorkFactory(testDB.DB).Create()
	ctx := context.Background()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback() }()

	assert.Error(t, uow.Begin(ctx))
}
