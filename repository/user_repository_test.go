package repository

import (
	"context"
	"testing"

	"tokenrush/domain/entities"
	"tokenrush/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, "testuser", 100, "CODE0001")
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, int64(100), user.Balance)
		assert.Equal(t, "CODE0001", user.ReferralCode)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user, err := repo.Create(ctx, 111111, "user1", 100, "CODE1111")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, int64(100), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("duplicate user id", func(t *testing.T) {
		_, err := repo.Create(ctx, 222222, "user2", 100, "CODE2222")
		require.NoError(t, err)

		_, err = repo.Create(ctx, 222222, "other", 100, "CODE2223")
		assert.Error(t, err)
	})

	t.Run("duplicate referral code", func(t *testing.T) {
		_, err := repo.Create(ctx, 333333, "user3", 100, "CODE3333")
		require.NoError(t, err)

		_, err = repo.Create(ctx, 444444, "user4", 100, "CODE3333")
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByReferralCode(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		user, err := repo.GetByReferralCode(ctx, "MISSING1")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("code found", func(t *testing.T) {
		_, err := repo.Create(ctx, 555555, "owner", 100, "OWNER123")
		require.NoError(t, err)

		user, err := repo.GetByReferralCode(ctx, "OWNER123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(555555), user.ID)
	})
}

func TestUserRepository_ApplyBalanceDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("credit and debit", func(t *testing.T) {
		testutil.CreateTestUser(t, testDB.DB, 1001, 100)

		balance, err := repo.ApplyBalanceDelta(ctx, 1001, -30)
		require.NoError(t, err)
		assert.Equal(t, int64(70), balance)

		balance, err = repo.ApplyBalanceDelta(ctx, 1001, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(120), balance)
	})

	t.Run("debit to exactly zero", func(t *testing.T) {
		testutil.CreateTestUser(t, testDB.DB, 1002, 100)

		balance, err := repo.ApplyBalanceDelta(ctx, 1002, -100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("overdraft rejected and balance untouched", func(t *testing.T) {
		testutil.CreateTestUser(t, testDB.DB, 1003, 100)

		_, err := repo.ApplyBalanceDelta(ctx, 1003, -101)
		assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
		assert.Equal(t, int64(100), testutil.GetBalance(t, testDB.DB, 1003))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.ApplyBalanceDelta(ctx, 999999, -10)
		assert.ErrorIs(t, err, entities.ErrUserNotFound)
	})
}

func TestUserRepository_GetTopBalances(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.CreateTestUser(t, testDB.DB, 2001, 50)
	testutil.CreateTestUser(t, testDB.DB, 2002, 500)
	testutil.CreateTestUser(t, testDB.DB, 2003, 200)

	users, err := repo.GetTopBalances(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, int64(2002), users[0].ID)
	assert.Equal(t, int64(2003), users[1].ID)
}
