package repository

import (
	"context"
	"testing"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveSession(t *testing.T, repo *SessionRepository, userID int64, gameType entities.GameType, bet int64) *entities.GameSession {
	session := &entities.GameSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		GameType:  gameType,
		BetAmount: bet,
		GameData:  map[string]any{"chosenNumber": 4},
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	t.Run("session not found", func(t *testing.T) {
		session, err := repo.GetByID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("roundtrip", func(t *testing.T) {
		created := newActiveSession(t, repo, 1, entities.GameTypeDiceHero, 10)

		session, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, session)

		assert.Equal(t, entities.SessionStatusActive, session.Status)
		assert.Nil(t, session.Result)
		assert.Nil(t, session.EndedAt)
		assert.Equal(t, int64(10), session.BetAmount)
		assert.Equal(t, float64(4), session.GameData["chosenNumber"])
		assert.False(t, session.StartedAt.IsZero())
	})
}

func TestSessionRepository_Finalize(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	t.Run("settles an active session", func(t *testing.T) {
		created := newActiveSession(t, repo, 1, entities.GameTypeDiceHero, 10)

		session, err := repo.Finalize(ctx, created.ID, entities.GameResultWin, 50,
			map[string]any{"rolled": 4}, time.Now().UTC())
		require.NoError(t, err)

		assert.Equal(t, entities.SessionStatusCompleted, session.Status)
		require.NotNil(t, session.Result)
		assert.Equal(t, entities.GameResultWin, *session.Result)
		assert.Equal(t, int64(50), session.Payout)
		require.NotNil(t, session.EndedAt)
		// Outcome detail merges into the original game data
		assert.Equal(t, float64(4), session.GameData["chosenNumber"])
		assert.Equal(t, float64(4), session.GameData["rolled"])
	})

	t.Run("second finalize fails", func(t *testing.T) {
		created := newActiveSession(t, repo, 1, entities.GameTypeCrashMaster, 25)

		_, err := repo.Finalize(ctx, created.ID, entities.GameResultLoss, 0, nil, time.Now().UTC())
		require.NoError(t, err)

		_, err = repo.Finalize(ctx, created.ID, entities.GameResultWin, 100, nil, time.Now().UTC())
		assert.ErrorIs(t, err, entities.ErrSessionAlreadyFinalized)

		// The first settlement survives untouched
		session, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.GameResultLoss, *session.Result)
		assert.Equal(t, int64(0), session.Payout)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := repo.Finalize(ctx, uuid.NewString(), entities.GameResultLoss, 0, nil, time.Now().UTC())
		assert.ErrorIs(t, err, entities.ErrSessionNotFound)
	})
}

func TestSessionRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)
	testutil.CreateTestUser(t, testDB.DB, 2, 100)

	newActiveSession(t, repo, 1, entities.GameTypeDiceHero, 10)
	newActiveSession(t, repo, 1, entities.GameTypeCrashMaster, 20)
	newActiveSession(t, repo, 2, entities.GameTypeDiceHero, 30)

	t.Run("all games for user", func(t *testing.T) {
		sessions, err := repo.GetByUser(ctx, 1, "", 10, 0)
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("filtered by game type", func(t *testing.T) {
		sessions, err := repo.GetByUser(ctx, 1, entities.GameTypeDiceHero, 10, 0)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, entities.GameTypeDiceHero, sessions[0].GameType)
	})

	t.Run("other user's sessions excluded", func(t *testing.T) {
		sessions, err := repo.GetByUser(ctx, 2, "", 10, 0)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, int64(30), sessions[0].BetAmount)
	})
}

func TestSessionRepository_ListStaleActive(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSessionRepository(testDB.DB)
	ctx := context.Background()
	testutil.CreateTestUser(t, testDB.DB, 1, 100)

	fresh := newActiveSession(t, repo, 1, entities.GameTypeDiceHero, 10)
	settled := newActiveSession(t, repo, 1, entities.GameTypeDiceHero, 10)
	_, err := repo.Finalize(ctx, settled.ID, entities.GameResultLoss, 0, nil, time.Now().UTC())
	require.NoError(t, err)

	t.Run("nothing stale yet", func(t *testing.T) {
		stale, err := repo.ListStaleActive(ctx, time.Now().UTC().Add(-time.Hour), 10)
		require.NoError(t, err)
		assert.Empty(t, stale)
	})

	t.Run("active session past cutoff is flagged", func(t *testing.T) {
		stale, err := repo.ListStaleActive(ctx, time.Now().UTC().Add(time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, fresh.ID, stale[0].ID)
	})
}
