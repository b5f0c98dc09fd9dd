package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
	"tokenrush/domain/games"
	"tokenrush/domain/interfaces"
	"tokenrush/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLedger() (interfaces.LedgerService, *testhelpers.StubUnitOfWork, *testhelpers.MockEventPublisher) {
	factory := testhelpers.NewStubUnitOfWorkFactory()
	publisher := new(testhelpers.MockEventPublisher)
	ledger := NewLedgerService(factory, publisher, games.DefaultConfigs())
	return ledger, factory.UnitOfWork, publisher
}

func expectEvent(publisher *testhelpers.MockEventPublisher, eventType events.EventType) {
	publisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == eventType
	})).Return(nil)
}

func TestDebitWagerDebitsAndOpensSession(t *testing.T) {
	ledger, uow, publisher := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(-10)).Return(int64(90), nil)
	uow.SessionRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *entities.GameSession) bool {
		return s.UserID == 1 &&
			s.GameType == entities.GameTypeDiceHero &&
			s.BetAmount == 10 &&
			s.Status == entities.SessionStatusActive &&
			s.ID != ""
	})).Return(nil)
	uow.TransactionRepo.On("Append", mock.Anything, mock.MatchedBy(func(txn *entities.TokenTransaction) bool {
		return txn.UserID == 1 && txn.Amount == -10 && txn.Source == entities.TokenSourceGameBet
	})).Return(nil)
	expectEvent(publisher, events.EventTypeBalanceChange)

	sessionID, err := ledger.DebitWager(ctx, 1, entities.GameTypeDiceHero, 10, map[string]any{"chosenNumber": 4})
	require.NoError(t, err)

	assert.NotEmpty(t, sessionID)
	assert.Equal(t, 1, uow.Committed)
	uow.AssertAllExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDebitWagerInsufficientBalance(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(-500)).
		Return(int64(0), entities.ErrInsufficientBalance)

	_, err := ledger.DebitWager(ctx, 1, entities.GameTypeDiceHero, 500, map[string]any{"chosenNumber": 4})
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	assert.Equal(t, 0, uow.Committed)
	assert.Equal(t, 1, uow.RolledBack)
}

func TestDebitWagerRejectsOutOfBoundsBets(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	// DiceHero accepts 1 to 1000 tokens
	_, err := ledger.DebitWager(ctx, 1, entities.GameTypeDiceHero, 0, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidBetAmount)

	_, err = ledger.DebitWager(ctx, 1, entities.GameTypeDiceHero, 1001, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidBetAmount)

	// Validation fails before any transaction is opened
	assert.Equal(t, 0, uow.Begun)
}

func TestDebitWagerUnknownGame(t *testing.T) {
	ledger, _, _ := newTestLedger()

	_, err := ledger.DebitWager(context.Background(), 1, entities.GameType("roulette"), 10, nil)
	assert.ErrorIs(t, err, games.ErrUnknownGame)
}

func TestDebitWagerSessionCreateFailureRollsBackDebit(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(-10)).Return(int64(90), nil)
	uow.SessionRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := ledger.DebitWager(ctx, 1, entities.GameTypeDiceHero, 10, nil)
	require.Error(t, err)

	// The debit never commits without its session
	assert.Equal(t, 0, uow.Committed)
	assert.Equal(t, 1, uow.RolledBack)
}

func TestFinalizeSessionWinCreditsPayout(t *testing.T) {
	ledger, uow, publisher := newTestLedger()
	ctx := context.Background()

	settled := &entities.GameSession{
		ID:        "session-1",
		UserID:    1,
		GameType:  entities.GameTypeDiceHero,
		BetAmount: 10,
		Status:    entities.SessionStatusCompleted,
		Payout:    50,
	}
	uow.SessionRepo.On("Finalize", mock.Anything, "session-1", entities.GameResultWin, int64(50), mock.Anything, mock.AnythingOfType("time.Time")).
		Return(settled, nil)
	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(50)).Return(int64(140), nil)
	uow.TransactionRepo.On("Append", mock.Anything, mock.MatchedBy(func(txn *entities.TokenTransaction) bool {
		return txn.UserID == 1 && txn.Amount == 50 && txn.Source == entities.TokenSourceGameWin
	})).Return(nil)
	expectEvent(publisher, events.EventTypeBalanceChange)
	expectEvent(publisher, events.EventTypeSessionSettled)

	err := ledger.FinalizeSession(ctx, "session-1", entities.GameResultWin, 50, map[string]any{"rolled": 4})
	require.NoError(t, err)

	assert.Equal(t, 1, uow.Committed)
	uow.AssertAllExpectations(t)
	publisher.AssertExpectations(t)
}

func TestFinalizeSessionLossMovesNoTokens(t *testing.T) {
	ledger, uow, publisher := newTestLedger()
	ctx := context.Background()

	settled := &entities.GameSession{
		ID:        "session-2",
		UserID:    1,
		GameType:  entities.GameTypeCrashMaster,
		BetAmount: 25,
		Status:    entities.SessionStatusCompleted,
	}
	uow.SessionRepo.On("Finalize", mock.Anything, "session-2", entities.GameResultLoss, int64(0), mock.Anything, mock.AnythingOfType("time.Time")).
		Return(settled, nil)
	expectEvent(publisher, events.EventTypeSessionSettled)

	err := ledger.FinalizeSession(ctx, "session-2", entities.GameResultLoss, 0, nil)
	require.NoError(t, err)

	// No credit, no transaction log entry, no balance change event
	uow.UserRepo.AssertNotCalled(t, "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything)
	uow.TransactionRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	publisher.AssertExpectations(t)
}

func TestFinalizeSessionSecondCallFails(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	uow.SessionRepo.On("Finalize", mock.Anything, "session-3", entities.GameResultLoss, int64(0), mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, entities.ErrSessionAlreadyFinalized)

	err := ledger.FinalizeSession(ctx, "session-3", entities.GameResultLoss, 0, nil)
	assert.ErrorIs(t, err, entities.ErrSessionAlreadyFinalized)
	assert.Equal(t, 0, uow.Committed)
}

func TestFinalizeSessionRejectsBadArguments(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	err := ledger.FinalizeSession(ctx, "session-4", entities.GameResult("draw"), 0, nil)
	assert.Error(t, err)

	err = ledger.FinalizeSession(ctx, "session-4", entities.GameResultWin, -5, nil)
	assert.Error(t, err)

	assert.Equal(t, 0, uow.Begun)
}

func TestFinalizeSessionCreditFailureRollsBackTransition(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	settled := &entities.GameSession{
		ID:       "session-5",
		UserID:   1,
		GameType: entities.GameTypeLimboLeap,
	}
	uow.SessionRepo.On("Finalize", mock.Anything, "session-5", entities.GameResultWin, int64(30), mock.Anything, mock.AnythingOfType("time.Time")).
		Return(settled, nil)
	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(30)).
		Return(int64(0), errors.New("connection reset"))

	err := ledger.FinalizeSession(ctx, "session-5", entities.GameResultWin, 30, nil)
	require.Error(t, err)

	assert.Equal(t, 0, uow.Committed)
	assert.Equal(t, 1, uow.RolledBack)
}

func TestCreditTokensAppendsLogEntry(t *testing.T) {
	ledger, uow, publisher := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(50)).Return(int64(150), nil)
	uow.TransactionRepo.On("Append", mock.Anything, mock.MatchedBy(func(txn *entities.TokenTransaction) bool {
		return txn.UserID == 1 && txn.Amount == 50 && txn.Source == entities.TokenSourceDailyBonus
	})).Return(nil)
	expectEvent(publisher, events.EventTypeBalanceChange)

	newBalance, err := ledger.CreditTokens(ctx, 1, 50, entities.TokenSourceDailyBonus, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(150), newBalance)
	// Balance commit and log append each run in their own transaction
	assert.Equal(t, 2, uow.Committed)
	uow.AssertAllExpectations(t)
}

func TestCreditTokensLogFailureKeepsCredit(t *testing.T) {
	ledger, uow, publisher := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("ApplyBalanceDelta", mock.Anything, int64(1), int64(50)).Return(int64(150), nil)
	uow.TransactionRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("log unavailable"))
	expectEvent(publisher, events.EventTypeBalanceChange)
	expectEvent(publisher, events.EventTypeAuditGap)

	newBalance, err := ledger.CreditTokens(ctx, 1, 50, entities.TokenSourceAchievement, nil)

	// The committed credit stands even though the log append failed
	require.NoError(t, err)
	assert.Equal(t, int64(150), newBalance)
	assert.Equal(t, 1, uow.Committed)
	publisher.AssertExpectations(t)
}

func TestCreditTokensRejectsNegativeAmount(t *testing.T) {
	ledger, uow, _ := newTestLedger()

	_, err := ledger.CreditTokens(context.Background(), 1, -10, entities.TokenSourceAdReward, nil)
	assert.ErrorIs(t, err, entities.ErrInvalidRewardAmount)
	assert.Equal(t, 0, uow.Begun)
}

func TestCreditTokensZeroIsNoOp(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	uow.UserRepo.On("GetByID", mock.Anything, int64(1)).Return(&entities.User{ID: 1, Balance: 75}, nil)

	balance, err := ledger.CreditTokens(ctx, 1, 0, entities.TokenSourceAdReward, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(75), balance)
	assert.Equal(t, 0, uow.Committed)
	uow.UserRepo.AssertNotCalled(t, "ApplyBalanceDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBalanceUnknownUser(t *testing.T) {
	ledger, uow, _ := newTestLedger()

	uow.UserRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	_, err := ledger.GetBalance(context.Background(), 404)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestGetSessionHistoryPassesFilter(t *testing.T) {
	ledger, uow, _ := newTestLedger()
	ctx := context.Background()

	sessions := []*entities.GameSession{{ID: "s1", UserID: 1, GameType: entities.GameTypeCrashMaster, StartedAt: time.Now()}}
	uow.SessionRepo.On("GetByUser", mock.Anything, int64(1), entities.GameTypeCrashMaster, 10, 0).Return(sessions, nil)

	got, err := ledger.GetSessionHistory(ctx, 1, entities.GameTypeCrashMaster, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
