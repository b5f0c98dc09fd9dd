package testhelpers

import (
	"context"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID int64, username string, initialBalance int64, referralCode string) (*entities.User, error) {
	args := m.Called(ctx, userID, username, initialBalance, referralCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) ApplyBalanceDelta(ctx context.Context, userID int64, delta int64) (int64, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetTopBalances(ctx context.Context, limit int) ([]*entities.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.GameSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, sessionID string) (*entities.GameSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSession), args.Error(1)
}

func (m *MockSessionRepository) Finalize(ctx context.Context, sessionID string, result entities.GameResult, payout int64, gameData map[string]any, endedAt time.Time) (*entities.GameSession, error) {
	args := m.Called(ctx, sessionID, result, payout, gameData, endedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameSession), args.Error(1)
}

func (m *MockSessionRepository) GetByUser(ctx context.Context, userID int64, gameType entities.GameType, limit, offset int) ([]*entities.GameSession, error) {
	args := m.Called(ctx, userID, gameType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameSession), args.Error(1)
}

func (m *MockSessionRepository) ListStaleActive(ctx context.Context, cutoff time.Time, limit int) ([]*entities.GameSession, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameSession), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, txn *entities.TokenTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID int64, source entities.TokenSource, limit, offset int) ([]*entities.TokenTransaction, error) {
	args := m.Called(ctx, userID, source, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TokenTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDailyBonusRepository is a mock implementation of DailyBonusRepository
type MockDailyBonusRepository struct {
	mock.Mock
}

func (m *MockDailyBonusRepository) GetLastClaim(ctx context.Context, userID int64) (*entities.DailyBonusClaim, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DailyBonusClaim), args.Error(1)
}

func (m *MockDailyBonusRepository) Create(ctx context.Context, claim *entities.DailyBonusClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

// MockAchievementRepository is a mock implementation of AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) Grant(ctx context.Context, grant *entities.UserAchievement) (bool, error) {
	args := m.Called(ctx, grant)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.UserAchievement), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) GetByReferredUser(ctx context.Context, referredUserID int64) (*entities.Referral, error) {
	args := m.Called(ctx, referredUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) CountByReferrer(ctx context.Context, referrerID int64) (int64, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdRewardRepository is a mock implementation of AdRewardRepository
type MockAdRewardRepository struct {
	mock.Mock
}

func (m *MockAdRewardRepository) Create(ctx context.Context, reward *entities.AdReward) error {
	args := m.Called(ctx, reward)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// StubUnitOfWork implements UnitOfWork over a bundle of repository mocks.
// Begin, Commit and Rollback do no transactional work; the error fields let
// a test fail any of them on demand.
type StubUnitOfWork struct {
	UserRepo        *MockUserRepository
	SessionRepo     *MockSessionRepository
	TransactionRepo *MockTransactionRepository
	DailyBonusRepo  *MockDailyBonusRepository
	AchievementRepo *MockAchievementRepository
	ReferralRepo    *MockReferralRepository
	AdRewardRepo    *MockAdRewardRepository

	BeginErr  error
	CommitErr error

	Begun      int
	Committed  int
	RolledBack int
}

// NewStubUnitOfWork creates a stub unit of work with fresh mocks
func NewStubUnitOfWork() *StubUnitOfWork {
	return &StubUnitOfWork{
		UserRepo:        &MockUserRepository{},
		SessionRepo:     &MockSessionRepository{},
		TransactionRepo: &MockTransactionRepository{},
		DailyBonusRepo:  &MockDailyBonusRepository{},
		AchievementRepo: &MockAchievementRepository{},
		ReferralRepo:    &MockReferralRepository{},
		AdRewardRepo:    &MockAdRewardRepository{},
	}
}

func (u *StubUnitOfWork) Begin(ctx context.Context) error {
	if u.BeginErr != nil {
		return u.BeginErr
	}
	u.Begun++
	return nil
}

func (u *StubUnitOfWork) Commit() error {
	if u.CommitErr != nil {
		return u.CommitErr
	}
	u.Committed++
	return nil
}

func (u *StubUnitOfWork) Rollback() error {
	u.RolledBack++
	return nil
}

func (u *StubUnitOfWork) UserRepository() interfaces.UserRepository {
	return u.UserRepo
}

func (u *StubUnitOfWork) SessionRepository() interfaces.SessionRepository {
	return u.SessionRepo
}

func (u *StubUnitOfWork) TransactionRepository() interfaces.TransactionRepository {
	return u.TransactionRepo
}

func (u *StubUnitOfWork) DailyBonusRepository() interfaces.DailyBonusRepository {
	return u.DailyBonusRepo
}

func (u *StubUnitOfWork) AchievementRepository() interfaces.AchievementRepository {
	return u.AchievementRepo
}

func (u *StubUnitOfWork) ReferralRepository() interfaces.ReferralRepository {
	return u.ReferralRepo
}

func (u *StubUnitOfWork) AdRewardRepository() interfaces.AdRewardRepository {
	return u.AdRewardRepo
}

// StubUnitOfWorkFactory hands out the same stub for every Create call so a
// test can set expectations once and inspect them afterwards
type StubUnitOfWorkFactory struct {
	UnitOfWork *StubUnitOfWork
}

// NewStubUnitOfWorkFactory creates a factory around a fresh stub
func NewStubUnitOfWorkFactory() *StubUnitOfWorkFactory {
	return &StubUnitOfWorkFactory{UnitOfWork: NewStubUnitOfWork()}
}

func (f *StubUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UnitOfWork
}

// AssertAllExpectations verifies every repository mock's expectations
func (u *StubUnitOfWork) AssertAllExpectations(t mock.TestingT) {
	u.UserRepo.AssertExpectations(t)
	u.SessionRepo.AssertExpectations(t)
	u.TransactionRepo.AssertExpectations(t)
	u.DailyBonusRepo.AssertExpectations(t)
	u.AchievementRepo.AssertExpectations(t)
	u.ReferralRepo.AssertExpectations(t)
	u.AdRewardRepo.AssertExpectations(t)
}
