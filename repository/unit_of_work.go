package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface over a single pgx
// transaction. All repositories handed out by a unit of work share the
// transaction, so their writes commit or roll back together.
type unitOfWork struct {
	db  *database.DB
	tx  pgx.Tx
	ctx context.Context

	userRepo        interfaces.UserRepository
	sessionRepo     interfaces.SessionRepository
	transactionRepo interfaces.TransactionRepository
	dailyBonusRepo  interfaces.DailyBonusRepository
	achievementRepo interfaces.AchievementRepository
	referralRepo    interfaces.ReferralRepository
	adRewardRepo    interfaces.AdRewardRepository
}

type unitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Create creates a new UnitOfWork
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepository(tx)
	u.sessionRepo = newSessionRepository(tx)
	u.transactionRepo = newTransactionRepository(tx)
	u.dailyBonusRepo = newDailyBonusRepository(tx)
	u.achievementRepo = newAchievementRepository(tx)
	u.referralRepo = newReferralRepository(tx)
	u.adRewardRepo = newAdRewardRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil
	return nil
}

// Rollback rolls back the transaction. Calling it after Commit is a no-op,
// which lets callers defer it unconditionally.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	u.tx = nil
	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// SessionRepository returns the session repository for this unit of work
func (u *unitOfWork) SessionRepository() interfaces.SessionRepository {
	if u.sessionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.sessionRepo
}

// TransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// DailyBonusRepository returns the daily bonus repository for this unit of work
func (u *unitOfWork) DailyBonusRepository() interfaces.DailyBonusRepository {
	if u.dailyBonusRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.dailyBonusRepo
}

// AchievementRepository returns the achievement repository for this unit of work
func (u *unitOfWork) AchievementRepository() interfaces.AchievementRepository {
	if u.achievementRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.achievementRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// AdRewardRepository returns the ad reward repository for this unit of work
func (u *unitOfWork) AdRewardRepository() interfaces.AdRewardRepository {
	if u.adRewardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.adRewardRepo
}
