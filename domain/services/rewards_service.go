package services

import (
	"context"
	"fmt"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// referralRewardAmount is credited to both sides of a referral
const referralRewardAmount int64 = 100

// rewardsService implements the reward program. Every grant is a
// validation step guarded by a uniqueness constraint, followed by exactly
// one credit through the ledger.
type rewardsService struct {
	uowFactory     interfaces.UnitOfWorkFactory
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewRewardsService creates a new rewards service
func NewRewardsService(uowFactory interfaces.UnitOfWorkFactory, ledger interfaces.LedgerService, eventPublisher interfaces.EventPublisher) interfaces.RewardsService {
	return &rewardsService{
		uowFactory:     uowFactory,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// ClaimDailyBonus grants the streak-based daily bonus. The unique
// (user, claim date) row is the idempotency guard; the credit follows it.
func (s *rewardsService) ClaimDailyBonus(ctx context.Context, userID int64) (*entities.DailyBonusClaim, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	last, err := uow.DailyBonusRepository().GetLastClaim(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check last bonus claim: %w", err)
	}
	if last != nil && last.ClaimDate.Equal(today) {
		return nil, entities.ErrBonusAlreadyClaimed
	}

	claim := &entities.DailyBonusClaim{
		UserID:     userID,
		ClaimDate:  today,
		StreakDays: entities.NextStreak(last, today),
	}
	claim.Amount = entities.DailyBonusAmount(claim.StreakDays)

	if err := uow.DailyBonusRepository().Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to record bonus claim: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	if _, err := s.ledger.CreditTokens(ctx, userID, claim.Amount, entities.TokenSourceDailyBonus, map[string]any{
		"streakDays": claim.StreakDays,
	}); err != nil {
		return nil, fmt.Errorf("failed to credit daily bonus: %w", err)
	}

	s.publish(events.RewardGrantedEvent{
		UserID: userID,
		Source: entities.TokenSourceDailyBonus,
		Amount: claim.Amount,
	})

	return claim, nil
}

// GrantAchievement grants an achievement and its token reward once.
// An already-granted achievement is a quiet no-op.
func (s *rewardsService) GrantAchievement(ctx context.Context, userID int64, achievementID string) (bool, error) {
	def, ok := entities.FindAchievement(achievementID)
	if !ok {
		return false, fmt.Errorf("%w: %s", entities.ErrUnknownAchievement, achievementID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	granted, err := uow.AchievementRepository().Grant(ctx, &entities.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	if !granted {
		return false, nil
	}

	if _, err := s.ledger.CreditTokens(ctx, userID, def.RewardAmount, entities.TokenSourceAchievement, map[string]any{
		"achievementId": achievementID,
	}); err != nil {
		return false, fmt.Errorf("failed to credit achievement reward: %w", err)
	}

	s.publish(events.RewardGrantedEvent{
		UserID: userID,
		Source: entities.TokenSourceAchievement,
		Amount: def.RewardAmount,
	})

	return true, nil
}

// ProcessReferral links the user to the code owner and credits both sides.
// A user may be referred at most once; self-referral is rejected.
func (s *rewardsService) ProcessReferral(ctx context.Context, userID int64, referralCode string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	referrer, err := uow.UserRepository().GetByReferralCode(ctx, referralCode)
	if err != nil {
		return fmt.Errorf("failed to look up referral code: %w", err)
	}
	if referrer == nil {
		return fmt.Errorf("%w: %s", entities.ErrInvalidReferralCode, referralCode)
	}
	if referrer.ID == userID {
		return entities.ErrSelfReferral
	}

	existing, err := uow.ReferralRepository().GetByReferredUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing referral: %w", err)
	}
	if existing != nil {
		return entities.ErrAlreadyReferred
	}

	referral := &entities.Referral{
		ID:             uuid.NewString(),
		ReferrerID:     referrer.ID,
		ReferredUserID: userID,
		ReferralCode:   referralCode,
	}
	if err := uow.ReferralRepository().Create(ctx, referral); err != nil {
		return fmt.Errorf("failed to create referral: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	if _, err := s.ledger.CreditTokens(ctx, referrer.ID, referralRewardAmount, entities.TokenSourceReferral, map[string]any{
		"referredUserId": userID,
		"role":           "referrer",
	}); err != nil {
		return fmt.Errorf("failed to credit referrer: %w", err)
	}
	if _, err := s.ledger.CreditTokens(ctx, userID, referralRewardAmount, entities.TokenSourceReferral, map[string]any{
		"referrerId": referrer.ID,
		"role":       "referred",
	}); err != nil {
		return fmt.Errorf("failed to credit referred user: %w", err)
	}

	s.publish(events.RewardGrantedEvent{
		UserID: referrer.ID,
		Source: entities.TokenSourceReferral,
		Amount: referralRewardAmount,
	})
	s.publish(events.RewardGrantedEvent{
		UserID: userID,
		Source: entities.TokenSourceReferral,
		Amount: referralRewardAmount,
	})

	return nil
}

// ClaimAdReward credits a rewarded ad view, keyed on the provider's
// reference so a replayed callback cannot grant twice
func (s *rewardsService) ClaimAdReward(ctx context.Context, userID int64, provider string, amount int64, referenceID string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", entities.ErrInvalidRewardAmount, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	reward := &entities.AdReward{
		ID:           uuid.NewString(),
		UserID:       userID,
		Provider:     provider,
		RewardAmount: amount,
	}
	if referenceID != "" {
		reward.ReferenceID = &referenceID
	}
	if err := uow.AdRewardRepository().Create(ctx, reward); err != nil {
		return fmt.Errorf("failed to record ad reward: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	if _, err := s.ledger.CreditTokens(ctx, userID, amount, entities.TokenSourceAdReward, map[string]any{
		"provider":    provider,
		"referenceId": referenceID,
	}); err != nil {
		return fmt.Errorf("failed to credit ad reward: %w", err)
	}

	s.publish(events.RewardGrantedEvent{
		UserID: userID,
		Source: entities.TokenSourceAdReward,
		Amount: amount,
	})

	return nil
}

func (s *rewardsService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithField("eventType", event.Type()).WithError(err).Error("Failed to publish event")
	}
}
