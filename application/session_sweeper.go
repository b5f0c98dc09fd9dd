package application

import (
	"context"
	"time"

	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// sweepBatchSize bounds how many stale sessions one sweep inspects
const sweepBatchSize = 100

// SessionSweeper periodically flags sessions that were debited but never
// settled. It only detects and reports; refunds stay a manual decision
// because an unsettled session may still be a game in flight on a slow
// client.
type SessionSweeper struct {
	uowFactory     interfaces.UnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
	maxSessionAge  time.Duration
	interval       time.Duration
}

// NewSessionSweeper creates a sweeper flagging sessions older than
// maxSessionAge every interval
func NewSessionSweeper(uowFactory interfaces.UnitOfWorkFactory, eventPublisher interfaces.EventPublisher, maxSessionAge, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		maxSessionAge:  maxSessionAge,
		interval:       interval,
	}
}

// Start runs the sweep loop until the context is cancelled
func (s *SessionSweeper) Start(ctx context.Context) {
	log.WithFields(log.Fields{
		"maxSessionAge": s.maxSessionAge,
		"interval":      s.interval,
	}).Info("Session sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.WithError(err).Error("Session sweep failed")
			}
		}
	}
}

// Sweep flags every active session older than the configured age
func (s *SessionSweeper) Sweep(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback() }()

	cutoff := time.Now().UTC().Add(-s.maxSessionAge)
	stale, err := uow.SessionRepository().ListStaleActive(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, session := range stale {
		age := session.Age(now)
		log.WithFields(log.Fields{
			"sessionId": session.ID,
			"userId":    session.UserID,
			"gameType":  session.GameType,
			"betAmount": session.BetAmount,
			"age":       age.Round(time.Second),
		}).Warn("Stale active session detected")

		event := events.StaleSessionEvent{
			SessionID:  session.ID,
			UserID:     session.UserID,
			GameType:   session.GameType,
			BetAmount:  session.BetAmount,
			AgeSeconds: int64(age.Seconds()),
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithField("sessionId", session.ID).WithError(err).Error("Failed to publish stale session event")
		}
	}

	return nil
}
