package cmd

import (
	"context"
	"fmt"
	"time"

	"tokenrush/application"
	"tokenrush/config"
	"tokenrush/database"
	"tokenrush/domain/games"
	"tokenrush/domain/interfaces"
	"tokenrush/domain/services"
	"tokenrush/infrastructure"
	"tokenrush/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting tokenrush...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	var eventPublisher interfaces.EventPublisher
	nc, err := infrastructure.ConnectNATS(cfg.NATSURL, cfg.NATSToken)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if nc != nil {
		eventPublisher = infrastructure.NewNATSEventPublisher(nc)
	} else {
		log.Warn("No NATS URL configured, events will be discarded")
		eventPublisher = infrastructure.NewNoopEventPublisher()
	}

	uowFactory := repository.NewUnitOfWorkFactory(db)

	configs := games.DefaultConfigs()
	ledger := services.NewLedgerService(uowFactory, eventPublisher, configs)
	rewards := services.NewRewardsService(uowFactory, ledger, eventPublisher)
	users := services.NewUserService(uowFactory, eventPublisher, cfg.StartingBalance)
	registry := games.NewRegistry(configs)
	play := application.NewPlayService(registry, ledger)

	if nc != nil {
		handler := infrastructure.NewNATSCommandHandler(nc, play, ledger, rewards, users)
		go func() {
			if err := handler.Start(ctx); err != nil {
				log.WithError(err).Error("NATS command handler failed")
			}
		}()
	}

	sweeper := application.NewSessionSweeper(uowFactory, eventPublisher, cfg.MaxSessionAge, cfg.SweepInterval)
	go sweeper.Start(ctx)

	log.WithField("environment", cfg.Environment).Info("tokenrush is running")
	<-ctx.Done()

	log.Info("Shutting down...")

	if nc != nil {
		if err := nc.Drain(); err != nil {
			log.WithError(err).Error("Error draining NATS connection")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
