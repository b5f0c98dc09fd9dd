package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"tokenrush/cmd"
	"tokenrush/config"
	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error: ", err)
		}
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "adjust-balance" {
		if err := handleBalanceAdjustment(); err != nil {
			log.Fatal("Balance adjustment error: ", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error: ", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: tokenrush migrate [up|down|status] [args...]")
	}

	switch os.Args[2] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", os.Args[2])
	}
}

// handleBalanceAdjustment applies an operator-issued balance delta with a
// manual_adjustment log entry, for support cases
func handleBalanceAdjustment() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: tokenrush adjust-balance user-id delta")
	}

	userID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", os.Args[2], err)
	}
	delta, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", os.Args[3], err)
	}
	if delta == 0 {
		return fmt.Errorf("delta cannot be zero")
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uow := repository.NewUnitOfWorkFactory(db).Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback() }()

	newBalance, err := uow.UserRepository().ApplyBalanceDelta(ctx, userID, delta)
	if err != nil {
		return err
	}

	txn := &entities.TokenTransaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   delta,
		Source:   entities.TokenSourceManualAdjustment,
		Metadata: map[string]any{"operator": "cli"},
	}
	if err := uow.TransactionRepository().Append(ctx, txn); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userId":     userID,
		"delta":      delta,
		"newBalance": newBalance,
	}).Info("Balance adjusted")
	return nil
}
