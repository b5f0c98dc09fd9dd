package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"
)

// TransactionRepository implements the append-only token transaction log
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepository(tx Queryable) interfaces.TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Append inserts a new transaction log entry
func (r *TransactionRepository) Append(ctx context.Context, txn *entities.TokenTransaction) error {
	query := `
		INSERT INTO token_transactions (id, user_id, amount, source, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Amount,
		txn.Source,
		txn.Metadata,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction %s: %w", txn.ID, err)
	}
	return nil
}

// GetByUser returns transactions for a user, newest first
func (r *TransactionRepository) GetByUser(ctx context.Context, userID int64, source entities.TokenSource, limit, offset int) ([]*entities.TokenTransaction, error) {
	query := `
		SELECT id, user_id, amount, source, metadata, created_at
		FROM token_transactions
		WHERE user_id = $1 AND ($2 = '' OR source = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.q.Query(ctx, query, userID, string(source), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txns []*entities.TokenTransaction
	for rows.Next() {
		var txn entities.TokenTransaction
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Amount,
			&txn.Source,
			&txn.Metadata,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// SumByUser returns the sum of all transaction amounts for a user. Against
// an intact log this equals the user's balance; a discrepancy is an audit
// gap to investigate.
func (r *TransactionRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM token_transactions
		WHERE user_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for user %d: %w", userID, err)
	}
	return sum, nil
}
