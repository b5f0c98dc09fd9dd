package repository

import (
	"context"
	"fmt"
	"time"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// SessionRepository implements the SessionRepository interface
type SessionRepository struct {
	q Queryable
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

func newSessionRepository(tx Queryable) interfaces.SessionRepository {
	return &SessionRepository{q: tx}
}

// Create inserts a new session in active status
func (r *SessionRepository) Create(ctx context.Context, session *entities.GameSession) error {
	query := `
		INSERT INTO game_sessions (id, user_id, game_type, bet_amount, status, game_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING started_at
	`

	err := r.q.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.GameType,
		session.BetAmount,
		entities.SessionStatusActive,
		session.GameData,
	).Scan(&session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	session.Status = entities.SessionStatusActive
	return nil
}

// GetByID retrieves a session by its id
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*entities.GameSession, error) {
	query := `
		SELECT id, user_id, game_type, bet_amount, status, result, payout, game_data, started_at, ended_at
		FROM game_sessions
		WHERE id = $1
	`

	session, err := scanSession(r.q.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return session, nil
}

// Finalize transitions a session from active to completed. The status guard
// in the WHERE clause is the single-settlement guarantee: whichever caller
// updates the row first wins, every later caller matches zero rows.
func (r *SessionRepository) Finalize(ctx context.Context, sessionID string, result entities.GameResult, payout int64, gameData map[string]any, endedAt time.Time) (*entities.GameSession, error) {
	query := `
		UPDATE game_sessions
		SET status = $2, result = $3, payout = $4,
		    game_data = COALESCE(game_data, '{}'::jsonb) || $5,
		    ended_at = $6
		WHERE id = $1 AND status = $7
		RETURNING id, user_id, game_type, bet_amount, status, result, payout, game_data, started_at, ended_at
	`

	if gameData == nil {
		gameData = map[string]any{}
	}
	session, err := scanSession(r.q.QueryRow(ctx, query,
		sessionID,
		entities.SessionStatusCompleted,
		result,
		payout,
		gameData,
		endedAt,
		entities.SessionStatusActive,
	))
	if err == pgx.ErrNoRows {
		// Zero rows means the session is missing or already settled.
		// One read tells us which error to return.
		existing, getErr := r.GetByID(ctx, sessionID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("%w: %s", entities.ErrSessionAlreadyFinalized, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to finalize session %s: %w", sessionID, err)
	}
	return session, nil
}

// GetByUser returns sessions for a user, newest first
func (r *SessionRepository) GetByUser(ctx context.Context, userID int64, gameType entities.GameType, limit, offset int) ([]*entities.GameSession, error) {
	query := `
		SELECT id, user_id, game_type, bet_amount, status, result, payout, game_data, started_at, ended_at
		FROM game_sessions
		WHERE user_id = $1 AND ($2 = '' OR game_type = $2)
		ORDER BY started_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.q.Query(ctx, query, userID, string(gameType), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var sessions []*entities.GameSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// ListStaleActive returns active sessions started before the cutoff
func (r *SessionRepository) ListStaleActive(ctx context.Context, cutoff time.Time, limit int) ([]*entities.GameSession, error) {
	query := `
		SELECT id, user_id, game_type, bet_amount, status, result, payout, game_data, started_at, ended_at
		FROM game_sessions
		WHERE status = $1 AND started_at < $2
		ORDER BY started_at
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, entities.SessionStatusActive, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entities.GameSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*entities.GameSession, error) {
	var session entities.GameSession
	var result *string
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.GameType,
		&session.BetAmount,
		&session.Status,
		&result,
		&session.Payout,
		&session.GameData,
		&session.StartedAt,
		&session.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	if result != nil {
		r := entities.GameResult(*result)
		session.Result = &r
	}
	return &session, nil
}
