package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlayline/platform/internal/domain"
)

// SlipRepository provides access to the slips collection.
type SlipRepository struct {
	db DBTX
}

// NewSlipRepository creates a slip repository over the given connection.
func NewSlipRepository(db DBTX) *SlipRepository {
	return &SlipRepository{db: db}
}

const slipColumns = `id, user_id, user_name, wager_amount, bets, status, created_at`

// Insert creates a new slip document.
func (r *SlipRepository) Insert(ctx context.Context, slip *domain.Slip) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO slips (id, user_id, user_name, wager_amount, bets, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		slip.ID, slip.UserID, slip.UserName, slip.WagerAmount, slip.Bets, slip.Status, slip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert slip: %w", err)
	}
	return nil
}

// FindByID returns a slip by id, or nil when absent.
func (r *SlipRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Slip, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+slipColumns+` FROM slips WHERE id = $1`, id)

	var s domain.Slip
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.WagerAmount, &s.Bets, &s.Status, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find slip: %w", err)
	}
	return &s, nil
}

// ListByUser returns a user's slips, newest first.
func (r *SlipRepository) ListByUser(ctx context.Context, userID string) ([]domain.Slip, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+slipColumns+` FROM slips WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user slips: %w", err)
	}
	return scanSlips(rows)
}

// ListAll returns every slip, newest first (admin view).
func (r *SlipRepository) ListAll(ctx context.Context) ([]domain.Slip, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+slipColumns+` FROM slips ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query slips: %w", err)
	}
	return scanSlips(rows)
}

// ListPending returns the slips awaiting settlement.
func (r *SlipRepository) ListPending(ctx context.Context) ([]domain.Slip, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+slipColumns+` FROM slips WHERE status = $1 ORDER BY created_at ASC`,
		domain.SlipPending)
	if err != nil {
		return nil, fmt.Errorf("query pending slips: %w", err)
	}
	return scanSlips(rows)
}

// UpdateSettlement writes leg results and the slip status in one
// statement. Readers see either the fully settled slip or the untouched
// pending one, never a partial write.
func (r *SlipRepository) UpdateSettlement(ctx context.Context, id uuid.UUID, bets []domain.Leg, status domain.SlipStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE slips SET bets = $2, status = $3 WHERE id = $1`,
		id, bets, status)
	if err != nil {
		return fmt.Errorf("update settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("slip", id.String())
	}
	return nil
}

// UpdateStatus overrides the slip status (admin edit).
func (r *SlipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SlipStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE slips SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update slip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("slip", id.String())
	}
	return nil
}

// Delete removes a slip (admin only).
func (r *SlipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM slips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("slip", id.String())
	}
	return nil
}

func scanSlips(rows pgx.Rows) ([]domain.Slip, error) {
	defer rows.Close()

	var slips []domain.Slip
	for rows.Next() {
		var s domain.Slip
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.WagerAmount, &s.Bets, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slip: %w", err)
		}
		slips = append(slips, s)
	}
	return slips, rows.Err()
}
