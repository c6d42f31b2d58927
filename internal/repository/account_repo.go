package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WemXPro/service-virtfusion/internal/models"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByUserID retrieves the panel account linked to a platform user.
// Returns ErrNotFound when the user has never been provisioned.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int) (*models.RemoteAccount, error) {
	query := `
		SELECT id, user_id, external_id, username, password, data, created_at
		FROM remote_accounts
		WHERE user_id = $1
	`

	acc := &models.RemoteAccount{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&acc.ID, &acc.UserID, &acc.ExternalID, &acc.Username,
		&acc.Password, &acc.Data, &acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan remote account: %w", err)
	}
	return acc, nil
}

// Create persists a new panel account linkage
func (r *AccountRepository) Create(ctx context.Context, acc *models.RemoteAccount) error {
	if acc.ID == "" {
		acc.ID = uuid.New().String()
	}

	query := `
		INSERT INTO remote_accounts (id, user_id, external_id, username, password, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		acc.ID, acc.UserID, acc.ExternalID, acc.Username, acc.Password, acc.Data,
	)
	if err != nil {
		return fmt.Errorf("insert remote account: %w", err)
	}
	return nil
}
