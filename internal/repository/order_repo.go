package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WemXPro/service-virtfusion/internal/models"
)

var ErrNotFound = errors.New("not found")

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, user_id, package_id, status, external_server_id, external_data,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	return r.scanOrder(r.pool.QueryRow(ctx, query, id))
}

// SetExternalServer records the panel server an order was provisioned onto.
func (r *OrderRepository) SetExternalServer(ctx context.Context, orderID string, externalID int, data []byte) error {
	query := `
		UPDATE orders
		SET external_server_id = $1, external_data = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := r.pool.Exec(ctx, query, externalID, data, orderID)
	if err != nil {
		return fmt.Errorf("set external server: %w", err)
	}
	return nil
}

// UpdateStatus updates only the order status
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *OrderRepository) scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.UserID, &order.PackageID, &order.Status,
		&order.ExternalServerID, &order.ExternalData,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return order, nil
}
