package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WemXPro/service-virtfusion/internal/models"
)

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// GetConfig retrieves the admin-declared panel settings for a platform package.
// Limit columns are nullable; callers fall back to the defaults.
func (r *PackageRepository) GetConfig(ctx context.Context, packageID string) (*models.PackageConfig, error) {
	query := `
		SELECT package_id, remote_package_id, hypervisor_group_id,
		       ipv4, storage, memory, cpu_cores
		FROM package_configs
		WHERE package_id = $1
	`

	cfg := &models.PackageConfig{}
	err := r.pool.QueryRow(ctx, query, packageID).Scan(
		&cfg.PackageID, &cfg.RemotePackageID, &cfg.HypervisorGroupID,
		&cfg.IPv4, &cfg.Storage, &cfg.Memory, &cfg.CPUCores,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan package config: %w", err)
	}
	return cfg, nil
}
