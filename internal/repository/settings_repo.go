package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setting keys in the platform's key/value settings store.
const (
	SettingHostname = "virtfusion::hostname"
	SettingAPIKey   = "virtfusion::api_key"
)

var ErrSettingMissing = errors.New("setting not configured")

// SettingsRepository reads and writes the panel connection settings. It is
// the read-only configuration provider the gateway is constructed with.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// PanelHostname returns the configured panel URL.
func (r *SettingsRepository) PanelHostname(ctx context.Context) (string, error) {
	return r.get(ctx, SettingHostname)
}

// PanelAPIKey returns the configured API bearer token.
func (r *SettingsRepository) PanelAPIKey(ctx context.Context) (string, error) {
	return r.get(ctx, SettingAPIKey)
}

// Save validates and upserts the panel connection settings.
func (r *SettingsRepository) Save(ctx context.Context, hostname, apiKey string) error {
	if err := ValidatePanelHostname(hostname); err != nil {
		return err
	}
	if apiKey == "" {
		return fmt.Errorf("api key is required")
	}

	if err := r.set(ctx, SettingHostname, hostname); err != nil {
		return err
	}
	return r.set(ctx, SettingAPIKey, apiKey)
}

func (r *SettingsRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrSettingMissing, key)
		}
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SettingsRepository) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// ValidatePanelHostname enforces the panel URL format at config-save time.
// The gateway concatenates paths onto it, so a trailing slash is rejected.
func ValidatePanelHostname(raw string) error {
	if raw == "" {
		return fmt.Errorf("hostname is required")
	}
	if strings.HasSuffix(raw, "/") {
		return fmt.Errorf("hostname must not end with a trailing slash")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("hostname is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("hostname must start with http:// or https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("hostname is missing a host")
	}
	return nil
}
