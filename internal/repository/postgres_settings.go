package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/timebox/internal/db"
)

// PostgresSettingsRepo implements SettingsRepo against a shared PostgreSQL
// database, letting several machines read the same planning context.
type PostgresSettingsRepo struct {
	db db.DBTX
}

// NewPostgresSettingsRepo creates a new PostgresSettingsRepo. conn should
// come from db.OpenPostgres.
func NewPostgresSettingsRepo(conn db.DBTX) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{db: conn}
}

func (r *PostgresSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

func (r *PostgresSettingsRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

func (r *PostgresSettingsRepo) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("removing setting %s: %w", key, err)
	}
	return nil
}

func (r *PostgresSettingsRepo) All(ctx context.Context) (map[string]string, error) {
	return scanSettings(ctx, r.db, `SELECT key, value FROM settings`)
}
