package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vaultpass/pwgen/internal/settings"
)

// ErrEmptyProfile is returned when a store is created without a profile.
var ErrEmptyProfile = errors.New("profile is required")

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS pwgen_settings (
		profile    VARCHAR(64)  NOT NULL PRIMARY KEY,
		blob_value TEXT         NOT NULL,
		same_site  VARCHAR(16)  NOT NULL,
		expires_at DATETIME(6)  NULL,
		updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

const upsertQuery = `
	INSERT INTO pwgen_settings (profile, blob_value, same_site, expires_at)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		blob_value = VALUES(blob_value),
		same_site  = VALUES(same_site),
		expires_at = VALUES(expires_at)`

// SettingsRepository stores one settings record per profile in MySQL. It
// implements settings.Store.
type SettingsRepository struct {
	db      *sql.DB
	profile string
	now     func() time.Time
}

// NewSettingsRepository creates a SettingsRepository for profile.
func NewSettingsRepository(db *sql.DB, profile string) (*SettingsRepository, error) {
	if profile == "" {
		return nil, ErrEmptyProfile
	}
	return &SettingsRepository{db: db, profile: profile, now: time.Now}, nil
}

var _ settings.Store = (*SettingsRepository)(nil)

// EnsureSchema creates the settings table if it does not exist.
func (r *SettingsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaQuery); err != nil {
		return fmt.Errorf("create pwgen_settings: %w", err)
	}
	return nil
}

// Load returns the profile's blob unless it is missing or expired.
func (r *SettingsRepository) Load(ctx context.Context) (string, bool, error) {
	query := `SELECT blob_value FROM pwgen_settings
		WHERE profile = ? AND (expires_at IS NULL OR expires_at > ?)`

	var blob string
	err := r.db.QueryRowContext(ctx, query, r.profile, r.now().UTC()).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return blob, true, nil
}

// Save upserts the profile's blob.
func (r *SettingsRepository) Save(ctx context.Context, blob string, opts settings.StoreOptions) error {
	var expires sql.NullTime
	if opts.TTL > 0 {
		expires = sql.NullTime{Time: r.now().Add(opts.TTL).UTC(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, upsertQuery,
		r.profile,
		blob,
		settings.SameSiteName(opts.SameSite),
		expires,
	)
	return err
}

// Clear deletes the profile's record.
func (r *SettingsRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pwgen_settings WHERE profile = ?`, r.profile)
	return err
}

// PurgeExpired removes every expired record and returns how many went.
func (r *SettingsRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pwgen_settings WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		r.now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
