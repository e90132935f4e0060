package stores

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/rs/zerolog"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	cfg    Config
	logger zerolog.Logger
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Actor is recorded in audit entries.
	Actor string
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *SQLiteStore) {
		s.logger = logger.With().Str("component", "preset-store").Logger()
	}
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config, opts ...Option) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 2
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	// Every connection to :memory: opens its own empty database.
	if cfg.Path == ":memory:" {
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
	}

	s := &SQLiteStore{
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Init opens the database connection.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := s.cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if s.cfg.Path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	s.logger.Debug().Str("path", s.cfg.Path).Msg("Preset store opened")
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		s.logger.Debug().Uint("version", version).Bool("dirty", dirty).Msg("Preset store migrated")
	}
	return nil
}

// SavePreset stores every value cfg holds under name, replacing any preset
// with that name. The preset keeps its ID and creation time across saves.
func (s *SQLiteStore) SavePreset(ctx context.Context, name, description string, cfg config.Store) (*Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("preset name is required")
	}

	values := make(map[string]string)
	for _, key := range cfg.Keys() {
		v, err := cfg.Lookup(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read option %s: %w", key, err)
		}
		values[key] = v.Serialize()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	preset := &Preset{
		Name:        name,
		Description: description,
		Values:      values,
		UpdatedAt:   now,
	}

	err = tx.QueryRowContext(ctx, `SELECT id, created_at FROM presets WHERE name = ?`, name).
		Scan(&preset.ID, &preset.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		preset.ID = uuid.NewString()
		preset.CreatedAt = now
		_, err = tx.ExecContext(ctx, `
			INSERT INTO presets (id, name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, preset.ID, preset.Name, preset.Description, preset.CreatedAt, preset.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create preset: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up preset: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE presets SET description = ?, updated_at = ? WHERE id = ?
		`, preset.Description, preset.UpdatedAt, preset.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update preset: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM preset_values WHERE preset_id = ?`, preset.ID); err != nil {
			return nil, fmt.Errorf("failed to clear preset values: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO preset_values (preset_id, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range sortedKeys(values) {
		if _, err := stmt.ExecContext(ctx, preset.ID, key, values[key]); err != nil {
			return nil, fmt.Errorf("failed to store option %s: %w", key, err)
		}
	}

	if err := s.audit(ctx, tx, AuditPresetSaved, name, map[string]any{"options": len(values)}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit preset: %w", err)
	}

	s.logger.Info().
		Str("preset", name).
		Int("options", len(values)).
		Msg("Preset saved")

	return preset, nil
}

// GetPreset retrieves a preset and its serialized values by name.
func (s *SQLiteStore) GetPreset(ctx context.Context, name string) (*Preset, error) {
	preset := &Preset{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM presets
		WHERE name = ?
	`, name).Scan(
		&preset.ID,
		&preset.Name,
		&preset.Description,
		&preset.CreatedAt,
		&preset.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preset_values WHERE preset_id = ?`, preset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preset values: %w", err)
	}
	defer rows.Close()

	preset.Values = make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preset value: %w", err)
		}
		preset.Values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preset values: %w", err)
	}

	return preset, nil
}

// LoadPreset writes the values of a preset into dst. Values are parsed
// into a scratch config first, so a preset with a bad value leaves dst
// untouched. With ignoreUnknown, keys the schema or dst no longer knows
// are skipped instead of failing the load.
func (s *SQLiteStore) LoadPreset(ctx context.Context, name string, dst config.Store, ignoreUnknown bool) (*Preset, error) {
	preset, err := s.GetPreset(ctx, name)
	if err != nil {
		return nil, err
	}

	staged := config.NewDynamic(dst.Schema(), config.WithPolicyOf(dst))
	acc := config.NewAccessor(staged)
	for _, key := range sortedKeys(preset.Values) {
		if err := acc.SetString(key, preset.Values[key]); err != nil {
			if ignoreUnknown && errors.Is(err, config.ErrNotFound) {
				s.logger.Warn().Str("preset", name).Str("key", key).Msg("Skipping unknown option")
				continue
			}
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
	}

	if err := config.Apply(dst, staged, ignoreUnknown); err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}

	s.logger.Debug().
		Str("preset", name).
		Int("options", staged.Len()).
		Msg("Preset loaded")

	return preset, nil
}

// ListPresets lists presets ordered by name with pagination.
func (s *SQLiteStore) ListPresets(ctx context.Context, limit, offset int) ([]*PresetInfo, error) {
	query := `
		SELECT p.id, p.name, p.description, COUNT(v.key), p.created_at, p.updated_at
		FROM presets p
		LEFT JOIN preset_values v ON v.preset_id = p.id
		GROUP BY p.id
		ORDER BY p.name
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	presets := []*PresetInfo{}
	for rows.Next() {
		info := &PresetInfo{}
		err := rows.Scan(
			&info.ID,
			&info.Name,
			&info.Description,
			&info.Options,
			&info.CreatedAt,
			&info.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating presets: %w", err)
	}

	return presets, nil
}

// DeletePreset deletes a preset and its values.
func (s *SQLiteStore) DeletePreset(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	if err := s.audit(ctx, tx, AuditPresetDeleted, name, nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	s.logger.Info().Str("preset", name).Msg("Preset deleted")
	return nil
}

func (s *SQLiteStore) audit(ctx context.Context, tx *sql.Tx, action, preset string, details map[string]any) error {
	var detailsJSON *string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		str := string(data)
		detailsJSON = &str
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit (action, preset, actor, details, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, action, preset, s.cfg.Actor, detailsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries lists audit entries, newest first, optionally for one
// preset.
func (s *SQLiteStore) ListAuditEntries(ctx context.Context, preset *string, limit, offset int) ([]*AuditEntry, error) {
	query := `
		SELECT id, action, preset, actor, details, timestamp
		FROM audit
		WHERE (? IS NULL OR preset = ?)
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, preset, preset, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []*AuditEntry{}
	for rows.Next() {
		entry := &AuditEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Preset,
			&entry.Actor,
			&entry.Details,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var _ Store = (*SQLiteStore)(nil)
