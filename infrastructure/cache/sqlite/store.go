// ABOUTME: SQLite-backed store for rendered Markdown and styled text
// ABOUTME: Persists render cache entries across restarts with per-entry expiry

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"v2ex-richview/core/interfaces"
)

const (
	// DefaultTable holds render cache entries
	DefaultTable = "render_cache"

	defaultCleanupInterval = 5 * time.Minute
	memoryPath             = ":memory:"
)

// Config describes where the store lives
type Config struct {
	// Path of the database file; ":memory:" keeps it in process
	Path string

	// Table name, DefaultTable when empty
	Table string

	// CleanupInterval between sweeps of expired rows; negative disables
	// the sweeper
	CleanupInterval time.Duration
}

// Store implements interfaces.Cache on SQLite
type Store struct {
	db     *sql.DB
	path   string
	table  string
	logger interfaces.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Stats describes the table contents
type Stats struct {
	Entries        int    `json:"entries"`
	ExpiredEntries int    `json:"expired_entries"`
	SizeBytes      int64  `json:"size_bytes"`
	Path           string `json:"path"`
}

// NewStore opens (and if needed creates) the store
func NewStore(cfg Config, deps interfaces.Dependencies) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = "richview-cache.db"
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if err := ValidateName(cfg.Table); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if cfg.Path == memoryPath {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	s := &Store{
		db:     db,
		path:   cfg.Path,
		table:  cfg.Table,
		logger: deps.LoggerOrNop(),
		stop:   make(chan struct{}),
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if cfg.CleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupRoutine(cfg.CleanupInterval)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_expiry ON %[1]s(expiry);
	`, s.table)
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the live value for key or interfaces.ErrNotFound
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key, s.logger); err != nil {
		return nil, err
	}

	query, params, err := NewQueryBuilder().
		Select("value").
		From(s.table).
		Where("key", "=", key).
		Live("expiry", time.Now().Unix()).
		Build()
	if err != nil {
		return nil, err
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, params...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}
	return value, nil
}

// Set upserts value. A zero ttl stores it without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key, s.logger); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	var expiry int64
	if ttl > 0 {
		expiry = time.Now().Add(ttl).Unix()
	}

	query, params, err := NewQueryBuilder().
		InsertOrReplace(s.table).
		Values([]string{"key", "value", "expiry"}, []interface{}{key, value, expiry}).
		Build()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	return nil
}

// Delete removes key; a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key, s.logger); err != nil {
		return err
	}
	query, params, err := NewQueryBuilder().Delete(s.table).Where("key", "=", key).Build()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Clear removes every row
func (s *Store) Clear(ctx context.Context) error {
	query, params, err := NewQueryBuilder().Delete(s.table).Build()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, params...); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Sweep deletes expired rows and returns how many were removed
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	query, params, err := NewQueryBuilder().Delete(s.table).Expired("expiry", time.Now().Unix()).Build()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired entries: %w", err)
	}
	return res.RowsAffected()
}

// Stats counts rows and reports the database size
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}

	query, params, err := NewQueryBuilder().Count().From(s.table).Build()
	if err != nil {
		return stats, err
	}
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&stats.Entries); err != nil {
		return stats, err
	}

	query, params, err = NewQueryBuilder().Count().From(s.table).Expired("expiry", time.Now().Unix()).Build()
	if err != nil {
		return stats, err
	}
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&stats.ExpiredEntries); err != nil {
		return stats, err
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats.SizeBytes = pageCount * pageSize
		}
	}
	return stats, nil
}

func (s *Store) cleanupRoutine(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := s.Sweep(context.Background())
			if err != nil {
				s.logger.Warn("SQLite cache sweep failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			if removed > 0 {
				s.logger.Debug("SQLite cache swept", map[string]interface{}{"removed": removed})
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the sweeper and closes the database
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	return s.db.Close()
}
