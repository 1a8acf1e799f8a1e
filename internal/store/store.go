// Package store is the persistence collaborator: sqlite-backed
// repositories for diagnostic cycles, phase responses and protocol
// progress. The flow coordinator depends only on the repo interfaces
// declared here, so tests substitute in-memory fakes.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cortexdiag/cortex/internal/logger"
)

// Store holds the gorm handle and hands out repositories.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the SQLite database at path, applies pragmas and runs
// auto-migration.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if err := db.AutoMigrate(
		&DiagnosticCycle{},
		&Phase1Response{},
		&Phase2Response{},
		&ProtocolProgress{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, log: log.With("component", "store")}, nil
}

// DB returns the underlying gorm handle for raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CycleRepo returns a CycleRepo backed by this store.
func (s *Store) CycleRepo() CycleRepo {
	return &cycleRepo{db: s.db, log: s.log.With("repo", "CycleRepo")}
}

// ResponseRepo returns a ResponseRepo backed by this store.
func (s *Store) ResponseRepo() ResponseRepo {
	return &responseRepo{db: s.db, log: s.log.With("repo", "ResponseRepo")}
}

// ProtocolRepo returns a ProtocolRepo backed by this store.
func (s *Store) ProtocolRepo() ProtocolRepo {
	return &protocolRepo{db: s.db, log: s.log.With("repo", "ProtocolRepo")}
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CORTEX_DB environment variable
// 2. $XDG_DATA_HOME/cortex/cortex.db
// 3. ~/.local/share/cortex/cortex.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CORTEX_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "cortex", "cortex.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
