package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pkamble/lessonchat/internal/logger"
)

// Config selects the database backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string

	// DSN is the database connection string. For sqlite this is the file
	// path; empty means the default XDG location.
	DSN string
}

// ConfigFromEnv builds a Config from LESSONCHAT_DB_DRIVER / LESSONCHAT_DB_DSN.
func ConfigFromEnv() Config {
	cfg := Config{Driver: "sqlite"}
	if d := os.Getenv("LESSONCHAT_DB_DRIVER"); d != "" {
		cfg.Driver = d
	}
	if dsn := os.Getenv("LESSONCHAT_DB_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	return cfg
}

// Store holds the gorm handle and provides access to repositories.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the configured database and runs auto-migration.
func Open(cfg Config, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		} else if dsn != ":memory:" {
			if err := EnsureDir(dsn); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&Lesson{}, &Question{}, &LLMCall{}); err != nil {
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

// Lessons returns a LessonRepo backed by this store.
func (s *Store) Lessons() LessonRepo {
	return &lessonRepo{db: s.db, log: s.log.With("repo", "lessons")}
}

// Questions returns a QuestionRepo backed by this store.
func (s *Store) Questions() QuestionRepo {
	return &questionRepo{db: s.db, log: s.log.With("repo", "questions")}
}

// LLMCalls returns an LLMCallRepo backed by this store.
func (s *Store) LLMCalls() LLMCallRepo {
	return &llmCallRepo{db: s.db, log: s.log.With("repo", "llm_calls")}
}

// DefaultDBPath resolves the sqlite file path in priority order:
// 1. LESSONCHAT_DB environment variable
// 2. $XDG_DATA_HOME/lessonchat/lessonchat.db
// 3. ~/.local/share/lessonchat/lessonchat.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LESSONCHAT_DB"); p != "" {
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

	p := filepath.Join(dataHome, "lessonchat", "lessonchat.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
