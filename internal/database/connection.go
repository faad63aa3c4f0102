package database

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rebate_audit/internal/migrations"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// Target is a parsed DATABASE_URL.
type Target struct {
	Dialect string
	DSN     string
}

// ParseURL maps DATABASE_URL onto a driver. Anything without a known scheme is
// taken as a sqlite file path.
func ParseURL(databaseURL string) Target {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Target{Dialect: DialectPostgres, DSN: databaseURL}
	case strings.HasPrefix(databaseURL, "mysql://"):
		return Target{Dialect: DialectMySQL, DSN: strings.TrimPrefix(databaseURL, "mysql://")}
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return Target{Dialect: DialectSQLite, DSN: strings.TrimPrefix(databaseURL, "sqlite://")}
	default:
		return Target{Dialect: DialectSQLite, DSN: databaseURL}
	}
}

// IsFile reports whether the store lives in a single local file.
func (t Target) IsFile() bool {
	return t.Dialect == DialectSQLite
}

// Store opens short-lived connections to the audit database. Every caller
// closes what it opens.
type Store struct {
	target Target
	logger logger.Interface
}

func NewStore(databaseURL string, log *logrus.Entry, logLevel string) *Store {
	return &Store{
		target: ParseURL(databaseURL),
		logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  ParseLogLevel(logLevel),
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func (s *Store) Target() Target {
	return s.target
}

func (s *Store) Open() (*gorm.DB, error) {
	return s.open(s.target)
}

// OpenFile opens a sqlite file other than the configured store.
func (s *Store) OpenFile(path string) (*gorm.DB, error) {
	return s.open(Target{Dialect: DialectSQLite, DSN: path})
}

func (s *Store) open(t Target) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch t.Dialect {
	case DialectPostgres:
		dialector = postgres.Open(t.DSN)
	case DialectMySQL:
		dialector = mysql.Open(t.DSN)
	default:
		dialector = sqlite.Open(t.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: s.logger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Exists reports whether a populated store is present. For a sqlite target a
// missing file means no store; an unreadable one is an error.
func (s *Store) Exists() (bool, error) {
	if s.target.IsFile() {
		_, err := os.Stat(s.target.DSN)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to stat store: %w", err)
		}
		return true, nil
	}

	db, err := s.Open()
	if err != nil {
		return false, err
	}
	defer Close(db)
	return migrations.HasSchema(db), nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
