package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/config"
	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	pingTimeout     = 5 * time.Second
	maxOpenConns    = 25
	connMaxLifetime = 30 * time.Minute
)

// Store handles persistence of scraped shows
type Store struct {
	db      *gorm.DB
	dialect config.Dialect
}

// Open connects to the database named by conn and verifies the connection
func Open(ctx context.Context, conn config.Connection) (*Store, error) {
	dialector, err := dialectorFor(conn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(gormWriter{}, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", conn.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting connection pool: %w", err)
	}
	if conn.Dialect == config.DialectSQLite {
		// one writer at a time keeps sqlite from returning "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging %s: %w", conn.Dialect, err)
	}

	logger.Debug("Connected to database", logger.Fields{"dialect": string(conn.Dialect)})
	return &Store{db: db, dialect: conn.Dialect}, nil
}

// DB exposes the underlying connection
func (s *Store) DB() *gorm.DB { return s.db }

// Dialect reports which database the store talks to
func (s *Store) Dialect() config.Dialect { return s.dialect }

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates every table the scraper and the ratings front end use
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&show.ContentRating{},
		&show.Venue{},
		&show.Show{},
		&show.ShowTime{},
		&show.User{},
		&show.Rating{},
		&show.UserRating{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	logger.Info("Schema migrated", logger.Fields{"dialect": string(s.dialect)})
	return nil
}

func dialectorFor(conn config.Connection) (gorm.Dialector, error) {
	switch conn.Dialect {
	case config.DialectPostgres:
		return postgres.Open(conn.DSN), nil
	case config.DialectMySQL:
		return mysql.Open(conn.DSN), nil
	case config.DialectSQLite:
		return sqlite.Open(withForeignKeys(conn.DSN)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedDialect, conn.Dialect)
	}
}

// withForeignKeys turns on sqlite foreign-key enforcement, which is off per connection by default
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// gormWriter routes gorm's slow-query and error lines into the run log
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), logger.Fields{"component": "gorm"})
}
