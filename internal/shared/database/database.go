package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps both GORM and sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// NewDB creates a new database connection using GORM
func NewDB(connStr string, production bool) *DB {
	if connStr == "" {
		log.Fatal().Msg("❌ DATABASE_URL is empty")
	}

	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open database")
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to get sql.DB")
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to ping database")
	}

	log.Info().Msg("✅ Database connected (GORM)!")
	return &DB{
		DB:   sqlDB,
		GORM: gormDB,
	}
}

// SQLitePrefix marks a DATABASE_URL that points at a local SQLite file.
const SQLitePrefix = "sqlite://"

// IsSQLite reports whether connStr selects the SQLite backend.
func IsSQLite(connStr string) bool {
	return strings.HasPrefix(connStr, SQLitePrefix)
}

// Open connects to Postgres, or to SQLite when connStr starts with sqlite://.
func Open(connStr string, production bool) *DB {
	if !IsSQLite(connStr) {
		return NewDB(connStr, production)
	}

	gormDB, err := NewSQLite(strings.TrimPrefix(connStr, SQLitePrefix))
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open SQLite database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to get sql.DB")
	}

	log.Info().Msg("✅ Database connected (SQLite)!")
	return &DB{DB: sqlDB, GORM: gormDB}
}

func (db *DB) Close() error {
	log.Info().Msg("🔌 Closing database connection...")
	return db.DB.Close()
}
