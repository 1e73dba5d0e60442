package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the Postgres connection. Zero values take the defaults.
type Options struct {
	// Environment picks the SQL log level, see LogLevel.
	Environment     string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxIdleConns    = 10
	defaultMaxOpenConns    = 50
	defaultConnMaxLifetime = time.Hour
	slowQueryThreshold     = 200 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = defaultMaxIdleConns
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}
	if o.MaxIdleConns > o.MaxOpenConns {
		o.MaxIdleConns = o.MaxOpenConns
	}
	if o.ConnMaxLifetime <= 0 {
		o.ConnMaxLifetime = defaultConnMaxLifetime
	}
	return o
}

// LogLevel maps GO_ENV to the gorm log level. Production only logs slow
// queries and errors; tests stay silent.
func LogLevel(environment string) logger.LogLevel {
	switch environment {
	case "production":
		return logger.Warn
	case "test":
		return logger.Silent
	default:
		return logger.Info
	}
}

func newLogger(environment string) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  LogLevel(environment),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  environment == "development",
		},
	)
}

// Open connects to dsn and sizes the pool.
func Open(dsn string, opts Options) (*gorm.DB, error) {
	opts = opts.withDefaults()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger(opts.Environment),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return db, nil
}
