package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/agent-ticketing-backend/internal/config"
)

// PostgresDB wraps the sqlx pool shared by all repositories
type PostgresDB struct {
	*sqlx.DB
	driver string
}

// Driver returns the database/sql driver name in use
func (db *PostgresDB) Driver() string {
	return db.driver
}

// HealthCheck pings the database with the caller's deadline
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

var passwordInURL = regexp.MustCompile(`(postgres(?:ql)?://[^:]+:)([^@]+)(@.+)`)

// maskPassword masks the password in a database URL for safe logging
func maskPassword(url string) string {
	return passwordInURL.ReplaceAllString(url, "${1}****${3}")
}

// withParam appends key=value to the URL query when key is absent
func withParam(url, key, value string) string {
	if strings.Contains(url, key+"=") {
		return url
	}
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	return url + separator + key + "=" + value
}

// NewConnection creates a new database connection using the configured driver.
// "pgx" (default) goes through pgx's database/sql adapter; "postgres" uses lib/pq.
func NewConnection(cfg config.DatabaseConfig, logger *logrus.Logger) (*PostgresDB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	connectionURL := withParam(cfg.URL, "sslmode", "require")
	// Port 6543 is the transaction-mode pooler, which cannot keep prepared statements
	usingPooler := strings.Contains(connectionURL, ":6543")

	logger.WithFields(logrus.Fields{
		"driver": cfg.Driver,
		"url":    maskPassword(connectionURL),
		"pooler": usingPooler,
	}).Info("Opening database connection")

	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		if usingPooler {
			connectionURL = withParam(connectionURL, "binary_parameters", "yes")
		}
		db, err = sqlx.Connect("postgres", connectionURL)
	default:
		pgxConfig, parseErr := pgx.ParseConfig(connectionURL)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", parseErr)
		}
		if usingPooler {
			pgxConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		}
		db, err = sqlx.Connect("pgx", stdlib.RegisterConnConfig(pgxConfig))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxLifetime / 2)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver := cfg.Driver
	if driver != "postgres" {
		driver = "pgx"
	}
	return &PostgresDB{DB: db, driver: driver}, nil
}
