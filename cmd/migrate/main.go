// Command migrate creates the database if needed and applies the schema.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"chronicle/internal/config"
	"chronicle/internal/database"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := ensureDatabase(cfg); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	log.Printf("schema applied to %s", cfg.DBName)
	return nil
}

// ensureDatabase connects to the maintenance database and creates the
// application database when it does not exist yet.
func ensureDatabase(cfg *config.Config) error {
	dsn := maintenanceDSN(cfg, "postgres")
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open maintenance db: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	ctx := context.Background()
	var exists bool
	err = sqlDB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := sqlDB.ExecContext(ctx, "CREATE DATABASE "+quoteIdent(cfg.DBName)); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	log.Printf("created database %s", cfg.DBName)
	return nil
}

func maintenanceDSN(cfg *config.Config, dbName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, dbName, cfg.DBSSLMode)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
