package main

import (
	"flag"
	"os"

	"github.com/xisxz/agente-vendas/internal/config"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/pg"
)

// Applies pending database migrations:
//
//	cli --env=.env --dir=./migrations
func main() {
	envPath := flag.String("env", ".env", "path to the env file")
	migrationDir := flag.String("dir", "./migrations", "path to the goose migration directory")
	flag.Parse()

	if _, err := os.Stat(*envPath); err != nil {
		logger.Warn("env file not found, relying on process environment", "path", *envPath)
		*envPath = ""
	}
	if err := config.Load(*envPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := os.Stat(*migrationDir); err != nil {
		logger.Error("migration directory not found", "dir", *migrationDir, "error", err)
		os.Exit(1)
	}

	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}
	if err := pg.Migrate(pgConf, *migrationDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
}
