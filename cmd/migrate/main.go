// Command migrate applies the embedded Postgres schema with goose.
//
//	migrate [up|down|status|version]
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/migrations"
	"github.com/imf-ops/gadget-api/pkg/config"
	"github.com/imf-ops/gadget-api/pkg/database"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

var errUnknownCommand = errors.New("unknown command (want up, down, status or version)")

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = run(ctx, cfg.DatabaseURL, command)
	cancel()
	if err != nil {
		log.Error("migration failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	log.Info("migration finished", zap.String("command", command))
	logger.Sync()
}

func run(ctx context.Context, dsn, command string) error {
	if database.IsSQLite(dsn) {
		return errors.New("goose migrations target postgres; sqlite databases are migrated by the api on startup")
	}

	var migrate func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error
	switch command {
	case "up":
		migrate = goose.UpContext
	case "down":
		migrate = goose.DownContext
	case "status":
		migrate = goose.StatusContext
	case "version":
		migrate = goose.VersionContext
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, command)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return migrate(ctx, db, ".")
}
