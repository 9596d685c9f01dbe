// Command seed fills the gadget table with random sample data.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/internal/repository"
	"github.com/imf-ops/gadget-api/pkg/config"
	"github.com/imf-ops/gadget-api/pkg/database"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

func main() {
	count := flag.Int("count", 100, "number of gadgets to create")
	flag.Parse()

	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	err = run(ctx, cfg.DatabaseURL, *count, log)
	cancel()
	if err != nil {
		log.Error("seeding failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(ctx context.Context, dsn string, count int, log *zap.Logger) error {
	db, err := database.Open(ctx, dsn, database.Options{Logger: log.Named("gorm")})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if database.IsSQLite(dsn) {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("sqlite auto-migrate: %w", err)
		}
	}

	s := &seeder{
		gadgets: repository.NewGadgetRepository(db),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x1f2e3d4c)),
		now:     time.Now(),
	}
	created, err := s.seed(ctx, count)
	if err != nil {
		return fmt.Errorf("created %d of %d: %w", len(created), count, err)
	}
	for _, g := range created {
		log.Debug("created gadget", zap.String("gadget_id", g.ID.String()), zap.String("status", string(g.Status)))
	}
	log.Info("seeding finished", zap.Int("created", len(created)))
	return nil
}
