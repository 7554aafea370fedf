// gastos-reset drops and recreates the transactions schema. This is the
// maintenance escape hatch for a broken local store; there is no per-row
// delete in the application itself.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"gastos/internal/config"
	applog "gastos/internal/log"
	"gastos/internal/storage"
)

func main() {
	var (
		yes      = flag.Bool("yes", false, "confirm dropping all recorded transactions")
		dropOnly = flag.Bool("drop-only", false, "drop the schema without recreating it")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: "reset",
	})
	applog.SetDefault(logger)

	if !*yes {
		logger.Error("Refusing to reset without -yes; this deletes every recorded transaction")
		os.Exit(1)
	}

	gw, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer gw.Close()

	if err := gw.Reset(); err != nil {
		logger.Error("Failed to drop schema", "error", err)
		os.Exit(1)
	}
	slog.Info("Schema dropped", "path", cfg.SQLiteDBPath)

	if *dropOnly {
		return
	}

	if err := gw.EnsureSchema(); err != nil {
		logger.Error("Failed to recreate schema", "error", err)
		os.Exit(1)
	}
	slog.Info("Schema recreated", "path", cfg.SQLiteDBPath)
}
