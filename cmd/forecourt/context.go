package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/forecourt/internal/config"
	"github.com/JaimeStill/forecourt/internal/infrastructure"
	"github.com/JaimeStill/forecourt/pkg/database"
	"github.com/JaimeStill/forecourt/pkg/lifecycle"
)

type commandContext struct {
	verbose *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

// ensureConfig loads .env and the TOML configuration once per invocation.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.configErr = fmt.Errorf("load .env: %w", err)
			return
		}
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

// logger writes text logs to w. Only warnings surface unless --verbose is set.
func (c *commandContext) logger(w io.Writer) *slog.Logger {
	level := "warn"
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	return infrastructure.NewLogger(&config.LoggingConfig{Level: level, Format: "text"}, w)
}

// withDatabase opens the configured database, waits for it to answer a ping, and
// closes it once fn returns.
func (c *commandContext) withDatabase(ctx context.Context, logger *slog.Logger, fn func(*sql.DB) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}

	lc := lifecycle.New()
	if err := db.Start(lc); err != nil {
		return err
	}
	if err := lc.Start(); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		err = errors.Join(err, lc.Shutdown(cfg.ShutdownTimeoutDuration()))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(db.Connection())
}
