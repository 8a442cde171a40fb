package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/config"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[logging]
level = "debug"

[database]
host = "localhost"
port = 5432
name = "forecourt"
user = "forecourt"
password = "forecourt"

[storage]
provider = "memory"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[intake]
window = "2s"

[extraction]
model = "gpt-4o-mini"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[intake]
workers = 8
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func setup(t *testing.T, files map[string]string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeConfig(t, dir, name, content)
	}
	t.Chdir(dir)
}

func TestLoad(t *testing.T) {
	setup(t, map[string]string{"config.toml": baseConfig})

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, "memory", cfg.Storage.Provider)
	require.Equal(t, "car-photos", cfg.Storage.ContainerName)
	require.Equal(t, "/api", cfg.API.BasePath)
	require.Equal(t, 50, cfg.API.Pagination.MaxPageSize)
	require.Equal(t, 2*time.Second, cfg.Intake.WindowDuration())
	require.Equal(t, 4, cfg.Intake.Workers)
	require.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
	require.Equal(t, 20*time.Second, cfg.ShutdownTimeoutDuration())
	require.False(t, cfg.Extraction.Enabled())
	require.False(t, cfg.API.Auth.Enabled)
	require.Equal(t, int64(1<<20), cfg.API.MaxBodySizeBytes())
}

func TestLoadWithOverlay(t *testing.T) {
	setup(t, map[string]string{
		"config.toml":         baseConfig,
		"config.staging.toml": overlayConfig,
	})
	t.Setenv(config.EnvForecourtEnv, "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "staging", cfg.Env())
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "prodhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 8, cfg.Intake.Workers)
	require.Equal(t, "2s", cfg.Intake.Window)
}

func TestLoadEnvVarOverrides(t *testing.T) {
	setup(t, map[string]string{"config.toml": baseConfig})

	t.Setenv(config.EnvForecourtVersion, "2.0.0")
	t.Setenv(config.EnvServerPort, "3000")
	t.Setenv("FORECOURT_EXTRACTION_API_KEY", "sk-test")
	t.Setenv("FORECOURT_INTAKE_WINDOW", "5s")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "2.0.0", cfg.Version)
	require.Equal(t, 3000, cfg.Server.Port)
	require.True(t, cfg.Extraction.Enabled())
	require.Equal(t, 5*time.Second, cfg.Intake.WindowDuration())
	require.Equal(t, slog.LevelWarn, cfg.Logging.SlogLevel())
}

func TestLoadNoConfigFile(t *testing.T) {
	setup(t, nil)

	t.Setenv("FORECOURT_DB_URL", "postgres://u:p@db:5432/forecourt?sslmode=disable")
	t.Setenv("FORECOURT_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "azure", cfg.Storage.Provider)
	require.Equal(t, "conn", cfg.Storage.ConnectionString)
	require.Equal(t, "postgres://u:p@db:5432/forecourt?sslmode=disable", cfg.Database.Dsn())
	require.Equal(t, "local", cfg.Env())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", `server = {`},
		{"missing database name", "[storage]\nprovider = \"memory\"\n[database]\nuser = \"u\""},
		{"bad log level", strings.Replace(baseConfig, `level = "debug"`, `level = "loud"`, 1)},
		{"auth without issuer", baseConfig + "\n[api.auth]\nenabled = true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, map[string]string{"config.toml": tt.content})

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
