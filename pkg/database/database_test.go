package database

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/pkg/lifecycle"
)

func TestStartUnreachableIsNotReady(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 1, Name: "forecourt", User: "forecourt", ConnTimeout: "2s"}
	require.NoError(t, cfg.Finalize(nil))

	db, err := New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	lc := lifecycle.New()
	require.NoError(t, db.Start(lc))

	err = lc.Start()
	require.ErrorIs(t, err, ErrNotReady)
	require.ErrorContains(t, err, "startup database")
	require.False(t, db.Ready())
	require.False(t, lc.Ready())
}
