package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/pkg/lifecycle"
)

type stubCheck struct{ ready atomic.Bool }

func (s *stubCheck) Ready() bool { return s.ready.Load() }

func TestStartRunsHooks(t *testing.T) {
	lc := lifecycle.New()
	var ran atomic.Int32

	for range 3 {
		lc.OnStartup("count", func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	require.False(t, lc.Ready())
	require.NoError(t, lc.Start())
	require.Equal(t, int32(3), ran.Load())
	require.True(t, lc.Ready())
}

func TestStartReturnsHookError(t *testing.T) {
	lc := lifecycle.New()
	boom := errors.New("boom")
	lc.OnStartup("broken", func(context.Context) error { return boom })

	err := lc.Start()
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "startup broken")
	require.False(t, lc.Ready())
}

func TestReadyConsultsChecks(t *testing.T) {
	lc := lifecycle.New()
	check := &stubCheck{}
	lc.AddCheck(check)
	require.NoError(t, lc.Start())

	require.False(t, lc.Ready())
	check.ready.Store(true)
	require.True(t, lc.Ready())
}

func TestShutdownCancelsContextAndJoinsErrors(t *testing.T) {
	lc := lifecycle.New()
	first := errors.New("first")
	second := errors.New("second")

	lc.OnShutdown("a", func(context.Context) error { return first })
	lc.OnShutdown("b", func(context.Context) error { return second })
	lc.OnShutdown("c", func(context.Context) error { return nil })

	err := lc.Shutdown(time.Second)
	require.ErrorIs(t, err, first)
	require.ErrorIs(t, err, second)
	require.Error(t, lc.Context().Err())
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown("stuck", func(context.Context) error {
		<-release
		return nil
	})

	err := lc.Shutdown(20 * time.Millisecond)
	require.ErrorContains(t, err, "shutdown timeout")
}
