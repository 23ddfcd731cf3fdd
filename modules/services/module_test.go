package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
)

func newModule(t *testing.T, config map[string]any) *Module {
	t.Helper()
	mod, err := New(registry.Spec{ID: "svc", Name: "Service", Config: config})
	require.NoError(t, err)
	return mod.(*Module)
}

func actionIDs(actions []contract.Action) []string {
	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mod := newModule(t, nil)

	// Stopped at load: only start is offered.
	status, err := mod.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Stopped", status["status"])
	assert.Equal(t, 0, status["restart_count"])
	assert.NotContains(t, status, "uptime")
	assert.Equal(t, []string{"start"}, actionIDs(mod.Actions()))

	// Start.
	res := mod.Execute(ctx, "start", nil)
	require.True(t, res.Success)
	assert.Equal(t, "Service started successfully", res.Message)

	status, err = mod.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Running", status["status"])
	assert.Contains(t, status, "uptime")
	assert.Equal(t, []string{"stop", "restart"}, actionIDs(mod.Actions()))

	// Restart bumps the counter.
	res = mod.Execute(ctx, "restart", nil)
	require.True(t, res.Success)
	assert.Equal(t, "Service restarted successfully", res.Message)

	status, err = mod.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status["restart_count"])

	// Stop.
	res = mod.Execute(ctx, "stop", nil)
	require.True(t, res.Success)
	assert.Equal(t, "Service stopped successfully", res.Message)

	status, err = mod.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Stopped", status["status"])
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("double start", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, nil)
		require.True(t, mod.Execute(ctx, "start", nil).Success)

		res := mod.Execute(ctx, "start", nil)
		assert.False(t, res.Success)
		assert.Equal(t, "service is already running", res.Error)
	})

	t.Run("stop while stopped", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, nil)
		res := mod.Execute(ctx, "stop", nil)
		assert.False(t, res.Success)
		assert.Equal(t, "service is already stopped", res.Error)
	})

	t.Run("restart while stopped", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, nil)
		res := mod.Execute(ctx, "restart", nil)
		assert.False(t, res.Success)
		assert.Equal(t, "service is not running", res.Error)
	})

	t.Run("unknown action", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, nil)
		res := mod.Execute(ctx, "reboot", nil)
		assert.False(t, res.Success)
		assert.Equal(t, "unknown action: reboot", res.Error)
	})
}

func TestConfiguredCommands(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("start command runs", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, map[string]any{"start_cmd": "true"})
		assert.True(t, mod.Execute(ctx, "start", nil).Success)
	})

	t.Run("failing start command blocks the transition", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, map[string]any{"start_cmd": "echo nope >&2; exit 1"})

		res := mod.Execute(ctx, "start", nil)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "status 1")

		status, err := mod.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Stopped", status["status"], "a failed start must leave the service stopped")
	})

	t.Run("restart whose start phase fails leaves the service stopped", func(t *testing.T) {
		t.Parallel()
		// The start command succeeds on first use and fails afterwards, so
		// the initial start works and the restart's start phase does not.
		marker := filepath.Join(t.TempDir(), "started")
		mod := newModule(t, map[string]any{
			"start_cmd": "test ! -f " + marker + " && touch " + marker,
			"stop_cmd":  "true",
		})
		require.True(t, mod.Execute(ctx, "start", nil).Success)

		res := mod.Execute(ctx, "restart", nil)
		assert.False(t, res.Success)

		status, err := mod.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Stopped", status["status"], "the stop phase ran, so the service really is down")
		assert.NotContains(t, status, "uptime")
		assert.Equal(t, []string{"start"}, actionIDs(mod.Actions()), "recovery needs the start button back")
	})

	t.Run("failing stop command keeps the service running", func(t *testing.T) {
		t.Parallel()
		mod := newModule(t, map[string]any{"stop_cmd": "exit 1"})
		require.True(t, mod.Execute(ctx, "start", nil).Success)

		res := mod.Execute(ctx, "stop", nil)
		assert.False(t, res.Success)

		status, err := mod.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Running", status["status"])
	})
}

func TestFormatUptime(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{90 * time.Minute, "1h 30m"},
		{26*time.Hour + 5*time.Minute, "1d 2h 5m"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, formatUptime(tc.d))
		})
	}
}
