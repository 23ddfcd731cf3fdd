package sysinfo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
)

func newModule(t *testing.T) *Module {
	t.Helper()
	mod, err := New(registry.Spec{ID: "sysinfo", Name: "System Info"})
	require.NoError(t, err)
	return mod.(*Module)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	mod := newModule(t)
	status, err := mod.Status(context.Background())
	require.NoError(t, err)

	// Individual probes are best-effort, but the Go runtime field is always
	// present and the map is never empty on a working host.
	assert.Contains(t, status, "go_version")
	assert.Greater(t, len(status), 1)
}

func TestActions(t *testing.T) {
	t.Parallel()

	actions := newModule(t).Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "refresh", actions[0].ID)
	assert.Equal(t, "primary", actions[0].Variant)
}

func TestExecute(t *testing.T) {
	t.Parallel()
	mod := newModule(t)

	t.Run("refresh", func(t *testing.T) {
		t.Parallel()
		res := mod.Execute(context.Background(), "refresh", nil)
		assert.True(t, res.Success)
		assert.Equal(t, "System information refreshed", res.Message)
	})

	t.Run("unknown action", func(t *testing.T) {
		t.Parallel()
		res := mod.Execute(context.Background(), "reboot", nil)
		assert.False(t, res.Success)
		assert.Equal(t, "unknown action: reboot", res.Error)
	})
}

func TestFormatUptime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "< 1m", formatUptime(30*time.Second))
	assert.Equal(t, "5m", formatUptime(5*time.Minute))
	assert.Equal(t, "2h 3m", formatUptime(2*time.Hour+3*time.Minute))
	assert.Equal(t, "3d 1h 1m", formatUptime(73*time.Hour+time.Minute))
}
