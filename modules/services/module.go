// Package services provides the service control card: start, stop, and
// restart one supervised service. With start_cmd/stop_cmd configured the
// runner drives a real process; without them it is a pure state machine,
// useful for demos and tests.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
	"github.com/Nihilentropy-117/Web-Controller/internal/shell"
)

const commandTimeout = 10 * time.Second

// Builtin registers this package's runner kind.
type Builtin struct{}

// Register binds the "service" runner.
func (b *Builtin) Register(r *registry.Registry) {
	r.RegisterRunner("service", New)
}

// Module tracks one service. The running flag, start time, and restart
// counter live in memory only: a registry reload replaces the instance and
// the counters start over. That is the documented reload trade-off, not an
// accident.
type Module struct {
	contract.Meta
	startCmd string
	stopCmd  string

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	restarts  int
}

// New instantiates the runner from its manifest spec. Config keys
// "start_cmd" and "stop_cmd" are optional shell lines.
func New(spec registry.Spec) (contract.Module, error) {
	startCmd, _ := spec.Config["start_cmd"].(string)
	stopCmd, _ := spec.Config["stop_cmd"].(string)
	return &Module{Meta: spec.Meta(), startCmd: startCmd, stopCmd: stopCmd}, nil
}

// Status reports the service state, uptime while running, and the restart
// count since this instance was loaded.
func (m *Module) Status(ctx context.Context) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := map[string]any{
		"restart_count": m.restarts,
	}
	if m.running {
		status["status"] = "Running"
		status["uptime"] = formatUptime(time.Since(m.startedAt))
	} else {
		status["status"] = "Stopped"
	}
	return status, nil
}

// Actions varies with the service state: stop/restart while running, start
// while stopped.
func (m *Module) Actions() []contract.Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return []contract.Action{
			{ID: "stop", Label: "⏹️ Stop Service", Variant: contract.VariantDanger},
			{ID: "restart", Label: "🔄 Restart Service", Variant: contract.VariantWarning},
		}
	}
	return []contract.Action{
		{ID: "start", Label: "▶️ Start Service", Variant: contract.VariantSuccess},
	}
}

// Execute runs one lifecycle action. The mutex covers the whole command
// run, so two concurrent starts cannot both win.
func (m *Module) Execute(ctx context.Context, actionID string, params map[string]any) contract.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch actionID {
	case "start":
		if m.running {
			return contract.Fail("service is already running")
		}
		if res := m.runCommand(ctx, m.startCmd); !res.Success {
			return res
		}
		m.running = true
		m.startedAt = time.Now()
		return contract.Ok("Service started successfully")

	case "stop":
		if !m.running {
			return contract.Fail("service is already stopped")
		}
		if res := m.runCommand(ctx, m.stopCmd); !res.Success {
			return res
		}
		m.running = false
		return contract.Ok("Service stopped successfully")

	case "restart":
		if !m.running {
			return contract.Fail("service is not running")
		}
		if res := m.runCommand(ctx, m.stopCmd); !res.Success {
			return res
		}
		// The stop phase took the service down. Record that before the
		// start phase, so a failed start leaves the module Stopped with a
		// start button instead of claiming a running service that is not.
		m.running = false
		m.startedAt = time.Time{}
		if res := m.runCommand(ctx, m.startCmd); !res.Success {
			return res
		}
		m.running = true
		m.startedAt = time.Now()
		m.restarts++
		return contract.Ok("Service restarted successfully")
	}

	return contract.Fail(fmt.Sprintf("unknown action: %s", actionID))
}

// runCommand executes a configured shell line, succeeding trivially when
// none is configured.
func (m *Module) runCommand(ctx context.Context, command string) contract.Result {
	if command == "" {
		return contract.Ok("")
	}
	out, err := shell.Run(ctx, command, commandTimeout)
	if err != nil {
		return contract.Fail(fmt.Sprintf("command failed: %v", err))
	}
	if out.ExitCode != 0 {
		return contract.Fail(fmt.Sprintf("command exited with status %d: %s", out.ExitCode, out.Text()))
	}
	return contract.Ok("")
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		if seconds > 0 {
			return fmt.Sprintf("%ds", seconds)
		}
		return "< 1s"
	}
	return strings.Join(parts, " ")
}
