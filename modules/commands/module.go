// Package commands provides the quick command card: a configurable set of
// one-shot shell commands exposed as dashboard actions.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
	"github.com/Nihilentropy-117/Web-Controller/internal/shell"
)

const (
	commandTimeout = 10 * time.Second
	outputLimit    = 200
)

// Builtin registers this package's runner kind.
type Builtin struct{}

// Register binds the "commands" runner.
func (b *Builtin) Register(r *registry.Registry) {
	r.RegisterRunner("commands", New)
}

type command struct {
	Label   string
	Cmd     string
	Variant string
}

// Module holds the command table plus run counters. The counters guard
// against concurrent actions with a mutex; the table itself is immutable
// after construction.
type Module struct {
	contract.Meta
	commands map[string]command
	order    []string

	mu          sync.Mutex
	executions  int
	lastCommand string
	lastRun     time.Time
}

// New instantiates the runner from its manifest spec. Each entry under the
// "commands" config key maps an action id to {label, cmd, variant}. An
// empty table falls back to a small set of host inspection commands.
func New(spec registry.Spec) (contract.Module, error) {
	commands, order, err := parseCommands(spec.Config["commands"])
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		commands, order = defaultCommands()
	}
	return &Module{Meta: spec.Meta(), commands: commands, order: order}, nil
}

// Status reports run counters for the card body.
func (m *Module) Status(ctx context.Context) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := map[string]any{
		"total_executions": m.executions,
	}
	if m.lastCommand != "" {
		status["last_command"] = m.lastCommand
		status["last_run"] = m.lastRun.Format("15:04:05")
	} else {
		status["last_command"] = "None"
	}
	return status, nil
}

// Actions lists one button per configured command, in sorted id order.
// Manifest config decodes to an unordered map, so the sort is what keeps
// the button row stable across reloads.
func (m *Module) Actions() []contract.Action {
	actions := make([]contract.Action, 0, len(m.order))
	for _, id := range m.order {
		c := m.commands[id]
		actions = append(actions, contract.Action{
			ID:      id,
			Label:   c.Label,
			Variant: contract.NormalizeVariant(c.Variant),
		})
	}
	return actions
}

// Execute runs the named command through the shell with a fixed timeout
// and returns its truncated output as result data.
func (m *Module) Execute(ctx context.Context, actionID string, params map[string]any) contract.Result {
	c, ok := m.commands[actionID]
	if !ok {
		return contract.Fail(fmt.Sprintf("unknown action: %s", actionID))
	}

	out, err := shell.Run(ctx, c.Cmd, commandTimeout)
	if err != nil {
		if errors.Is(err, shell.ErrTimeout) {
			return contract.Fail("Command timed out after 10 seconds")
		}
		return contract.Fail(fmt.Sprintf("command failed: %v", err))
	}

	m.mu.Lock()
	m.executions++
	m.lastCommand = c.Label
	m.lastRun = time.Now()
	m.mu.Unlock()

	output := out.Text()
	if len(output) > outputLimit {
		output = output[:outputLimit] + "..."
	}

	if out.ExitCode != 0 {
		return contract.Result{
			Success: false,
			Error:   fmt.Sprintf("command exited with status %d", out.ExitCode),
			Data:    map[string]any{"output": output, "return_code": out.ExitCode},
		}
	}
	return contract.OkData(fmt.Sprintf("Executed: %s", c.Label), map[string]any{
		"output":      output,
		"return_code": out.ExitCode,
	})
}

// parseCommands decodes the manifest's commands table. Manifests decode to
// map[string]any, so each entry is checked field by field.
func parseCommands(raw any) (map[string]command, []string, error) {
	if raw == nil {
		return nil, nil, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("commands config must be a table, got %T", raw)
	}

	commands := make(map[string]command, len(table))
	for id, entry := range table {
		fields, ok := entry.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("command %q must be a table, got %T", id, entry)
		}
		cmd, _ := fields["cmd"].(string)
		if cmd == "" {
			return nil, nil, fmt.Errorf("command %q has no cmd", id)
		}
		label, _ := fields["label"].(string)
		if label == "" {
			label = id
		}
		variant, _ := fields["variant"].(string)
		commands[id] = command{Label: label, Cmd: cmd, Variant: variant}
	}

	order := make([]string, 0, len(commands))
	for id := range commands {
		order = append(order, id)
	}
	sort.Strings(order)
	return commands, order, nil
}

func defaultCommands() (map[string]command, []string) {
	commands := map[string]command{
		"check_disk": {
			Label:   "💾 Check Disk Space",
			Cmd:     "df -h /",
			Variant: contract.VariantPrimary,
		},
		"list_processes": {
			Label:   "📋 List Processes",
			Cmd:     "ps aux | head -10",
			Variant: contract.VariantSecondary,
		},
		"network_info": {
			Label:   "🌐 Network Info",
			Cmd:     "ip addr show 2>/dev/null || ifconfig",
			Variant: contract.VariantPrimary,
		},
		"date_time": {
			Label:   "🕐 Date & Time",
			Cmd:     "date",
			Variant: contract.VariantSecondary,
		},
	}
	return commands, []string{"check_disk", "list_processes", "network_info", "date_time"}
}
