// Package starmod loads dashboard modules written as Starlark scripts.
//
// A script module is one .star file in the modules directory defining
// NAME, DESCRIPTION, ICON and COLOR globals (all optional) plus three
// functions: get_status(), get_actions() and execute_action(action_id,
// params). Scripts are re-executed from source on every reload, which is
// what makes the dashboard extensible at runtime: drop a file in, press
// reload, and a new card appears.
package starmod

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
)

// Module is a contract.Module backed by one executed Starlark file. The
// globals are frozen after execution, so concurrent calls only need a fresh
// starlark.Thread each.
type Module struct {
	contract.Meta
	path    string
	globals starlark.StringDict
}

// Load executes the script at path and wraps its globals as a module. A
// script missing any of the three contract functions does not qualify.
func Load(ctx context.Context, path string) (*Module, error) {
	thread := &starlark.Thread{Name: "load:" + filepath.Base(path)}
	globals, err := starlark.ExecFile(thread, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", path, err)
	}

	for _, fn := range []string{"get_status", "get_actions", "execute_action"} {
		v, ok := globals[fn]
		if !ok {
			return nil, fmt.Errorf("%s does not define %s", path, fn)
		}
		if _, ok := v.(starlark.Callable); !ok {
			return nil, fmt.Errorf("%s: %s is not callable", path, fn)
		}
	}

	id := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ".star"))
	name := stringGlobal(globals, "NAME", id)
	meta := contract.NewMeta(
		id,
		name,
		stringGlobal(globals, "DESCRIPTION", ""),
		stringGlobal(globals, "ICON", ""),
		stringGlobal(globals, "COLOR", ""),
	)

	return &Module{Meta: meta, path: path, globals: globals}, nil
}

func stringGlobal(globals starlark.StringDict, key, fallback string) string {
	if v, ok := globals[key]; ok {
		if s, ok := starlark.AsString(v); ok {
			return s
		}
	}
	return fallback
}

func (m *Module) call(fn string, args ...starlark.Value) (starlark.Value, error) {
	thread := &starlark.Thread{Name: m.ID() + ":" + fn}
	return starlark.Call(thread, m.globals[fn], starlark.Tuple(args), nil)
}

// Status invokes the script's get_status function.
func (m *Module) Status(ctx context.Context) (map[string]any, error) {
	res, err := m.call("get_status")
	if err != nil {
		return nil, fmt.Errorf("get_status failed: %w", err)
	}
	dict, ok := res.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("get_status returned %s, want dict", res.Type())
	}
	return dictToMap(dict), nil
}

// Actions invokes the script's get_actions function. A script fault here is
// logged and yields an empty action list rather than breaking the card.
func (m *Module) Actions() []contract.Action {
	res, err := m.call("get_actions")
	if err != nil {
		slog.Warn("Script get_actions failed.", "module", m.ID(), "error", err)
		return nil
	}
	list, ok := res.(*starlark.List)
	if !ok {
		slog.Warn("Script get_actions returned non-list.", "module", m.ID(), "type", res.Type())
		return nil
	}

	var actions []contract.Action
	for i := 0; i < list.Len(); i++ {
		dict, ok := list.Index(i).(*starlark.Dict)
		if !ok {
			continue
		}
		entry := dictToMap(dict)
		id, _ := entry["id"].(string)
		if id == "" {
			continue
		}
		label, _ := entry["label"].(string)
		if label == "" {
			label = id
		}
		variant, _ := entry["variant"].(string)
		actions = append(actions, contract.Action{
			ID:      id,
			Label:   label,
			Variant: contract.NormalizeVariant(variant),
		})
	}
	return actions
}

// Execute invokes the script's execute_action function and normalizes the
// returned dict into a Result envelope. A result without a boolean
// "success" key is treated as a failure.
func (m *Module) Execute(ctx context.Context, actionID string, params map[string]any) contract.Result {
	logger := ctxlog.FromContext(ctx)

	res, err := m.call("execute_action", starlark.String(actionID), mapToDict(params))
	if err != nil {
		logger.Warn("Script action failed.", "module", m.ID(), "action", actionID, "error", err)
		return contract.Fail(err.Error())
	}

	dict, ok := res.(*starlark.Dict)
	if !ok {
		return contract.Fail(fmt.Sprintf("execute_action returned %s, want dict", res.Type()))
	}
	return normalizeResult(dictToMap(dict))
}

// normalizeResult maps a free-form result dict onto the Result envelope.
// Unrecognized top-level keys are folded into Data so scripts can return
// extra payload fields the way they would in a loosely typed runtime.
func normalizeResult(raw map[string]any) contract.Result {
	success, ok := raw["success"].(bool)
	if !ok {
		return contract.Fail("module returned a malformed result (missing boolean 'success')")
	}

	out := contract.Result{Success: success}
	out.Message, _ = raw["message"].(string)
	out.Error, _ = raw["error"].(string)
	if data, ok := raw["data"].(map[string]any); ok {
		out.Data = data
	}

	for key, val := range raw {
		switch key {
		case "success", "message", "error", "data":
			continue
		}
		if out.Data == nil {
			out.Data = make(map[string]any)
		}
		out.Data[key] = val
	}
	return out
}
