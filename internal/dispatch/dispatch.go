// Package dispatch routes action invocations to modules and folds live
// module state into frontend descriptors. It is the failure boundary
// between plugin code and the HTTP layer: a misbehaving module can fail its
// own card or its own action, never the server.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
)

// ErrUnknownModule is returned when a dispatch names a module id absent
// from the current snapshot. No module code runs in that case.
var ErrUnknownModule = errors.New("module not found")

// Dispatcher resolves modules against the registry's current snapshot.
type Dispatcher struct {
	reg *registry.Registry
}

// New creates a Dispatcher over the given registry.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Dispatch executes one action on one module. The call is synchronous and
// at-most-once: no retries, no timeout enforcement, no queueing. A panic
// raised by the module is converted into a failure result.
func (d *Dispatcher) Dispatch(ctx context.Context, moduleID, actionID string, params map[string]any) (contract.Result, error) {
	mod, ok := d.reg.Snapshot().Lookup(moduleID)
	if !ok {
		return contract.Result{}, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	return d.execute(ctx, mod, actionID, params), nil
}

func (d *Dispatcher) execute(ctx context.Context, mod contract.Module, actionID string, params map[string]any) (result contract.Result) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Module action panicked.",
				"module", mod.ID(), "action", actionID, "panic", r)
			result = contract.Fail(fmt.Sprintf("action %s failed: %v", actionID, r))
		}
	}()
	return mod.Execute(ctx, actionID, params)
}

// Status returns one module's live status snapshot. A panic inside the
// module surfaces as an error, not a crash.
func (d *Dispatcher) Status(ctx context.Context, moduleID string) (status map[string]any, err error) {
	mod, ok := d.reg.Snapshot().Lookup(moduleID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, moduleID)
	}
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Module status panicked.", "module", mod.ID(), "panic", r)
			status, err = nil, fmt.Errorf("status for %s failed: %v", moduleID, r)
		}
	}()
	return mod.Status(ctx)
}

// ListModules folds every module in the current snapshot into a descriptor,
// in registry order. A fault while computing one module's status or actions
// is isolated to that card: it reports an error status and the remaining
// modules are unaffected.
func (d *Dispatcher) ListModules(ctx context.Context) []contract.Descriptor {
	snap := d.reg.Snapshot()
	descriptors := make([]contract.Descriptor, 0, snap.Len())
	for _, mod := range snap.Modules() {
		descriptors = append(descriptors, d.describe(ctx, mod))
	}
	return descriptors
}

func (d *Dispatcher) describe(ctx context.Context, mod contract.Module) contract.Descriptor {
	desc := contract.Descriptor{
		ID:          mod.ID(),
		Name:        mod.Name(),
		Description: mod.Description(),
		Icon:        mod.Icon(),
		Color:       mod.Color(),
		Actions:     []contract.Action{},
	}

	desc.Status = d.safeStatus(ctx, mod)
	if actions := d.safeActions(ctx, mod); actions != nil {
		desc.Actions = actions
	}
	return desc
}

func (d *Dispatcher) safeStatus(ctx context.Context, mod contract.Module) (status map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Module status panicked.", "module", mod.ID(), "panic", r)
			status = map[string]any{"error": fmt.Sprintf("%v", r)}
		}
	}()

	status, err := mod.Status(ctx)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Module status failed.", "module", mod.ID(), "error", err)
		return map[string]any{"error": err.Error()}
	}
	if status == nil {
		status = map[string]any{}
	}
	return status
}

func (d *Dispatcher) safeActions(ctx context.Context, mod contract.Module) (actions []contract.Action) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Module actions panicked.", "module", mod.ID(), "panic", r)
			actions = nil
		}
	}()
	return mod.Actions()
}
