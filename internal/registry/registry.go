package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Nihilentropy-117/Web-Controller/internal/contract"
)

// Spec is the declarative half of a builtin module: display metadata and
// free-form config decoded from its manifest block.
type Spec struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Config      map[string]any
}

// Meta folds the spec's metadata into an embeddable contract.Meta,
// defaulting the display name to the module id.
func (s Spec) Meta() contract.Meta {
	name := s.Name
	if name == "" {
		name = s.ID
	}
	return contract.NewMeta(s.ID, name, s.Description, s.Icon, s.Color)
}

// Factory instantiates a builtin module from its manifest spec.
type Factory func(spec Spec) (contract.Module, error)

// Builtin is implemented by each compiled-in module package. Register is
// called once at startup to bind the package's runner kinds.
type Builtin interface {
	Register(r *Registry)
}

// Registry owns the runner table and the active module snapshot. The runner
// table is fixed after startup; the snapshot is the only shared mutable
// state and is replaced wholesale on every reload.
type Registry struct {
	dir      string
	runners  map[string]Factory
	snapshot atomic.Pointer[Snapshot]
}

// New creates a Registry over the given modules directory with an empty
// snapshot. Call Reload to populate it.
func New(dir string) *Registry {
	r := &Registry{
		dir:     dir,
		runners: make(map[string]Factory),
	}
	r.snapshot.Store(emptySnapshot())
	return r
}

// RegisterRunner binds a runner kind to its factory.
func (r *Registry) RegisterRunner(kind string, f Factory) {
	if _, exists := r.runners[kind]; exists {
		panic(fmt.Sprintf("runner with kind '%s' already registered", kind))
	}
	slog.Debug("Registering runner.", "kind", kind)
	r.runners[kind] = f
}

// Snapshot returns the active module set. The returned value is immutable;
// hold it for the duration of one request to get a consistent view.
func (r *Registry) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Reload re-runs discovery and atomically replaces the active snapshot.
// It returns the number of modules in the new set. Concurrent reloads are
// last-write-wins; readers never observe a partially built set.
func (r *Registry) Reload(ctx context.Context) (int, error) {
	snap, err := r.discover(ctx)
	if err != nil {
		return 0, err
	}
	r.snapshot.Store(snap)
	return snap.Len(), nil
}

// Snapshot is one immutable discovery result: every module instance plus an
// id index, in filename order.
type Snapshot struct {
	modules []contract.Module
	index   map[string]contract.Module
}

func emptySnapshot() *Snapshot {
	return &Snapshot{index: make(map[string]contract.Module)}
}

func (s *Snapshot) add(m contract.Module) bool {
	if _, dup := s.index[m.ID()]; dup {
		return false
	}
	s.modules = append(s.modules, m)
	s.index[m.ID()] = m
	return true
}

// Modules returns the instances in listing order.
func (s *Snapshot) Modules() []contract.Module {
	return s.modules
}

// Lookup finds a module by id.
func (s *Snapshot) Lookup(id string) (contract.Module, bool) {
	m, ok := s.index[id]
	return m, ok
}

// IDs returns the module ids in listing order.
func (s *Snapshot) IDs() []string {
	ids := make([]string, 0, len(s.modules))
	for _, m := range s.modules {
		ids = append(ids, m.ID())
	}
	return ids
}

// Len returns the number of modules in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.modules)
}
