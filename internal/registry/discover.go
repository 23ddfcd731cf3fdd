package registry

import (
	"context"
	"os"

	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
	"github.com/Nihilentropy-117/Web-Controller/internal/fsutil"
	"github.com/Nihilentropy-117/Web-Controller/internal/starmod"
)

// discover scans the modules directory and builds a fresh snapshot. A unit
// that fails to parse or instantiate is skipped with a logged warning and
// never aborts discovery of the remaining units; the caller only ever sees
// the total count.
func (r *Registry) discover(ctx context.Context) (*Snapshot, error) {
	logger := ctxlog.FromContext(ctx)
	snap := emptySnapshot()

	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		logger.Warn("Modules directory not found.", "path", r.dir)
		return snap, nil
	}

	manifests, err := fsutil.ListByExtension(r.dir, ".hcl")
	if err != nil {
		return nil, err
	}
	for _, path := range manifests {
		if fsutil.Reserved(path) {
			continue
		}
		decls, err := parseManifest(path)
		if err != nil {
			logger.Warn("Skipping unparseable manifest.", "path", path, "error", err)
			continue
		}
		for _, decl := range decls {
			factory, ok := r.runners[decl.Runner]
			if !ok {
				logger.Warn("Manifest references unknown runner.",
					"path", path, "module", decl.Spec.ID, "runner", decl.Runner)
				continue
			}
			mod, err := factory(decl.Spec)
			if err != nil {
				logger.Warn("Runner failed to instantiate module.",
					"path", path, "module", decl.Spec.ID, "error", err)
				continue
			}
			if !snap.add(mod) {
				logger.Warn("Duplicate module id, keeping first.", "id", mod.ID(), "path", path)
				continue
			}
			logger.Info("Loaded module.", "id", mod.ID(), "runner", decl.Runner)
		}
	}

	scripts, err := fsutil.ListByExtension(r.dir, ".star")
	if err != nil {
		return nil, err
	}
	for _, path := range scripts {
		if fsutil.Reserved(path) {
			continue
		}
		mod, err := starmod.Load(ctx, path)
		if err != nil {
			logger.Warn("Skipping broken script module.", "path", path, "error", err)
			continue
		}
		if !snap.add(mod) {
			logger.Warn("Duplicate module id, keeping first.", "id", mod.ID(), "path", path)
			continue
		}
		logger.Info("Loaded script module.", "id", mod.ID())
	}

	logger.Info("Discovery complete.", "count", snap.Len())
	return snap, nil
}
