// Package registry provides the central "glue" for the module system.
//
// The Registry stores mappings between the runner kinds referenced by the
// manifests in the modules directory (e.g. "sysinfo") and the compiled Go
// factories that implement them. Discovery scans that directory for HCL
// manifests and Starlark scripts, instantiates one module per qualifying
// unit, and publishes the result as an immutable snapshot.
//
// Reload re-runs discovery from scratch and replaces the snapshot with a
// single atomic pointer swap, so a concurrent reader observes either the
// pre-reload set or the post-reload set in its entirety, never a mix.
package registry
