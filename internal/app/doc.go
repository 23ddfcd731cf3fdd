// Package app assembles the application: logger, registry, dispatcher,
// session gate, and HTTP server, and owns the process lifecycle.
package app
