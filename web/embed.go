// Package web embeds the static frontend assets for the dashboard: the
// page shell, the login form, and the card-rendering script and styles.
// Everything is compiled into the binary and served by the HTTP server.
package web

import "embed"

// Assets holds the embedded frontend files.
//
//go:embed index.html login.html static
var Assets embed.FS
