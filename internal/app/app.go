package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nihilentropy-117/Web-Controller/internal/auth"
	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
	"github.com/Nihilentropy-117/Web-Controller/internal/dispatch"
	"github.com/Nihilentropy-117/Web-Controller/internal/registry"
	"github.com/Nihilentropy-117/Web-Controller/internal/server"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	server     *server.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Critical setup errors panic; the caller recovers for a clean exit message.
func NewApp(outW io.Writer, cfg *Config, builtins ...registry.Builtin) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(cfg.ModulesPath)
	if len(builtins) == 0 {
		builtins = coreBuiltins
	}
	for _, b := range builtins {
		b.Register(reg)
	}
	logger.Debug("All builtin runners registered.", "count", len(builtins))

	gate := auth.NewGate(sessionSecret(logger, cfg), cfg.Username, passwordHash(logger, cfg))
	dispatcher := dispatch.New(reg)
	srv := server.New(reg, dispatcher, gate)

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		registry:   reg,
		dispatcher: dispatcher,
		server:     srv,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Handler returns the HTTP surface. This is primarily for testing.
func (a *App) Handler() http.Handler {
	return a.server
}

// Run performs the initial module discovery and serves HTTP until the
// context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	count, err := a.registry.Reload(ctx)
	if err != nil {
		return fmt.Errorf("initial module discovery failed: %w", err)
	}
	a.logger.Info("Modules discovered.", "count", count, "path", a.config.ModulesPath)

	httpServer := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.server,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🎛️ Dashboard listening.", "address", fmt.Sprintf("http://%s/", a.config.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// passwordHash resolves the account's bcrypt hash, generating the dev
// default (password "admin") when none is configured.
func passwordHash(logger *slog.Logger, cfg *Config) []byte {
	if cfg.PasswordHash != "" {
		return []byte(cfg.PasswordHash)
	}
	logger.Warn("No password hash configured, using default credentials. Do not expose this instance.")
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Errorf("failed to generate default password hash: %w", err))
	}
	return hash
}

// sessionSecret resolves the cookie-signing secret. A random per-process
// secret still works but invalidates all sessions on restart.
func sessionSecret(logger *slog.Logger, cfg *Config) string {
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret
	}
	logger.Warn("No session secret configured, using a random per-process secret.")
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to generate session secret: %w", err))
	}
	return hex.EncodeToString(buf)
}
