package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Nihilentropy-117/Web-Controller/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Credentials and the session secret are environment-only on purpose: flags
// leak into process listings.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("webcontroller", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Web Controller - A self-hosted module dashboard.

Modules are defined by .hcl manifests and .star scripts in the modules
directory and can be reloaded at runtime from the UI.

Environment:
  WEBCONTROLLER_USERNAME        Account username (default "admin").
  WEBCONTROLLER_PASSWORD_HASH   Bcrypt hash of the account password.
  WEBCONTROLLER_SESSION_SECRET  Secret that signs the session cookie.
  WEBCONTROLLER_ADDR            Bind address (overridden by -addr).

Options:
`)
		flagSet.PrintDefaults()
	}

	addrFlag := flagSet.String("addr", "", "Address to bind the HTTP server to. Default: 127.0.0.1:8080.")
	modulesPathFlag := flagSet.String("modules-path", "modules.d", "Path to the directory containing module definitions.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	addr := *addrFlag
	if addr == "" {
		addr = getEnv("WEBCONTROLLER_ADDR", "127.0.0.1:8080")
	}

	config, err := app.NewConfig(app.Config{
		Addr:          addr,
		ModulesPath:   *modulesPathFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		Username:      getEnv("WEBCONTROLLER_USERNAME", "admin"),
		PasswordHash:  getEnv("WEBCONTROLLER_PASSWORD_HASH", ""),
		SessionSecret: getEnv("WEBCONTROLLER_SESSION_SECRET", ""),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
