package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	out := &bytes.Buffer{}

	config, shouldExit, err := Parse([]string{}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.NotNil(t, config)

	assert.Equal(t, "127.0.0.1:8080", config.Addr)
	assert.Equal(t, "modules.d", config.ModulesPath)
	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "admin", config.Username)
	assert.Empty(t, config.PasswordHash)
}

func TestParse_Flags(t *testing.T) {
	out := &bytes.Buffer{}

	args := []string{
		"-addr", "0.0.0.0:9000",
		"-modules-path", "/etc/webcontroller/modules",
		"-log-format", "json",
		"-log-level", "DEBUG",
	}
	config, shouldExit, err := Parse(args, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "0.0.0.0:9000", config.Addr)
	assert.Equal(t, "/etc/webcontroller/modules", config.ModulesPath)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel, "log level is lower-cased")
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("WEBCONTROLLER_ADDR", "10.0.0.1:8888")
	t.Setenv("WEBCONTROLLER_USERNAME", "operator")
	t.Setenv("WEBCONTROLLER_PASSWORD_HASH", "$2a$10$fakehash")
	t.Setenv("WEBCONTROLLER_SESSION_SECRET", "sekrit")

	config, _, err := Parse([]string{}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1:8888", config.Addr)
	assert.Equal(t, "operator", config.Username)
	assert.Equal(t, "$2a$10$fakehash", config.PasswordHash)
	assert.Equal(t, "sekrit", config.SessionSecret)
}

func TestParse_AddrFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("WEBCONTROLLER_ADDR", "10.0.0.1:8888")

	config, _, err := Parse([]string{"-addr", "127.0.0.1:7777"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", config.Addr)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}

	config, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit, "help should request a clean exit")
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "WEBCONTROLLER_USERNAME", "usage text should document the environment variables")
}

func TestParse_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad log format", []string{"-log-format", "xml"}},
		{"bad log level", []string{"-log-level", "loud"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
