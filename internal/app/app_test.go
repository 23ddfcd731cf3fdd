package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusScript = `
NAME = "Probe"

def get_status():
    return {"state": "ok"}

def get_actions():
    return [{"id": "poke", "label": "Poke", "variant": "primary"}]

def execute_action(action_id, params):
    return {"success": True, "message": "poked"}
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "probe.star"), []byte(statusScript), 0600))

	logBuf := &bytes.Buffer{}
	cfg, err := NewConfig(Config{
		Addr:        "127.0.0.1:0",
		ModulesPath: dir,
		LogFormat:   "json",
		LogLevel:    "debug",
		Username:    "admin",
	})
	require.NoError(t, err)

	return NewApp(logBuf, cfg), logBuf
}

func TestNewApp_DefaultCredentialsAreWarnedAbout(t *testing.T) {
	t.Parallel()

	_, logBuf := newTestApp(t)

	logs := logBuf.String()
	assert.Contains(t, logs, "No password hash configured",
		"running on the dev default credentials must be loud in the logs")
	assert.Contains(t, logs, "No session secret configured")
}

func TestApp_EndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	a, _ := newTestApp(t)
	_, err := a.Registry().Reload(context.Background())
	require.NoError(t, err)

	ts := httptest.NewServer(a.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	// --- Act: log in with the dev default credentials. ---
	resp, err := client.PostForm(ts.URL+"/login", url.Values{
		"username": {"admin"},
		"password": {"admin"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	// --- Assert: the script module shows up through the full stack. ---
	resp, err = client.Get(ts.URL + "/api/modules")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Modules []struct {
			ID     string         `json:"id"`
			Name   string         `json:"name"`
			Status map[string]any `json:"status"`
		} `json:"modules"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.Len(t, body.Modules, 1)
	assert.Equal(t, "probe", body.Modules[0].ID)
	assert.Equal(t, "Probe", body.Modules[0].Name)
	assert.Equal(t, "ok", body.Modules[0].Status["state"])
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	valid := Config{Addr: "127.0.0.1:8080", ModulesPath: "modules.d", Username: "admin"}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(valid)
		require.NoError(t, err)
		assert.Equal(t, valid.Addr, cfg.Addr)
	})

	t.Run("missing addr", func(t *testing.T) {
		t.Parallel()
		c := valid
		c.Addr = ""
		_, err := NewConfig(c)
		assert.Error(t, err)
	})

	t.Run("missing modules path", func(t *testing.T) {
		t.Parallel()
		c := valid
		c.ModulesPath = ""
		_, err := NewConfig(c)
		assert.Error(t, err)
	})

	t.Run("missing username", func(t *testing.T) {
		t.Parallel()
		c := valid
		c.Username = ""
		_, err := NewConfig(c)
		assert.Error(t, err)
	})
}
