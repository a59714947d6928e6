package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, time.Second, c.SettleDelay)
	assert.Equal(t, 3, c.SettleAttempts)
	assert.Equal(t, 4*time.Second, c.NoticeTTL)
	assert.Equal(t, 50, c.PageSize)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.ServerURL = "127.0.0.1:8000"
	require.Error(t, c.Validate())

	c = defaults()
	c.PageSize = 0
	c.SettleAttempts = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page size")
	assert.Contains(t, err.Error(), "settle attempts")
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api.example:9000", "-t", "3", "-d", "/tmp/x.db", "-l", "debug"},
			want: func(c *Config) {
				c.ServerURL = "http://api.example:9000"
				c.RequestTimeout = 3 * time.Second
				c.DBPath = "/tmp/x.db"
				c.LogLevel = "debug"
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "cfg.json", "-x", "-l=warn"},
			want: func(c *Config) { c.LogLevel = "warn" },
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(&got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseFlags_TimeoutUntouchedWithoutFlag(t *testing.T) {
	c := defaults()
	c.RequestTimeout = 1500 * time.Millisecond
	require.NoError(t, parseFlags(&c, nil))
	assert.Equal(t, 1500*time.Millisecond, c.RequestTimeout)
}

func TestParseJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		// local backend
		"server_url": "http://localhost:8080",
		"request_timeout": "2s",
		"settle_delay": 500000000,
		"page_size": 20,
	}`)

	c := defaults()
	require.NoError(t, parseJSON(&c, []string{"-config", path}))

	want := defaults()
	want.ServerURL = "http://localhost:8080"
	want.RequestTimeout = 2 * time.Second
	want.SettleDelay = 500 * time.Millisecond
	want.PageSize = 20
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseJSON_NoFileNoChange(t *testing.T) {
	c := defaults()
	require.NoError(t, parseJSON(&c, []string{"-a", "http://x"}))
	assert.Equal(t, defaults(), c)
}

func TestParseJSON_Errors(t *testing.T) {
	c := defaults()
	require.Error(t, parseJSON(&c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))

	bad := writeFile(t, "bad.json", `{ this is not valid json`)
	require.Error(t, parseJSON(&c, []string{"-c", bad}))

	badDur := writeFile(t, "dur.json", `{"notice_ttl": "soon"}`)
	require.Error(t, parseJSON(&c, []string{"-c", badDur}))
}

func TestParseEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "LAUNCHPAD_SERVER_URL=http://from-file:1\nLAUNCHPAD_PAGE_SIZE=10\nLAUNCHPAD_LOG_LEVEL=warn\n")
	env := map[string]string{
		"LAUNCHPAD_SERVER_URL":   "http://from-env:2",
		"LAUNCHPAD_SETTLE_DELAY": "250ms",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	c := defaults()
	require.NoError(t, parseEnv(&c, envFile, lookup))

	assert.Equal(t, "http://from-env:2", c.ServerURL)
	assert.Equal(t, 10, c.PageSize)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, 250*time.Millisecond, c.SettleDelay)
}

func TestParseEnv_MissingFileAndBadValues(t *testing.T) {
	c := defaults()
	require.NoError(t, parseEnv(&c, filepath.Join(t.TempDir(), ".env"), noEnv))
	assert.Equal(t, defaults(), c)

	bad := func(k string) (string, bool) {
		if k == "LAUNCHPAD_PAGE_SIZE" {
			return "many", true
		}
		return "", false
	}
	require.Error(t, parseEnv(&c, "", bad))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"server_url": "http://json:1", "log_level": "error"}`)

	cfg, err := Load([]string{"-c", path, "-l", "debug"})
	require.NoError(t, err)
	assert.Equal(t, "http://json:1", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load([]string{"-a", "not a url"})
	require.Error(t, err)
}
