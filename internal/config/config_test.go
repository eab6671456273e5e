package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("db", "", "")
	fs.String("location", "", "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

// isolate keeps the developer's own config file and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, key := range []string{"BYEAUTO_DB", "BYEAUTO_DB_PATH", "BYEAUTO_LOCATION", "BYEAUTO_LOG_LEVEL", "BYEAUTO_ROSTER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".byeauto", "byeauto.db"), cfg.DB.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, []string{"Marius", "Andrei", "Elena", "Bogdan"}, cfg.Roster)
	assert.True(t, cfg.Seed.Examples)
	assert.Len(t, cfg.SeedItems(), 4)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.Refresh)
	assert.Empty(t, cfg.File)

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("BYEAUTO_DB", "/tmp/shop.db")
	t.Setenv("BYEAUTO_ROSTER", "Ana, Victor")
	t.Setenv("BYEAUTO_SEED_EXAMPLES", "false")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shop.db", cfg.DB.Path)
	assert.Equal(t, []string{"Ana", "Victor"}, cfg.Roster)
	assert.Nil(t, cfg.SeedItems())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BYEAUTO_DB", "/tmp/env.db")

	cfg, err := Load(newFlags(t, "--db", "/tmp/flag.db", "--log-level", "debug", "--location", "UTC"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: /srv/byeauto.db
log:
  format: json
roster: [Ana, Victor]
dashboard:
  refresh: 30s
`), 0o644))

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/srv/byeauto.db", cfg.DB.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"Ana", "Victor"}, cfg.Roster)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.Refresh)
}

func TestLoad_DiscoversFileInWorkingDir(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("byeauto.yaml", []byte("location: UTC\n"), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Location)
	assert.NotEmpty(t, cfg.File)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string][]string{
		"location":  {"--location", "Mars/Olympus"},
		"log level": {"--log-level", "loud"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := Load(newFlags(t, args...))
			assert.Error(t, err)
		})
	}
}

func TestValidate_LogFormatAndRefresh(t *testing.T) {
	cfg := &Config{Location: "UTC"}
	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	cfg.Dashboard.Refresh = 5 * time.Second
	assert.Error(t, cfg.Validate())

	cfg.Log.Format = "json"
	cfg.Dashboard.Refresh = 100 * time.Millisecond
	assert.Error(t, cfg.Validate())

	cfg.Dashboard.Refresh = time.Second
	assert.NoError(t, cfg.Validate())
}
