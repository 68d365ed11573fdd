package investor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig_WritesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join("conf", "investor.yml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// every key shows up in the file
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	for _, key := range []string{"investing", "currency", "store", "database", "log", "server"} {
		assert.Contains(t, doc, key)
	}
}

func TestLoadConfig_KeepsValues(t *testing.T) {
	chdir(t, t.TempDir())
	path := "investor.yml"
	require.NoError(t, os.WriteFile(path, []byte(`
investing:
  alphavantagekey: secret
  timeout: 3s
  cachettl: 1m
store:
  type: pebble
  path: holdings
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Investing.AlphaVantageKey)
	assert.Equal(t, 3*time.Second, cfg.Investing.Timeout)
	assert.Equal(t, time.Minute, cfg.Investing.CacheTTL)
	assert.Equal(t, "pebble", cfg.Store.Type)
	assert.Equal(t, "holdings", cfg.Store.Path)
	// missing keys get their defaults
	assert.Equal(t, DefaultQuoteURL, cfg.Investing.BaseURL)
	assert.Equal(t, "investor.db", cfg.Database.Path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ALPHAVANTAGE_KEY", "from-env")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("INVESTOR_ACCOUNT", alice.String())

	cfg, err := LoadConfig("investor.yml")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Investing.AlphaVantageKey)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.Origins)
	assert.Equal(t, alice.String(), cfg.Account)

	data, err := os.ReadFile("investor.yml")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env", "environment values are not saved")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("ALPHAVANTAGE_KEY=dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("ALPHAVANTAGE_KEY") })

	cfg, err := LoadConfig("investor.yml")
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.Investing.AlphaVantageKey)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "unknown currency", modify: func(c *Config) { c.Currency = "ZZZZ" }},
		{name: "unknown store", modify: func(c *Config) { c.Store.Type = "redis" }},
		{name: "no store path", modify: func(c *Config) { c.Store.Path = "" }},
		{name: "no database path", modify: func(c *Config) { c.Database.Path = "" }},
		{name: "bad account", modify: func(c *Config) { c.Account = "steve" }},
		{name: "negative timeout", modify: func(c *Config) { c.Investing.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			require.NoError(t, c.Validate())
			tt.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_MalformedDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("JUST_A_WORD\n"), 0644))

	_, err := LoadConfig("investor.yml")
	assert.ErrorContains(t, err, ".env")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
