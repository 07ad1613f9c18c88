package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PICKBOARD_SERVER_HOST", "PICKBOARD_SERVER_PORT", "PORT",
		"PICKBOARD_CORS_ORIGIN", "CORS_ORIGIN",
		"PICKBOARD_ADMIN_TOKEN", "X_ADMIN_TOKEN",
		"PICKBOARD_DATABASE_URL", "DATABASE_URL",
		"PICKBOARD_OUTPUT_FILE", "PICKBOARD_TRADITIONAL_CHINESE",
		"PICKBOARD_VOTE_API_URL", "PICKBOARD_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pickboard.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Empty(t, cfg.Server.AdminToken)
	assert.Equal(t, "sqlite://pickboard.db", cfg.Database.URL)
	assert.Equal(t, 5, cfg.Page.PostsPerBatch)
	assert.Equal(t, 1, cfg.Page.InitialVisibleBatches)
	assert.Equal(t, 30, cfg.Page.MaxPosts)
	assert.False(t, cfg.Page.TraditionalChinese)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	clearEnv(t)
	path := writeTOML(t, `
[server]
port = 9090
admin_token = "secret"

[database]
url = "postgres://user:pw@db/pickboard"

[page]
output_file = "/srv/www/index.html"
traditional_chinese = true
max_posts = 10

[rate_limit]
interval = "1s"
burst = 2

[logging]
level = "debug"
outputs = ["console", "file"]
`)

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.AdminToken)
	assert.Equal(t, "postgres://user:pw@db/pickboard", cfg.Database.URL)
	assert.Equal(t, "/srv/www/index.html", cfg.Page.OutputFile)
	assert.True(t, cfg.Page.TraditionalChinese)
	assert.Equal(t, 10, cfg.Page.MaxPosts)
	assert.Equal(t, 5, cfg.Page.PostsPerBatch, "unset keys keep defaults")
	assert.Equal(t, time.Second, cfg.RateLimit.Every())
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.Equal(t, []string{"console", "file"}, cfg.Logging.Outputs)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	clearEnv(t)
	base := writeTOML(t, "[server]\nport = 9000\nhost = \"127.0.0.1\"\n")
	override := writeTOML(t, "[server]\nport = 9100\n")

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFromFiles(writeTOML(t, "[server\nport = "))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeTOML(t, "[server]\nport = 9090\n")

	t.Setenv("PICKBOARD_SERVER_PORT", "7000")
	t.Setenv("DATABASE_URL", "sqlite://env.db")
	t.Setenv("X_ADMIN_TOKEN", "from-env")
	t.Setenv("PICKBOARD_TRADITIONAL_CHINESE", "true")
	t.Setenv("PICKBOARD_LOG_LEVEL", "warn")

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "sqlite://env.db", cfg.Database.URL)
	assert.Equal(t, "from-env", cfg.Server.AdminToken)
	assert.True(t, cfg.Page.TraditionalChinese)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverrides_PrefixedNameWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	t.Setenv("PICKBOARD_SERVER_PORT", "6000")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 8080, cfg.Server.Port)

	ApplyFlagOverrides(cfg, 4000, "localhost")
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "localhost:4000", cfg.Server.Addr())
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Database.URL = "mysql://nope"
	cfg.Page.PostsPerBatch = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
	assert.Contains(t, err.Error(), "posts_per_batch")
}

func TestRateLimitEvery_Fallback(t *testing.T) {
	assert.Equal(t, 3*time.Second, RateLimitConfig{Interval: "soon"}.Every())
	assert.Equal(t, 3*time.Second, RateLimitConfig{}.Every())
	assert.Equal(t, 500*time.Millisecond, RateLimitConfig{Interval: "500ms"}.Every())
}

func TestDiscoverFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Nil(t, DiscoverFiles())

	require.NoError(t, os.MkdirAll(filepath.Join("deployments", "local"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("deployments", "local", "pickboard.toml"), nil, 0o644))
	assert.Equal(t, []string{filepath.Join("deployments", "local", "pickboard.toml")}, DiscoverFiles())

	require.NoError(t, os.WriteFile("pickboard.toml", nil, 0o644))
	assert.Equal(t, []string{"pickboard.toml"}, DiscoverFiles())
}
