package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	// Load reads .env from the working directory.
	t.Chdir(t.TempDir())
	for _, name := range []string{
		"SEALBOARD_CONFIG_PATH", "SEALBOARD_SERVER_HOST", "SEALBOARD_SERVER_PORT",
		"SEALBOARD_DB_PATH", "SEALBOARD_LOG_LEVEL", "SEALBOARD_LOG_FORMAT", "SEALBOARD_LOG_PATH",
		"SEALBOARD_AUTH_ENABLED", "SEALBOARD_JWT_SECRET", "SEALBOARD_DEFAULT_TENANT",
		"SEALBOARD_TRANSPORT_MODE", "SEALBOARD_VIEW_DEFAULT_PAGE_SIZE", "SEALBOARD_VIEW_MAX_PAGE_SIZE",
		"SEALBOARD_SOURCE_URL", "SEALBOARD_SOURCE_TOKEN", "SEALBOARD_SOURCE_TIMEOUT", "SEALBOARD_SOURCE_MAX_RETRIES",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sealboard.db", cfg.DB.Path)
	require.Equal(t, 8, cfg.View.DefaultPageSize)
	require.Equal(t, 100, cfg.View.MaxPageSize)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 10*time.Second, cfg.Source.Timeout.Std())
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "sealboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  read_timeout: 2s
log:
  level: debug
  format: json
view:
  default_page_size: 10
source:
  base_url: http://erp.local/api
  timeout: 3s
`), 0o644))

	t.Setenv("SEALBOARD_CONFIG_PATH", path)
	t.Setenv("SEALBOARD_SERVER_PORT", "9100")
	t.Setenv("SEALBOARD_SOURCE_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, 2*time.Second, cfg.Server.ReadTimeout.Std())
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 10, cfg.View.DefaultPageSize)
	require.Equal(t, "http://erp.local/api", cfg.Source.BaseURL)
	require.Equal(t, "secret", cfg.Source.Token)
	require.Equal(t, 3*time.Second, cfg.Source.Timeout.Std())
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("SEALBOARD_DB_PATH=from-dotenv.db\n"), 0o644))
	// godotenv never overrides variables that are already set, even to "".
	require.NoError(t, os.Unsetenv("SEALBOARD_DB_PATH"))
	t.Cleanup(func() { os.Unsetenv("SEALBOARD_DB_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.db", cfg.DB.Path)
}

func TestLoad_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SEALBOARD_SERVER_PORT", "eighty")

	_, err := Load()
	require.ErrorContains(t, err, "SEALBOARD_SERVER_PORT")
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  read_timeout: soon\n"), 0o644))
	t.Setenv("SEALBOARD_CONFIG_PATH", path)

	_, err := Load()
	require.ErrorContains(t, err, "invalid duration")
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Auth.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "SEALBOARD_JWT_SECRET")

	cfg = Defaults()
	cfg.View.MaxPageSize = 4
	require.ErrorContains(t, cfg.Validate(), "max_page_size")

	cfg = Defaults()
	cfg.Transport.Mode = "grpc"
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.ErrorContains(t, err, "transport.mode")
	require.ErrorContains(t, err, "log.level")
}
