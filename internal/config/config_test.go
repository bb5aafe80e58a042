package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  host: "127.0.0.1"
  port: 8080

database:
  host: "localhost"
  port: 5432
  user: "hostelhub"
  password: "pw"
  database: "hostelhub"
  ssl_mode: "disable"

sendgrid:
  api_key: "sg-key"
  from_email: "noreply@hostelhub.test"
  from_name: "HostelHub"

jwt:
  secret: "0123456789abcdef0123456789abcdef"
  access_token_expiry_minutes: 30

log:
  level: "debug"
  format: "json"

booking:
  auto_reject_on_capacity: true
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Valid config with defaults filled in", func(t *testing.T) {
		cfg, err := Load(writeTestConfig(t, testYAML))
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Booking.AutoRejectOnCapacity)

		// Unset values fall back to defaults.
		assert.Equal(t, 30, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, 60*24*7, cfg.JWT.RefreshTokenExpiry)
		assert.Equal(t, 5, cfg.Booking.ReserveLockTimeoutSeconds)
		assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ExpireAgreements)
		assert.Equal(t, "0 30 2 * * *", cfg.Scheduler.ExpireStaleBookings)
	})

	t.Run("Environment overrides win", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("SENDGRID_API_KEY", "sg-from-env")

		cfg, err := Load(writeTestConfig(t, testYAML))
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "sg-from-env", cfg.SendGrid.APIKey)
	})

	t.Run("Short JWT secret rejected", func(t *testing.T) {
		cfg := `
server:
  port: 8080
database:
  host: "localhost"
  user: "u"
  database: "d"
sendgrid:
  from_email: "noreply@hostelhub.test"
jwt:
  secret: "too-short"
`
		_, err := Load(writeTestConfig(t, cfg))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("Connection string", func(t *testing.T) {
		cfg, err := Load(writeTestConfig(t, testYAML))
		require.NoError(t, err)
		assert.Equal(t, "postgres://hostelhub:pw@localhost:5432/hostelhub?sslmode=disable", cfg.GetDatabaseConnectionString())
	})
}
