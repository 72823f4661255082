package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("DB_DRIVER", "Postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "go-kasir-api", cfg.JWT.Issuer)
	assert.Equal(t, int64(10), cfg.RateLimit.AuthLimit)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadPrefersPrefixedKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("PORT", "8080")
	t.Setenv("KASIR_APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef-test")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoadDBIgnoresJWTSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("KASIR_DB_DB_NAME", "kasir_dev")

	db, err := LoadDB()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, db.Driver)
	assert.Equal(t, "kasir_dev.db", db.DSN())

	t.Setenv("DB_DRIVER", "oracle")
	_, err = LoadDB()
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	pg := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "kasir", SSLMode: "disable", TimeZone: "UTC"}
	assert.True(t, strings.HasPrefix(pg.DSN(), "host=db user=u password=p dbname=kasir"))

	my := DBConfig{Driver: DriverMySQL, Host: "db", Port: "3306", User: "u", Password: "p", Name: "kasir"}
	assert.Equal(t, "u:p@tcp(db:3306)/kasir?charset=utf8mb4&parseTime=True&loc=Local", my.DSN())

	lite := DBConfig{Driver: DriverSQLite, Name: "kasir"}
	assert.Equal(t, "kasir.db", lite.DSN())

	withURL := DBConfig{Driver: DriverPostgres, URL: "postgres://x"}
	assert.Equal(t, "postgres://x", withURL.DSN())
}
