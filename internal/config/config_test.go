package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvReader_Defaults(t *testing.T) {
	cfg, err := Load(NewEnvReader(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.False(t, cfg.Token.NoExpiry)
	assert.Equal(t, "bcrypt", cfg.Password.Algorithm)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"Authorization", "Content-Type"}, cfg.CORS.AllowedHeaders)
}

func TestEnvReader_DotEnvAndEnvironment(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("DB_DRIVER=postgres\nTOKEN_TTL=1h\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DB_DRIVER")
		os.Unsetenv("TOKEN_TTL")
	})
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load(NewEnvReader(dotenv))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
	assert.Equal(t, "9090", cfg.HTTP.Port)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:     EnvLocal,
			GinMode: "debug",
			DB:      DBConfig{Driver: DriverSQLite},
			Token:   TokenConfig{TTL: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.DB.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Token.TTL = 0
	assert.Error(t, cfg.Validate())
	cfg.Token.NoExpiry = true
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.GinMode = "release"
	assert.Error(t, cfg.Validate(), "release mode needs a secret")
	cfg.Token.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

type staticReader struct {
	cfg *Config
	err error
}

func (r staticReader) Read() (*Config, error) {
	return r.cfg, r.err
}

func TestLoad_ValidatesReaderOutput(t *testing.T) {
	cfg := &Config{
		Env:   EnvLocal,
		DB:    DBConfig{Driver: DriverSQLite},
		Token: TokenConfig{TTL: time.Hour},
	}
	loaded, err := Load(staticReader{cfg: cfg})
	require.NoError(t, err)
	assert.Same(t, cfg, loaded)

	_, err = Load(staticReader{cfg: &Config{Env: "staging"}})
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(staticReader{err: assert.AnError})
	assert.ErrorIs(t, err, assert.AnError)
}
