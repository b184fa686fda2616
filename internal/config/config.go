package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"local"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	LogLevel string `env:"LOG_LEVEL" env-default:""`

	HTTP     HTTPConfig
	DB       DBConfig
	Token    TokenConfig
	Password PasswordConfig
	CORS     CORSConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DBConfig struct {
	Driver       string        `env:"DB_DRIVER" env-default:"sqlite"`
	Host         string        `env:"DB_HOST" env-default:"localhost"`
	Port         string        `env:"DB_PORT" env-default:"3306"`
	User         string        `env:"DB_USER" env-default:"taskuser"`
	Password     string        `env:"DB_PASSWORD" env-default:"taskpassword"`
	Name         string        `env:"DB_NAME" env-default:"task_management"`
	SSLMode      string        `env:"DB_SSL_MODE" env-default:"disable"`
	SQLitePath   string        `env:"DB_SQLITE_PATH" env-default:"data/tasks.db"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

// TokenConfig controls bearer token issuance. NoExpiry must be set
// explicitly to issue tokens without an exp claim.
type TokenConfig struct {
	Secret   string        `env:"TOKEN_SECRET" env-default:""`
	Issuer   string        `env:"TOKEN_ISSUER" env-default:"project-task-api"`
	TTL      time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	NoExpiry bool          `env:"TOKEN_NO_EXPIRY" env-default:"false"`
}

type PasswordConfig struct {
	Algorithm  string `env:"PASSWORD_ALGORITHM" env-default:"bcrypt"`
	BcryptCost int    `env:"PASSWORD_BCRYPT_COST" env-default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type"`
}

// IsRelease reports whether the server runs with production settings.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release" || c.Env == EnvProd
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.DB.Driver)
	}

	if c.Token.TTL <= 0 && !c.Token.NoExpiry {
		return errors.New("TOKEN_TTL must be positive unless TOKEN_NO_EXPIRY is set")
	}
	if c.IsRelease() && c.Token.Secret == "" {
		return errors.New("TOKEN_SECRET is required in release mode")
	}
	return nil
}

// Reader produces a raw configuration. Load validates it.
type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads the configuration from the process environment,
// after loading the optional dotenv files.
type EnvReader struct {
	files []string
}

func NewEnvReader(files ...string) EnvReader {
	if len(files) == 0 {
		files = []string{".env"}
	}
	return EnvReader{files: files}
}

func (r EnvReader) Read() (*Config, error) {
	for _, f := range r.files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration from r and validates it.
func Load(r Reader) (*Config, error) {
	cfg, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
