package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every key (KASIR_APP_PORT); the bare tag name (PORT)
// is used when the namespaced key is not set.
const EnvPrefix = "KASIR"

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	DB        DBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// Load reads the configuration from the environment. Call godotenv.Load first
// if a .env file should be honored.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDB reads only the database settings, for tools that never issue
// tokens. Keys resolve exactly as they do through Load.
func LoadDB() (*DBConfig, error) {
	var db DBConfig
	if err := envconfig.Process(EnvPrefix+"_DB", &db); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := db.validate(); err != nil {
		return nil, err
	}
	return &db, nil
}

func (c *Config) validate() error {
	if err := c.DB.validate(); err != nil {
		return err
	}
	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

type AppConfig struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Name string `envconfig:"APP_NAME" default:"Kasir POS API"`
	Port string `envconfig:"PORT" default:"3000"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "production")
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

type DBConfig struct {
	Driver string `envconfig:"DB_DRIVER" default:"postgres"`
	URL    string `envconfig:"DATABASE_URL"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"kasir"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Jakarta"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`

	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	LogLevel    string `envconfig:"DB_LOG_LEVEL" default:"warn"`
}

func (d *DBConfig) validate() error {
	switch strings.ToLower(d.Driver) {
	case DriverPostgres, DriverMySQL, DriverSQLite:
		d.Driver = strings.ToLower(d.Driver)
		return nil
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
}

// DSN returns DATABASE_URL when set, otherwise a driver specific DSN built
// from the discrete DB_* settings.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case DriverSQLite:
		return d.Name + ".db"
	default:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
		)
	}
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"go-kasir-api"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type RateLimitConfig struct {
	AuthLimit  int64         `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	AuthWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}
