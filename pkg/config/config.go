package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Gateway  GatewayConfig
	Sequence SequenceConfig
	Features FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAPKART_APP_ENV" required:"true"`
	Port         string `envconfig:"LAPKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAPKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAPKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LAPKART_DB_DSN"`
	Driver string `envconfig:"LAPKART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LAPKART_DB_HOST"`
	Port     int    `envconfig:"LAPKART_DB_PORT" default:"5432"`
	User     string `envconfig:"LAPKART_DB_USER"`
	Password string `envconfig:"LAPKART_DB_PASSWORD"`
	Name     string `envconfig:"LAPKART_DB_NAME"`
	SSLMode  string `envconfig:"LAPKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAPKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAPKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAPKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAPKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name must be provided")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"LAPKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAPKART_REDIS_ADDR"`
	Password     string        `envconfig:"LAPKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAPKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAPKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAPKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAPKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAPKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAPKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LAPKART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LAPKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LAPKART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LAPKART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LAPKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LAPKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LAPKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LAPKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LAPKART_ARGON_KEY_LEN" default:"32"`
}

// GatewayConfig carries the payment gateway credentials used to create
// gateway orders and verify capture signatures.
type GatewayConfig struct {
	KeyID     string `envconfig:"LAPKART_GATEWAY_KEY_ID" required:"true"`
	KeySecret string `envconfig:"LAPKART_GATEWAY_KEY_SECRET" required:"true"`
	Currency  string `envconfig:"LAPKART_GATEWAY_CURRENCY" default:"INR"`
}

// SequenceConfig controls the human-readable order identifier format.
type SequenceConfig struct {
	OrderPrefix   string `envconfig:"LAPKART_SEQUENCE_ORDER_PREFIX" default:"ORD"`
	OrderPadWidth int    `envconfig:"LAPKART_SEQUENCE_ORDER_PAD_WIDTH" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LAPKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LAPKART_AUTO_MIGRATE" default:"false"`
}
