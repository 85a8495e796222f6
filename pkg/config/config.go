package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Pricing      PricingConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PARTSPORTAL_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTSPORTAL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTSPORTAL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTSPORTAL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARTSPORTAL_DB_DSN"`
	Driver string `envconfig:"PARTSPORTAL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARTSPORTAL_DB_HOST"`
	LegacyPort     int    `envconfig:"PARTSPORTAL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARTSPORTAL_DB_USER"`
	LegacyPassword string `envconfig:"PARTSPORTAL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARTSPORTAL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARTSPORTAL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTSPORTAL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTSPORTAL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTSPORTAL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTSPORTAL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTSPORTAL_REDIS_URL"`
	Address      string        `envconfig:"PARTSPORTAL_REDIS_ADDR"`
	Password     string        `envconfig:"PARTSPORTAL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTSPORTAL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTSPORTAL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTSPORTAL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTSPORTAL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTSPORTAL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTSPORTAL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARTSPORTAL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARTSPORTAL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARTSPORTAL_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PricingConfig struct {
	Currency string `envconfig:"PARTSPORTAL_PRICING_CURRENCY" default:"GBP"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PARTSPORTAL_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
	OrderNoPrefix  string        `envconfig:"PARTSPORTAL_CHECKOUT_ORDER_NO_PREFIX" default:"ORD"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PARTSPORTAL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PARTSPORTAL_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
