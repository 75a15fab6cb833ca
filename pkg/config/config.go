package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; the struct tags already carry the
	// full STITCHSYNC_ names, so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "STITCHSYNC_DB_DSN"
	EnvDBHost = "STITCHSYNC_DB_HOST"
	EnvDBUser = "STITCHSYNC_DB_USER"
	EnvDBName = "STITCHSYNC_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Shopify      ShopifyConfig
	Supplier     SupplierConfig
	Cron         CronConfig
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
	Env      string `envconfig:"STITCHSYNC_APP_ENV" required:"true"`
	Port     string `envconfig:"STITCHSYNC_APP_PORT" required:"true"`
	LogLevel string `envconfig:"STITCHSYNC_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STITCHSYNC_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"STITCHSYNC_DB_DSN"`
	Driver string `envconfig:"STITCHSYNC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STITCHSYNC_DB_HOST"`
	LegacyPort     int    `envconfig:"STITCHSYNC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STITCHSYNC_DB_USER"`
	LegacyPassword string `envconfig:"STITCHSYNC_DB_PASSWORD"`
	LegacyName     string `envconfig:"STITCHSYNC_DB_NAME"`
	LegacySSLMode  string `envconfig:"STITCHSYNC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STITCHSYNC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STITCHSYNC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STITCHSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STITCHSYNC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STITCHSYNC_REDIS_URL"`
	Address      string        `envconfig:"STITCHSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"STITCHSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"STITCHSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STITCHSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STITCHSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STITCHSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STITCHSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STITCHSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShopifyConfig carries the Admin API credentials. The API secret doubles as
// the key that signs embedded-app session tokens.
type ShopifyConfig struct {
	APIKey     string        `envconfig:"STITCHSYNC_SHOPIFY_API_KEY"`
	APISecret  string        `envconfig:"STITCHSYNC_SHOPIFY_API_SECRET"`
	AdminToken string        `envconfig:"STITCHSYNC_SHOPIFY_ADMIN_TOKEN"`
	APIVersion string        `envconfig:"STITCHSYNC_SHOPIFY_API_VERSION" default:"2024-10"`
	Timeout    time.Duration `envconfig:"STITCHSYNC_SHOPIFY_TIMEOUT" default:"30s"`
}

// SupplierConfig carries the SSActiveWear API credentials.
type SupplierConfig struct {
	BaseURL    string        `envconfig:"STITCHSYNC_SUPPLIER_BASE_URL" default:"https://api.ssactivewear.com/v2"`
	AccountNum string        `envconfig:"STITCHSYNC_SUPPLIER_ACCOUNT"`
	APIKey     string        `envconfig:"STITCHSYNC_SUPPLIER_API_KEY"`
	Timeout    time.Duration `envconfig:"STITCHSYNC_SUPPLIER_TIMEOUT" default:"30s"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"STITCHSYNC_CRON_INTERVAL" default:"1m"`
	LockTTL         time.Duration `envconfig:"STITCHSYNC_CRON_LOCK_TTL" default:"10m"`
	PriceWriteLimit int           `envconfig:"STITCHSYNC_PRICE_WRITE_CONCURRENCY" default:"4"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STITCHSYNC_AUTO_MIGRATE" default:"false"`
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
