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
	RecordDB     DBConfig
	LedgerDB     LedgerDBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	PurchaseRate PurchaseRateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.RecordDB.Driver = "sqlite"
		cfg.LedgerDB.Driver = "sqlite"
	}
	if err := cfg.RecordDB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MODELMART_APP_ENV" required:"true"`
	Port         string `envconfig:"MODELMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MODELMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MODELMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the record store (model listings) connection.
type DBConfig struct {
	DSN    string `envconfig:"MODELMART_RECORD_DB_DSN"`
	Driver string `envconfig:"MODELMART_RECORD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MODELMART_RECORD_DB_HOST"`
	LegacyPort     int    `envconfig:"MODELMART_RECORD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MODELMART_RECORD_DB_USER"`
	LegacyPassword string `envconfig:"MODELMART_RECORD_DB_PASSWORD"`
	LegacyName     string `envconfig:"MODELMART_RECORD_DB_NAME"`
	LegacySSLMode  string `envconfig:"MODELMART_RECORD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MODELMART_RECORD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MODELMART_RECORD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MODELMART_RECORD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODELMART_RECORD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// LedgerDBConfig describes the purchase ledger store. It is a separate
// connection on purpose: the purchase flow spans two databases with no shared
// transaction.
type LedgerDBConfig struct {
	DSN    string `envconfig:"MODELMART_LEDGER_DB_DSN" required:"true"`
	Driver string `envconfig:"MODELMART_LEDGER_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"MODELMART_LEDGER_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MODELMART_LEDGER_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MODELMART_LEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MODELMART_LEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// AsDBConfig adapts the ledger settings to the shared db client config.
func (l LedgerDBConfig) AsDBConfig() DBConfig {
	return DBConfig{
		DSN:             l.DSN,
		Driver:          l.Driver,
		MaxOpenConns:    l.MaxOpenConns,
		MaxIdleConns:    l.MaxIdleConns,
		ConnMaxLifetime: l.ConnMaxLifetime,
		ConnMaxIdleTime: l.ConnMaxIdleTime,
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"MODELMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MODELMART_REDIS_ADDR"`
	Password     string        `envconfig:"MODELMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MODELMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MODELMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MODELMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MODELMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MODELMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MODELMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MODELMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MODELMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MODELMART_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MODELMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type PurchaseRateLimitConfig struct {
	Window time.Duration `envconfig:"MODELMART_PURCHASE_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"MODELMART_PURCHASE_RATE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MODELMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MODELMART_AUTO_MIGRATE" default:"false"`
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
		return fmt.Errorf("either %s or %s are required", EnvRecordDBDSN, strings.Join(missing, ", "))
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
