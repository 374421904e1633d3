package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "kardz"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDBDSN  = "KARDZ_DB_DSN"
	EnvDBHost = "KARDZ_DB_HOST"
	EnvDBUser = "KARDZ_DB_USER"
	EnvDBName = "KARDZ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Settlement   SettlementConfig
	Admin        AdminConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensure(); err != nil {
		return nil, err
	}
	if err := cfg.Settlement.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KARDZ_APP_ENV" required:"true"`
	Port         string `envconfig:"KARDZ_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"KARDZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KARDZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"KARDZ_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"KARDZ_DB_DSN"`
	Driver string `envconfig:"KARDZ_DB_DRIVER" default:"postgres"`

	// SQLitePath backs the sqlite driver; also served by the admin backup endpoint.
	SQLitePath string `envconfig:"KARDZ_DB_SQLITE_PATH" default:"kardz.db"`

	LegacyHost     string `envconfig:"KARDZ_DB_HOST"`
	LegacyPort     int    `envconfig:"KARDZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KARDZ_DB_USER"`
	LegacyPassword string `envconfig:"KARDZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"KARDZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"KARDZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KARDZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KARDZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KARDZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KARDZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"KARDZ_REDIS_URL"`
	Address      string        `envconfig:"KARDZ_REDIS_ADDR"`
	Password     string        `envconfig:"KARDZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"KARDZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KARDZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KARDZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KARDZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KARDZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KARDZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SettlementConfig struct {
	Interval    time.Duration `envconfig:"KARDZ_SETTLEMENT_INTERVAL" default:"15s"`
	Probability float64       `envconfig:"KARDZ_SETTLEMENT_PROBABILITY" default:"0.7"`
	LockTTL     time.Duration `envconfig:"KARDZ_SETTLEMENT_LOCK_TTL" default:"1m"`
	MetricsPort string        `envconfig:"KARDZ_SETTLEMENT_METRICS_PORT" default:"9091"`
}

func (s SettlementConfig) validate() error {
	if s.Probability < 0 || s.Probability > 1 {
		return fmt.Errorf("settlement probability must be within [0,1], got %v", s.Probability)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("settlement interval must be positive, got %v", s.Interval)
	}
	return nil
}

type AdminConfig struct {
	// PrimaryEmail always logs in as admin and its role cannot be changed.
	PrimaryEmail string `envconfig:"KARDZ_ADMIN_EMAIL" default:"admin@kardz.com"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KARDZ_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensure() error {
	if db.IsSQLite() {
		if db.SQLitePath == "" {
			return fmt.Errorf("KARDZ_DB_SQLITE_PATH is required with the sqlite driver")
		}
		return nil
	}
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
