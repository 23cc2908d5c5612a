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
	FeatureFlags FeatureFlagsConfig
	Dashboard    DashboardConfig
	Seed         SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	// The sqlite flag wins over the driver setting so a single env var can
	// flip a local setup onto a file database.
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKTRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKTRACK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STOCKTRACK_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKTRACK_DB_DSN"`
	Driver string `envconfig:"STOCKTRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKTRACK_DB_USER"`
	LegacyPassword string `envconfig:"STOCKTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKTRACK_REDIS_URL"`
	Address      string        `envconfig:"STOCKTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured. The dashboard cache
// is optional; the API runs uncached without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOCKTRACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOCKTRACK_AUTO_MIGRATE" default:"false"`
}

type DashboardConfig struct {
	SummaryCacheTTL time.Duration `envconfig:"STOCKTRACK_DASHBOARD_CACHE_TTL" default:"30s"`
}

type SeedConfig struct {
	SourceURL     string        `envconfig:"STOCKTRACK_SEED_SOURCE_URL"`
	FetchTimeout  time.Duration `envconfig:"STOCKTRACK_SEED_FETCH_TIMEOUT" default:"15s"`
	FetchAttempts int           `envconfig:"STOCKTRACK_SEED_FETCH_ATTEMPTS" default:"3"`
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
