package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the service.
	EnvPrefix = "SAFRA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SAFRA_DB_DSN"
	EnvDBHost = "SAFRA_DB_HOST"
	EnvDBUser = "SAFRA_DB_USER"
	EnvDBName = "SAFRA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Tracking      TrackingConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SAFRA_APP_ENV" required:"true"`
	Port         string `envconfig:"SAFRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAFRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAFRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAFRA_DB_DSN"`
	Driver string `envconfig:"SAFRA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAFRA_DB_HOST"`
	LegacyPort     int    `envconfig:"SAFRA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAFRA_DB_USER"`
	LegacyPassword string `envconfig:"SAFRA_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAFRA_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAFRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAFRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAFRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAFRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAFRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAFRA_REDIS_URL"`
	Address      string        `envconfig:"SAFRA_REDIS_ADDR"`
	Password     string        `envconfig:"SAFRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAFRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAFRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAFRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAFRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAFRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAFRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SAFRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SAFRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SAFRA_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// AccessTokenTTL returns the configured token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SAFRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SAFRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SAFRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SAFRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAFRA_ARGON_KEY_LEN" default:"32"`

	MinLength int `envconfig:"SAFRA_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"SAFRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginCPFLimit    int           `envconfig:"SAFRA_AUTH_RATE_LIMIT_LOGIN_CPF_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"SAFRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow   time.Duration `envconfig:"SAFRA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterCPFLimit int           `envconfig:"SAFRA_AUTH_RATE_LIMIT_REGISTER_CPF_LIMIT" default:"3"`
	RegisterIPLimit  int           `envconfig:"SAFRA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type TrackingConfig struct {
	MaxCodeAttempts int `envconfig:"SAFRA_TRACKING_MAX_CODE_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAFRA_AUTO_MIGRATE" default:"false"`
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
