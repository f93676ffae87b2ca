package config

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

const EnvProduction = "production"

type Config struct {
	Port      string        `env:"PORT,       default=3000"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpire time.Duration `env:"JWT_EXPIRE, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	BodyLimit   string   `env:"BODY_LIMIT,   default=20K"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=knowledge_base"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,         default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=kb:"`
}

// LoginConfig bounds failed logins per email.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context, log zerolog.Logger) *Config {
	return load(ctx, log, envconfig.OsLookuper())
}

func load(ctx context.Context, log zerolog.Logger, lookuper envconfig.Lookuper) *Config {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty, token issuing will fail")
	}
	return &cfg
}
