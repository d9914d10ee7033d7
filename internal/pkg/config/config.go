package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// ErrInvalidConfig wraps every configuration failure. The server treats it as fatal.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	JWTSecret  string `env:"JWT_SECRET,  required"`
	HashSecret string `env:"HASH_SECRET, required"`

	AccountPartition   string `env:"ACCOUNT_PARTITION,    default=auth"`
	PublicPartition    string `env:"PUBLIC_PARTITION,     default=admin"`
	DefaultSecurityLvl int32  `env:"DEFAULT_SECURITY_LVL, default=2"`

	Postgres PostgresConfig
	Hashing  HashingConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

type PostgresConfig struct {
	AdminURL     string `env:"DATABASE_URL_ADMIN,     required"`
	AuthURL      string `env:"DATABASE_URL_AUTH,      required"`
	ModeratorURL string `env:"DATABASE_URL_MODERATOR, required"`
	UserURL      string `env:"DATABASE_URL_USER,      required"`
	MaxConns     int32  `env:"DB_MAX_CONNS,           default=10"`
}

// DSNs returns the connection string of every partition.
func (c PostgresConfig) DSNs() map[domain.Partition]string {
	return map[domain.Partition]string{
		domain.PartitionAdmin:     c.AdminURL,
		domain.PartitionAuth:      c.AuthURL,
		domain.PartitionModerator: c.ModeratorURL,
		domain.PartitionUser:      c.UserURL,
	}
}

// HashingConfig holds the Argon2id cost and the size of the hashing worker pool.
// Workers <= 0 means one worker per CPU.
type HashingConfig struct {
	Workers   int    `env:"HASH_WORKERS,    default=0"`
	Time      uint32 `env:"HASH_TIME,       default=3"`
	MemoryKiB uint32 `env:"HASH_MEMORY_KIB, default=65536"`
	Threads   uint8  `env:"HASH_THREADS,    default=1"`
	KeyLen    uint32 `env:"HASH_KEY_LEN,    default=32"`
}

// RedisConfig enables login throttling when Addr is set.
type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB,             default=0"`
	MaxFailures   int           `env:"LOGIN_MAX_FAILURES,   default=5"`
	FailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// MongoConfig enables the authentication audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=portfolio_audit"`
}

func (c MongoConfig) Enabled() bool { return c.URI != "" }

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == c.HashSecret {
		return fmt.Errorf("%w: JWT_SECRET and HASH_SECRET must differ", ErrInvalidConfig)
	}
	if _, err := domain.ParsePartition(c.AccountPartition); err != nil {
		return fmt.Errorf("%w: ACCOUNT_PARTITION: %w", ErrInvalidConfig, err)
	}
	if _, err := domain.ParsePartition(c.PublicPartition); err != nil {
		return fmt.Errorf("%w: PUBLIC_PARTITION: %w", ErrInvalidConfig, err)
	}
	if c.DefaultSecurityLvl < 0 {
		return fmt.Errorf("%w: DEFAULT_SECURITY_LVL must not be negative", ErrInvalidConfig)
	}
	if c.Postgres.MaxConns <= 0 {
		return fmt.Errorf("%w: DB_MAX_CONNS must be positive", ErrInvalidConfig)
	}
	return nil
}

// Accounts returns the partition used for registration and login.
func (c *Config) Accounts() domain.Partition { return domain.Partition(c.AccountPartition) }

// Public returns the partition serving the unauthenticated preview routes.
func (c *Config) Public() domain.Partition { return domain.Partition(c.PublicPartition) }
