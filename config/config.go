package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"time"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
	"github.com/Temutjin2k/ride-coordinator/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode: coordinator | migrate")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidStorage  = errors.New("storage driver must be postgres or memory")
	ErrNoJWTSecret     = errors.New("auth jwt secret must be provided")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Log      LogConfig
		Database DatabaseConfig
		Storage  StorageConfig
		RabbitMQ RabbitMQConfig
		Redis    RedisConfig
		Server   ServerConfig
		Auth     Auth
		Push     PushConfig
		Dispatch DispatchConfig
		Chat     ChatConfig
		Ride     RideConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"coordinator_user"`
		Password string `env:"DATABASE_PASSWORD" default:"coordinator_pass"`
		Database string `env:"DATABASE_DATABASE" default:"coordinator_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`         // максимум открытых соединений
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`          // минимум соединений в пуле
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"` // макс. "время жизни" соединения
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`  // макс. "время простоя" соединения
	}

	StorageConfig struct {
		Driver types.StorageDriver `env:"STORAGE_DRIVER" default:"postgres"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"true"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	// RedisConfig enables the cross-instance chat relay.
	RedisConfig struct {
		Enabled  bool   `env:"REDIS_ENABLED" default:"false"`
		Host     string `env:"REDIS_HOST" default:"localhost"`
		Port     string `env:"REDIS_PORT" default:"6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	ServerConfig struct {
		Port              string        `env:"SERVER_PORT" default:"3000"`
		ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" default:"5s"`
		ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
		AllowedOrigins    []string      `env:"SERVER_ALLOWED_ORIGINS"`
	}

	Auth struct {
		JWTSecret string        `env:"AUTH_JWT_SECRET"`
		Leeway    time.Duration `env:"AUTH_LEEWAY" default:"30s"`
	}

	// PushConfig holds VAPID credentials. Empty keys are generated at startup,
	// existing browser subscriptions do not survive a restart then.
	PushConfig struct {
		Subject         string        `env:"PUSH_SUBJECT" default:"mailto:support@ride-coordinator.local"`
		VAPIDPublicKey  string        `env:"PUSH_VAPID_PUBLIC_KEY"`
		VAPIDPrivateKey string        `env:"PUSH_VAPID_PRIVATE_KEY"`
		TTL             time.Duration `env:"PUSH_TTL" default:"24h"`
	}

	DispatchConfig struct {
		Parallelism    int           `env:"DISPATCH_PARALLELISM" default:"4"`
		AttemptTimeout time.Duration `env:"DISPATCH_ATTEMPT_TIMEOUT" default:"5s"`
	}

	ChatConfig struct {
		LookupTimeout time.Duration `env:"CHAT_LOOKUP_TIMEOUT" default:"3s"`
		RelayBuffer   int           `env:"CHAT_RELAY_BUFFER" default:"16"`
	}

	RideConfig struct {
		MatchingWindow time.Duration `env:"RIDE_MATCHING_WINDOW" default:"1h"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case types.StoragePostgres, types.StorageMemory:
	default:
		return ErrInvalidStorage
	}

	if c.Mode == types.CoordinatorService && c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}
