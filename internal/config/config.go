package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Booking   BookingConfig   `mapstructure:"booking"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT" default:"8080"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS" default:"30"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT" default:"5432"`
	User     string `mapstructure:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME" default:"booking"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type AdminConfig struct {
	// Shared-secret header value. Empty disables the header check
	// (dev mode), matching the original deployment behavior.
	Token string `mapstructure:"token" envconfig:"ADMIN_TOKEN"`
	// bcrypt hash of the admin password used by /admin/login.
	PasswordHash  string `mapstructure:"password_hash" envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret     string `mapstructure:"jwt_secret" envconfig:"ADMIN_JWT_SECRET"`
	JWTExpiryHour int    `mapstructure:"jwt_expiry_hours" envconfig:"ADMIN_JWT_EXPIRY_HOURS" default:"12"`
}

// BookingConfig carries the availability engine knobs. Grid steps and
// the fixed working window are configuration, never constants in the
// engine.
type BookingConfig struct {
	Timezone         string `mapstructure:"timezone" envconfig:"APP_TIMEZONE" default:"America/Asuncion"`
	DefaultBufferMin int    `mapstructure:"default_buffer_min" envconfig:"DEFAULT_BUFFER_MIN" default:"10"`
	ScheduleGridMin  int    `mapstructure:"schedule_grid_min" envconfig:"SCHEDULE_GRID_MIN" default:"5"`
	FixedGridMin     int    `mapstructure:"fixed_grid_min" envconfig:"FIXED_GRID_MIN" default:"15"`
	WorkdayStart     string `mapstructure:"workday_start" envconfig:"WORKDAY_START" default:"08:30"`
	WorkdayEnd       string `mapstructure:"workday_end" envconfig:"WORKDAY_END" default:"18:30"`
	CacheTTLSeconds  int    `mapstructure:"cache_ttl_seconds" envconfig:"AVAILABILITY_CACHE_TTL_SECONDS" default:"30"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst int     `mapstructure:"burst" envconfig:"RATE_LIMIT_BURST" default:"40"`
}

type WorkerConfig struct {
	BatchSize           int `mapstructure:"batch_size" envconfig:"WORKER_BATCH_SIZE" default:"50"`
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" envconfig:"WORKER_POLL_INTERVAL_SECONDS" default:"5"`
	RetryAttempts       int `mapstructure:"retry_attempts" envconfig:"WORKER_RETRY_ATTEMPTS" default:"3"`
	RetryDelaySeconds   int `mapstructure:"retry_delay_seconds" envconfig:"WORKER_RETRY_DELAY_SECONDS" default:"1"`
}

func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (w WorkerConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalSeconds) * time.Second
}

func (w WorkerConfig) RetryDelay() time.Duration {
	return time.Duration(w.RetryDelaySeconds) * time.Second
}

// LoadConfig reads config.yaml and applies environment overrides. When
// no config file exists, the environment alone is used.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("booking.timezone", "America/Asuncion")
	viper.SetDefault("booking.default_buffer_min", 10)
	viper.SetDefault("booking.schedule_grid_min", 5)
	viper.SetDefault("booking.fixed_grid_min", 15)
	viper.SetDefault("booking.workday_start", "08:30")
	viper.SetDefault("booking.workday_end", "18:30")
	viper.SetDefault("booking.cache_ttl_seconds", 30)
	viper.SetDefault("admin.jwt_expiry_hours", 12)
	viper.SetDefault("rate_limit.rps", 20)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("worker.batch_size", 50)
	viper.SetDefault("worker.poll_interval_seconds", 5)
	viper.SetDefault("worker.retry_attempts", 3)
	viper.SetDefault("worker.retry_delay_seconds", 1)

	var config Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No file: fall back to environment variables only.
		if err := envconfig.Process("", &config); err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
		return &config, nil
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
