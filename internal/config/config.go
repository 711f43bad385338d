// Package config defines all configuration structures for the LaborGuard
// complaint service.  No I/O or parsing logic lives here, only plain data
// types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DSN renders the connection parameters as a postgres:// URL suitable for
// both the sql driver and golang-migrate.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	StatsTTL     time.Duration `mapstructure:"stats_ttl"`
}

// KafkaConfig holds Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	GroupID      string        `mapstructure:"group_id"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters used for
// complaint evidence attachments.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// AuthConfig holds token-verification parameters.  Identity issuance lives in
// the upstream auth service; this service only validates bearer tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// NotifierConfig holds parameters for the notifier worker that consumes
// notification events and delivers email through the mail API.
type NotifierConfig struct {
	MailAPIURL  string        `mapstructure:"mail_api_url"`
	MailAPIKey  string        `mapstructure:"mail_api_key"`
	FromAddress string        `mapstructure:"from_address"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// LogConfig mirrors logging.Config; duplicated here so the config package has
// no dependency on infrastructure packages.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration for all binaries.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Log      LogConfig      `mapstructure:"log"`
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.db_name must not be empty")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty")
	}
	return nil
}
