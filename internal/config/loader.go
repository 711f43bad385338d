package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "LABORGUARD"

// newViper builds a pre-configured Viper instance: YAML file type,
// LABORGUARD_ env prefix, automatic env binding, and a key replacer that maps
// "." → "_" so nested keys like "database.host" resolve to
// "LABORGUARD_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to Viper.  AutomaticEnv only
// resolves environment variables for keys Viper already knows about, so
// without this declaration an env-only deployment would unmarshal an empty
// struct.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.shutdown_timeout",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_open_conns",
		"database.max_idle_conns", "database.conn_max_lifetime",
		"database.conn_max_idle_time", "database.migrations_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"redis.key_prefix", "redis.stats_ttl",
		"kafka.brokers", "kafka.group_id", "kafka.write_timeout",
		"kafka.max_retries", "kafka.batch_timeout",
		"minio.endpoint", "minio.access_key", "minio.secret_key",
		"minio.bucket", "minio.use_ssl", "minio.presign_expiry",
		"auth.jwt_secret", "auth.issuer",
		"notifier.mail_api_url", "notifier.mail_api_key",
		"notifier.from_address", "notifier.http_timeout",
		"log.level", "log.format", "log.output_paths",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges LABORGUARD_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LABORGUARD_* environment
// variables with no config file required, the preferred strategy for
// containerised deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  Intended for
// hot-reloading non-critical settings such as log level; callers are
// responsible for applying only the safe subset of changes at runtime.
// If the changed file fails to parse or validate, onChange is not called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
