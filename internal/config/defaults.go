package config

import "time"

// ApplyDefaults fills in sensible defaults for every unset field.  Secrets
// (database password, JWT secret, mail API key) are never defaulted.
func ApplyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "laborguard"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "laborguard"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "file://migrations"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "laborguard:"
	}
	if c.Redis.StatsTTL == 0 {
		c.Redis.StatsTTL = 30 * time.Second
	}

	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "complaint-service"
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}
	if c.Kafka.MaxRetries == 0 {
		c.Kafka.MaxRetries = 3
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = time.Second
	}

	if c.MinIO.Endpoint == "" {
		c.MinIO.Endpoint = "localhost:9000"
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "complaint-evidence"
	}
	if c.MinIO.PresignExpiry == 0 {
		c.MinIO.PresignExpiry = 15 * time.Minute
	}

	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "laborguard-auth"
	}

	if c.Notifier.HTTPTimeout == 0 {
		c.Notifier.HTTPTimeout = 10 * time.Second
	}
	if c.Notifier.FromAddress == "" {
		c.Notifier.FromAddress = "no-reply@laborguard.example"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if len(c.Log.OutputPaths) == 0 {
		c.Log.OutputPaths = []string{"stdout"}
	}
}
