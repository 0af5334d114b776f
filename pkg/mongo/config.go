package mongo

import "time"

// Config describes the optional document store. An empty URI disables it.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URI"`
	Database        string        `env:"MONGODB_DATABASE"`
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"submissions"`
	WriteTimeout    time.Duration `env:"MONGODB_WRITE_TIMEOUT" envDefault:"5s"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"20"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"0"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`
}

// Enabled reports whether a connection URI is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
