package httpapi

import "time"

// Config covers the HTTP surface that sits in front of the intake pipeline.
type Config struct {
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	RateLimitWindow int           `env:"RATE_LIMIT_WINDOW" envDefault:"15"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	HealthTimeout   time.Duration `env:"HEALTH_TIMEOUT" envDefault:"2s"`
	TrustProxy      bool          `env:"TRUST_PROXY" envDefault:"false"`
}

// Window converts RATE_LIMIT_WINDOW (minutes) to a duration.
func (c Config) Window() time.Duration {
	if c.RateLimitWindow <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.RateLimitWindow) * time.Minute
}
