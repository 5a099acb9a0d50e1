package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and identity provider configuration
//   - database.go: Database and redis configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// Environment is the deployment environment name (e.g. "test", "live").
	// It is reported by the about query and used to derive identity provider
	// URLs when they are not set explicitly.
	Environment string `env:"APP_ENV" envDefault:"test"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize(c.Environment)
}
