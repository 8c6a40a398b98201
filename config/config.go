// Package config loads the settings of resources from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beatlabs/resource"
	"github.com/beatlabs/resource/cache/redis"
	clienthttp "github.com/beatlabs/resource/client/http"
	"github.com/beatlabs/resource/log"
	"github.com/beatlabs/resource/log/std"
	"github.com/beatlabs/resource/log/zerolog"
	"github.com/beatlabs/resource/reliability/circuitbreaker"
	"github.com/beatlabs/resource/store"
	"github.com/caarlos0/env/v11"
)

// Prefix of the environment variables.
const Prefix = "RESOURCE_"

// Log formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

const (
	srv  = "srv"
	host = "host"
)

// Config holds the settings shared by the resources of a service.
type Config struct {
	CacheEnabled bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	// CacheSize bounds the in-process store, zero means unbounded.
	CacheSize int `env:"CACHE_SIZE" envDefault:"0"`

	// RedisAddr selects the Redis store. It takes precedence over CacheSize.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"resource:"`

	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	HTTPRetries    int           `env:"HTTP_RETRIES" envDefault:"0"`
	HTTPRetryDelay time.Duration `env:"HTTP_RETRY_DELAY" envDefault:"100ms"`
	RateLimit      float64       `env:"RATE_LIMIT" envDefault:"0"`
	RateBurst      int           `env:"RATE_BURST" envDefault:"1"`

	CBFailureThreshold      uint          `env:"CB_FAILURE_THRESHOLD" envDefault:"0"`
	CBRetryTimeout          time.Duration `env:"CB_RETRY_TIMEOUT" envDefault:"5s"`
	CBRetrySuccessThreshold uint          `env:"CB_RETRY_SUCCESS_THRESHOLD" envDefault:"1"`
	CBMaxRetryExecutions    uint          `env:"CB_MAX_RETRY_EXECUTIONS" envDefault:"1"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads the configuration from the variables instead of the process environment.
// Names carry the prefix.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case FormatJSON, FormatText:
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.CacheSize < 0 {
		return errors.New("cache size must not be negative")
	}
	return nil
}

// Store returns the store selected by the configuration: Redis, bounded LRU or memory.
func (c *Config) Store() (store.Store, error) {
	switch {
	case c.RedisAddr != "":
		backend, err := redis.NewWithPrefix(redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		}, c.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return store.NewKV("redis", backend)
	case c.CacheSize > 0:
		return store.NewLRU(c.CacheSize)
	}
	return store.NewMemory(), nil
}

// Transport returns the HTTP client with the configured timeout, retries, rate limit and
// circuit breaker.
func (c *Config) Transport(name string) (*clienthttp.TracedClient, error) {
	oo := []clienthttp.OptionFunc{clienthttp.WithTimeout(c.HTTPTimeout)}
	if c.HTTPRetries > 1 {
		oo = append(oo, clienthttp.WithRetry(c.HTTPRetries, c.HTTPRetryDelay))
	}
	if c.RateLimit > 0 {
		oo = append(oo, clienthttp.WithRateLimit(c.RateLimit, c.RateBurst))
	}
	if c.CBFailureThreshold > 0 {
		oo = append(oo, clienthttp.WithCircuitBreaker(name, circuitbreaker.Setting{
			FailureThreshold:           c.CBFailureThreshold,
			RetryTimeout:               c.CBRetryTimeout,
			RetrySuccessThreshold:      c.CBRetrySuccessThreshold,
			MaxRetryExecutionThreshold: c.CBMaxRetryExecutions,
		}))
	}
	return clienthttp.New(oo...)
}

// Options returns the resource options sharing one store and one transport. The name is used
// for the circuit breaker.
func (c *Config) Options(name string) ([]resource.OptionFunc, error) {
	tc, err := c.Transport(name)
	if err != nil {
		return nil, err
	}
	oo := []resource.OptionFunc{resource.WithTransport(tc)}
	if !c.CacheEnabled {
		return oo, nil
	}
	st, err := c.Store()
	if err != nil {
		return nil, err
	}
	return append(oo, resource.WithStore(st)), nil
}

// Apply sets the cache settings on the resource options. An explicit TTL is kept.
func (c *Config) Apply(o resource.Options) resource.Options {
	o.UseCache = c.CacheEnabled
	if o.CacheTTL == 0 {
		o.CacheTTL = c.CacheTTL
	}
	return o
}

// SetupLogging installs the global logger. The service name and the hostname are logged with
// every entry and cannot be overridden by the fields.
func (c *Config) SetupLogging(name string, fields map[string]interface{}) error {
	return c.setupLogging(os.Stderr, name, fields)
}

func (c *Config) setupLogging(out io.Writer, name string, fields map[string]interface{}) error {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}

	f := map[string]interface{}{
		srv:  name,
		host: hostname,
	}
	for k, v := range fields {
		if k == srv || k == host {
			continue
		}
		f[k] = v
	}

	if c.LogFormat == FormatText {
		return log.Setup(std.New(out, lvl, f))
	}
	return log.Setup(zerolog.New(out, lvl, f))
}
