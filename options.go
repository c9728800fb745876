package suggestd

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	readinessTimeout time.Duration

	keyPrefix     string
	defaultBase   Base
	defaults      QueryOptions
	strictParsing bool
	returnFields  []string
	maxBatchSize  int
	hooks         []Hooks

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		keyPrefix:        defaultKeyPrefix,
		defaultBase:      BaseStable,
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster configures several seed addresses and ACL credentials.
func WithRedisCluster(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical Redis database.
func WithDB(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = n
	})
}

// WithReadinessTimeout bounds the initial readiness check in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithKeyPrefix sets the namespace for index and document keys.
// Default: "suggestd:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithDefaultBase selects the base used when a call does not name one.
// Default: BaseStable.
func WithDefaultBase(b Base) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultBase = b
	})
}

// WithDefaults overrides the query options used by every lookup.
// Non-zero fields replace the built-in defaults; New fails if the result is invalid.
func WithDefaults(o QueryOptions) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = o
	})
}

// WithStrictParsing rejects expressions the query parser cannot read
// instead of falling back to plain words.
func WithStrictParsing() Option {
	return optionFunc(func(c *clientConfig) {
		c.strictParsing = true
	})
}

// WithReturnFields limits the stored fields returned with each hit.
func WithReturnFields(fields ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.returnFields = fields
	})
}

// WithMaxBatchSize sets the maximum number of documents per write.
// Default: 100.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithHooks adds lookup hooks. Repeated options are chained in order.
func WithHooks(h Hooks) Option {
	return optionFunc(func(c *clientConfig) {
		c.hooks = append(c.hooks, h)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
