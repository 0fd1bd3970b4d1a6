package fieldeval

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
	password string

	groundTruth     []byte
	groundTruthPath string
	groundTruthKey  string

	persist      bool
	reportPrefix string
	reportTTL    time.Duration

	workers int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
// Required for WithRedisGroundTruth and WithReportPersistence.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithGroundTruth uses an in-memory reference corpus instead of the one
// embedded in the library.
func WithGroundTruth(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.groundTruth = data
	})
}

// WithGroundTruthFile reads the reference corpus from a file on first use.
func WithGroundTruthFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.groundTruthPath = path
	})
}

// WithRedisGroundTruth reads the reference corpus from a Redis key on first use.
func WithRedisGroundTruth(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.groundTruthKey = key
	})
}

// WithReportPersistence stores every report in Redis under prefix+run id.
// A zero ttl keeps reports forever.
func WithReportPersistence(prefix string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.persist = true
		c.reportPrefix = prefix
		c.reportTTL = ttl
	})
}

// WithWorkers sets how many documents are scored concurrently.
// Default: 1. Reports do not depend on this value.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
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
