package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the HTTP server, the discovery
// engine, the shared rate limiter, the verification cache and the fetcher.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"3m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// Discovery runs can legitimately take minutes in exhaustive mode.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"2m" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Discovery contains the discovery engine tunables
	Discovery struct {
		// DefaultMode is the mode profile used when a request names none
		DefaultMode string `env:"DISCOVERY_DEFAULT_MODE" env-default:"deep" yaml:"defaultMode"`
		// Timeout is the wall-time budget of one discovery run
		Timeout time.Duration `env:"DISCOVERY_TIMEOUT" env-default:"90s" yaml:"timeout"`
		// SwarmConcurrency bounds concurrent candidate verifications
		SwarmConcurrency int `env:"DISCOVERY_SWARM_CONCURRENCY" env-default:"8" yaml:"swarmConcurrency"`
		// RetryBackoff is the pause before the single retry of a failed fetch
		RetryBackoff time.Duration `env:"DISCOVERY_RETRY_BACKOFF" env-default:"500ms" yaml:"retryBackoff"`
		// ResultsPerQuery bounds how many results of one search query become candidates
		ResultsPerQuery int `env:"DISCOVERY_RESULTS_PER_QUERY" env-default:"5" yaml:"resultsPerQuery"`
		// GuessProbeLimit bounds how many synthesized domains are probed per run
		GuessProbeLimit int `env:"DISCOVERY_GUESS_PROBE_LIMIT" env-default:"30" yaml:"guessProbeLimit"`
	} `yaml:"discovery"`

	// Search contains search backend credentials. An empty token disables the
	// backend and the search-driven layers degrade gracefully.
	Search struct {
		// BraveToken is the Brave Web Search API subscription token
		BraveToken string `env:"SEARCH_BRAVE_TOKEN" env-default:"" yaml:"braveToken"`
		// HTTPTimeout bounds one search API call
		HTTPTimeout time.Duration `env:"SEARCH_HTTP_TIMEOUT" env-default:"10s" yaml:"httpTimeout"`
	} `yaml:"search"`

	// RateLimit contains the per-source adaptive rate limiter settings
	RateLimit struct {
		// MinInterval is the fastest allowed pace per source
		MinInterval time.Duration `env:"RATE_LIMIT_MIN_INTERVAL" env-default:"500ms" yaml:"minInterval"`
		// MaxInterval is the slowest pace a source is backed off to
		MaxInterval time.Duration `env:"RATE_LIMIT_MAX_INTERVAL" env-default:"30s" yaml:"maxInterval"`
		// MaxWait bounds how long a caller blocks waiting for a slot
		MaxWait time.Duration `env:"RATE_LIMIT_MAX_WAIT" env-default:"30s" yaml:"maxWait"`
		// FailureStreak is the number of consecutive failures before the interval widens
		FailureStreak int `env:"RATE_LIMIT_FAILURE_STREAK" env-default:"2" yaml:"failureStreak"`
	} `yaml:"rateLimit"`

	// Cache contains the verification cache settings
	Cache struct {
		// TTL is how long a cached evaluation stays valid
		TTL time.Duration `env:"CACHE_TTL" env-default:"15m" yaml:"ttl"`
		// Capacity is the maximum number of cached evaluations
		Capacity int `env:"CACHE_CAPACITY" env-default:"10000" yaml:"capacity"`
	} `yaml:"cache"`

	// Fetcher contains the HTTP page fetcher settings
	Fetcher struct {
		// Timeout is the per-fetch deadline
		Timeout time.Duration `env:"FETCHER_TIMEOUT" env-default:"15s" yaml:"timeout"`
		// MaxBodyBytes caps how much of a page body is read
		MaxBodyBytes int64 `env:"FETCHER_MAX_BODY_BYTES" env-default:"2097152" yaml:"maxBodyBytes"`
		// UserAgent is sent on every outbound page fetch
		UserAgent string `env:"FETCHER_USER_AGENT" env-default:"Mozilla/5.0 (compatible; sitefinder/1.0)" yaml:"userAgent"`
		// MaxRedirects bounds the redirect chain followed per fetch
		MaxRedirects int `env:"FETCHER_MAX_REDIRECTS" env-default:"10" yaml:"maxRedirects"`
	} `yaml:"fetcher"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
