// Package main provides the CLI entrypoint for the website discovery service.
// It wires subcommands (serve, discover, verify, batch), loads configuration,
// and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitefinder/internal/config"
	"sitefinder/internal/discovery"
	"sitefinder/pkg/dnscheck"
	"sitefinder/pkg/fetch/httpfetch"
	"sitefinder/pkg/logger"
	"sitefinder/pkg/ratelimit"
	"sitefinder/pkg/search"
	"sitefinder/pkg/search/brave"
	"sitefinder/pkg/vercache"
)

// buildDiscoverer wires the discovery engine from configuration: fetcher,
// search backends, shared rate limiter and verification cache.
func buildDiscoverer(ctx context.Context, cfg *config.Config) discovery.Discoverer {
	fetcher := httpfetch.New(httpfetch.Options{
		Timeout:      cfg.Fetcher.Timeout,
		MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
		UserAgent:    cfg.Fetcher.UserAgent,
		MaxRedirects: cfg.Fetcher.MaxRedirects,
	})

	var searchers []search.Provider
	if cfg.Search.BraveToken != "" {
		searchers = append(searchers, brave.New(
			&http.Client{Timeout: cfg.Search.HTTPTimeout},
			cfg.Search.BraveToken,
			cfg.Discovery.ResultsPerQuery))
	} else {
		logger.Warn(ctx, "no search backend configured, search layers are disabled")
	}

	limiter := ratelimit.New(ratelimit.Options{
		MinInterval:   cfg.RateLimit.MinInterval,
		MaxInterval:   cfg.RateLimit.MaxInterval,
		MaxWait:       cfg.RateLimit.MaxWait,
		FailureStreak: cfg.RateLimit.FailureStreak,
	})
	cache := vercache.New(cfg.Cache.TTL, cfg.Cache.Capacity)

	return discovery.New(discovery.Deps{
		Fetcher:   fetcher,
		Searchers: searchers,
		DNS:       dnscheck.New(),
	}, limiter, cache, discovery.NewOptions(cfg))
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "sitefinder",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		discoverCommand(cfg),
		verifyCommand(cfg),
		batchCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
