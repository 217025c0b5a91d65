// Command sieved serves a SIEVE cache over TCP and, optionally, ZeroMQ.
//
//	sieved -addr 127.0.0.1:7070 -capacity 10000 -ttl 5m -metrics :9090
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bjaus/sieve"
	"github.com/bjaus/sieve/internal/server"
	"github.com/bjaus/sieve/sieveprom"
)

type config struct {
	addr       string
	zmq        string
	metrics    string
	capacity   int
	ttl        time.Duration
	policy     sieve.Policy
	readPolicy sieve.ReadPolicy
	logFormat  string
	logLevel   slog.Level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(os.Stderr, cfg.logFormat, cfg.logLevel)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("sieved stopped", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (config, error) {
	var (
		cfg        config
		policy     string
		readPolicy string
		logLevel   string
	)

	fs := flag.NewFlagSet("sieved", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.addr, "addr", "127.0.0.1:7070", "TCP listen address")
	fs.StringVar(&cfg.zmq, "zmq", "", "ZeroMQ REP endpoint, e.g. tcp://127.0.0.1:5555 (empty = disabled)")
	fs.StringVar(&cfg.metrics, "metrics", "", "Prometheus metrics listen address (empty = disabled)")
	fs.IntVar(&cfg.capacity, "capacity", 1024, "Maximum number of entries")
	fs.DurationVar(&cfg.ttl, "ttl", 0, "Default TTL for SET with ttl \"-\" (0 = never expires)")
	fs.StringVar(&policy, "policy", sieve.SIEVE.String(), "Eviction policy: sieve, lru or fifo")
	fs.StringVar(&readPolicy, "read-policy", "eventual", "Read policy: eventual or consistent")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if cfg.capacity <= 0 {
		return config{}, fmt.Errorf("invalid -capacity %d: must be positive", cfg.capacity)
	}

	p, ok := sieve.ParsePolicy(strings.ToLower(policy))
	if !ok {
		return config{}, fmt.Errorf("invalid -policy %q", policy)
	}
	cfg.policy = p

	switch strings.ToLower(readPolicy) {
	case "eventual":
		cfg.readPolicy = sieve.Eventual
	case "consistent":
		cfg.readPolicy = sieve.Consistent
	default:
		return config{}, fmt.Errorf("invalid -read-policy %q", readPolicy)
	}

	switch cfg.logFormat {
	case "text", "json":
	default:
		return config{}, fmt.Errorf("invalid -log-format %q", cfg.logFormat)
	}

	if err := cfg.logLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return config{}, fmt.Errorf("invalid -log-level %q: %w", logLevel, err)
	}

	return cfg, nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// run serves until ctx is canceled or a listener fails.
func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	backend, err := sieve.New[string, sieve.Expiring[[]byte]](cfg.capacity,
		sieve.WithPolicy[string, sieve.Expiring[[]byte]](cfg.policy),
		sieve.WithReadPolicy[string, sieve.Expiring[[]byte]](cfg.readPolicy),
		sieve.OnEvict(func(key string, _ sieve.Expiring[[]byte]) {
			logger.Debug("evicted", "key", key)
		}),
	)
	if err != nil {
		return err
	}
	cache := sieve.NewTTL[string, []byte](backend,
		sieve.OnExpire(func(key string, _ []byte) {
			logger.Debug("expired", "key", key)
		}),
	)

	logger.Info("cache ready",
		"capacity", cfg.capacity,
		"policy", cfg.policy.String(),
		"default_ttl", cfg.ttl.String(),
	)

	handler := server.NewHandler(cache, cfg.ttl)
	g, ctx := errgroup.WithContext(ctx)

	srv := server.New(handler, logger.With("transport", "tcp"))
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.addr)
	})

	if cfg.zmq != "" {
		g.Go(func() error {
			return server.ServeZMQ(ctx, cfg.zmq, handler, logger.With("transport", "zmq"))
		})
	}

	if cfg.metrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			sieveprom.NewCollector("sieved", "backend", backend),
			sieveprom.NewCollector("sieved", "ttl", cache),
		)
		g.Go(func() error {
			return serveMetrics(ctx, cfg.metrics, reg, logger)
		})
	}

	err = g.Wait()
	logger.Info("shutdown complete")
	return err
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	hs := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown", "error", err)
		}
	})
	defer stop()

	logger.Info("metrics listening", "addr", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
