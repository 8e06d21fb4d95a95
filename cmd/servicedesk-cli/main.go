package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/k1networth/servicedesk-cli/internal/auth"
	"github.com/k1networth/servicedesk-cli/internal/console"
	"github.com/k1networth/servicedesk-cli/internal/shared/config"
	"github.com/k1networth/servicedesk-cli/internal/shared/events"
	"github.com/k1networth/servicedesk-cli/internal/shared/httpx"
	"github.com/k1networth/servicedesk-cli/internal/shared/logger"
	"github.com/k1networth/servicedesk-cli/internal/ticket"
)

const appName = "servicedesk-cli"

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = pflag.String("config", "", "path to a YAML config file")
		logLevel    = pflag.String("log-level", "", "log level: debug, info, warn, error")
		logFile     = pflag.String("log-file", "", "write logs to this file instead of stderr")
		metricsAddr = pflag.String("metrics-addr", "", "serve /metrics and /healthz on this address")
		seed        = pflag.Bool("seed", false, "load demo tickets at startup")
		showVersion = pflag.Bool("version", false, "print the version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, version)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	if pflag.CommandLine.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if pflag.CommandLine.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if pflag.CommandLine.Changed("metrics-addr") {
		cfg.MetricsAddr = *metricsAddr
	}
	if pflag.CommandLine.Changed("seed") {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}
	level, _ := cfg.Level()

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			return 2
		}
		defer f.Close()
		logOut = f
	}
	log := logger.New(appName, cfg.AppEnv, level, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	ticketMetrics := ticket.NewMetrics(reg)
	consoleMetrics := console.NewMetrics(reg)

	recorder := events.NewRecorder(0)
	registry, err := ticket.NewRegistry(ticket.Options{
		Statuses:      ticket.NewStatusSet(cfg.Tickets.Statuses...),
		InitialStatus: cfg.Tickets.InitialStatus,
		Log:           log,
		Metrics:       ticketMetrics,
		Events:        events.Multi(events.LogSink{Log: log}, recorder),
	})
	if err != nil {
		log.Error("registry_init_failed", slog.String("err", err.Error()))
		return 2
	}
	log.Info("registry_ready",
		slog.Any("statuses", registry.Statuses().Values()),
		slog.String("initial_status", registry.InitialStatus()),
	)

	if cfg.Seed {
		n, err := ticket.Seed(ctx, registry, ticket.DemoTickets)
		if err != nil {
			log.Warn("seed_failed", slog.Int("seeded", n), slog.String("err", err.Error()))
		} else {
			log.Info("seed_done", slog.Int("seeded", n))
		}
	}

	srvCtx, stopSrv := context.WithCancel(ctx)
	var srvDone <-chan struct{}
	if cfg.MetricsAddr != "" {
		srvDone, err = httpx.Serve(srvCtx, log, cfg.MetricsAddr, httpx.NewRouter(log, reg), 5*time.Second)
		if err != nil {
			log.Error("metrics_listen_failed", slog.String("addr", cfg.MetricsAddr), slog.String("err", err.Error()))
			stopSrv()
			return 1
		}
	}

	session := &console.Session{
		Log:         log,
		Tickets:     registry,
		Credentials: auth.Credentials(cfg.Users),
		Prompt:      console.NewPrompter(os.Stdin, os.Stdout),
		Out:         os.Stdout,
		DateRetries: cfg.Tickets.DateRetries,
		Metrics:     consoleMetrics,
	}
	runErr := session.Run(ctx)

	stopSrv()
	if srvDone != nil {
		<-srvDone
	}

	counts := recorder.Counts()
	log.Info("session_summary",
		slog.String("user", session.User()),
		slog.Int("tickets", registry.Len()),
		slog.Int("created", counts[ticket.EventCreated]),
		slog.Int("status_changes", counts[ticket.EventStatusChanged]),
	)

	switch {
	case runErr == nil:
		return 0
	case errors.Is(runErr, console.ErrAccessDenied):
		return 1
	default:
		log.Error("session_failed", slog.String("err", runErr.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		return 1
	}
}
