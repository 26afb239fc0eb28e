package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nmezhenskyi/cardsrv/internal/config"
	"github.com/nmezhenskyi/cardsrv/internal/plugin"
	"github.com/nmezhenskyi/cardsrv/internal/staticsrv"
)

var configPath = flag.String("config", "cardsrv.toml", "Path to config file")

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.ParseAndValidate(*configPath)
	if err != nil {
		return fmt.Errorf("parse and validate config %q: %w", *configPath, err)
	}

	logger := newLogger(cfg.Log.Verbosity)
	host := newConsoleHost(os.Stdout, logger)

	srv := staticsrv.NewServer(cfg.Server.Host, cfg.Server.Port, cfg.Server.Root, host)
	srv.Logger = logger.With().Str("component", "staticsrv").Logger()

	p := plugin.New(srv, host)
	p.OnLoad()
	defer p.OnUnload()

	if !srv.Running() {
		return fmt.Errorf("server did not start on %s", srv.Addr())
	}
	if cfg.Browser.OpenOnStart {
		logger.Debug().Msg("triggering menu action " + plugin.MenuTitle)
		p.OnMenuTrigger()
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

// newLogger builds the logger for the given verbosity: "dev", "prod", or "none".
func newLogger(verbosity string) zerolog.Logger {
	switch verbosity {
	case "dev":
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case "prod":
		return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	default:
		return zerolog.New(os.Stderr).Level(zerolog.Disabled)
	}
}
