package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/services"
	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/utils"
)

const (
	appName     = "Print Agent"
	appVersion  = "1.0.0"
	appAuthor   = "Riboost Studio"
	gracePeriod = time.Second
)

// --- Main ---

func main() {
	var (
		configFile  string
		host        string
		port        string
		logDir      string
		logLevel    string
		showVersion bool
	)
	pflag.StringVarP(&configFile, "config", "c", "", "path to a .yaml or .toml config file")
	pflag.StringVar(&host, "host", "", "listen host (default 0.0.0.0)")
	pflag.StringVarP(&port, "port", "p", "", "listen port (default 18080)")
	pflag.StringVar(&logDir, "log-dir", "", "directory for agent.log")
	pflag.StringVar(&logLevel, "log-level", "", "trace|debug|info|warn|error|disabled")
	pflag.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n", appName, appVersion)
		return
	}

	ctx := context.Background()
	ctx = context.WithValue(ctx, model.ContextAppName, appName)
	ctx = context.WithValue(ctx, model.ContextAppVersion, appVersion)
	ctx = context.WithValue(ctx, model.ContextAppAuthor, appAuthor)
	ctx = context.WithValue(ctx, model.ContextConfigFile, configFile)

	// 1. Load Configuration
	config, err := utils.LoadConfig(configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if host != "" {
		config.Host = host
	}
	// An unusable --port falls back to env/file/default, like PRINT_AGENT_PORT.
	if p, ok := utils.ParsePort(port); ok {
		config.Port = p
	}
	if logDir != "" {
		config.LogDir = logDir
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if err := utils.ValidateConfig(config); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	// 2. Logging
	logger, closeLog := utils.NewLogger(config, appName)

	// 3. Bind the control channel
	forwarder := services.NewForwarder(logger)
	server := services.NewServer(ctx, config, forwarder, logger)

	ln, err := server.Listen()
	if err != nil {
		if errors.Is(err, services.ErrAddressInUse) {
			logger.Error().Int("port", config.Port).Msg("port is already in use")
		} else {
			logger.Error().Err(err).Msg("could not start websocket server")
		}
		closeLog()
		os.Exit(1)
	}

	logBanner(ctx, logger, server.Addr(), config)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	// Wait for interrupt to exit cleanly
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Error().Err(err).Msg("websocket server stopped")
			closeLog()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("shutdown incomplete")
	}
	closeLog()
}

// logBanner reads the app identity from the context values set in main.
func logBanner(ctx context.Context, logger zerolog.Logger, addr string, config model.Config) {
	name, _ := ctx.Value(model.ContextAppName).(string)
	version, _ := ctx.Value(model.ContextAppVersion).(string)
	author, _ := ctx.Value(model.ContextAppAuthor).(string)
	configFile, _ := ctx.Value(model.ContextConfigFile).(string)

	sys := utils.DetectSystem()
	lanIP, _ := utils.DetectLocalIP()
	logger.Info().
		Str("version", version).
		Str("author", author).
		Str("listen", "ws://"+addr).
		Str("lan_ip", lanIP).
		Str("config", configFile).
		Str("log_dir", utils.ResolveLogDir(config.LogDir)).
		Int("pid", sys.PID).
		Str("os", sys.OS).
		Str("arch", sys.Architecture).
		Msgf("%s started", name)
}
