package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kula-app/m3u-proxy-entrypoint/internal/config"
	"github.com/kula-app/m3u-proxy-entrypoint/internal/launcher"
	"github.com/kula-app/m3u-proxy-entrypoint/internal/logging"
	"github.com/kula-app/m3u-proxy-entrypoint/internal/preflight"
)

// The run function is like the main function, except that it takes in operating system fundamentals as arguments, and returns an error.
//
// If the run function succeeds it does not return: the process image has been replaced by the proxy.
// If the run function returns an error, the hand-off did not happen.
//
// The entrypoint takes no flags of its own. Everything after args[0] is forwarded to the proxy unchanged.
func run(ctx context.Context, args []string, getenv func(key string) string, stderr io.Writer, execFn launcher.ExecFunc) error {
	// Trap signals first so an early SIGINT/SIGTERM maps to 130/143 instead
	// of killing the process halfway through startup.
	signals, stopSignals := launcher.TrapSignals()
	defer stopSignals()

	// Read the environment once, nothing below looks at it again.
	cfg := config.FromEnv(getenv)

	// The proxy's level may hide warnings, the entrypoint always reports them.
	level := min(logging.ParseLevel(cfg.LogLevel), slog.LevelWarn)
	logger := slog.New(logging.NewTerminalHandler(stderr, level))
	logger.DebugContext(ctx, "entrypoint configuration loaded",
		"host", cfg.Host,
		"port", cfg.Port,
		"config_path", cfg.ConfigPath,
		"log_level", cfg.LogLevel,
		"database_url", config.RedactURL(cfg.DatabaseURL),
		"binary", cfg.Binary,
		"device_dir", cfg.DeviceDir)

	// Hardware transcoding check, warning only
	launcher.DetectGPUAccess(logger, cfg.DeviceDir)

	var callerArgs []string
	if len(args) > 1 {
		callerArgs = args[1:]
	}

	// Preflight checks only apply to values the entrypoint is about to pass;
	// explicit caller flags are the caller's responsibility.
	if !launcher.HasArg("--config", "-c", callerArgs) {
		if err := preflight.CheckConfigFile(cfg.ConfigPath); err != nil {
			logger.WarnContext(ctx, "config file check failed, the proxy will likely fail to start",
				"path", cfg.ConfigPath,
				"error", err)
		}
	}
	if !launcher.HasArg("--database-url", "-d", callerArgs) {
		if err := preflight.CheckDatabaseURL(cfg.DatabaseURL); err != nil {
			logger.WarnContext(ctx, "database check failed", "error", err)
		}
	}

	synthesized := launcher.BuildArgs(cfg, callerArgs)

	l := launcher.NewLauncher(logger, signals)
	l.Exec = execFn
	if err := l.Launch(cfg.Binary, synthesized, callerArgs); err != nil {
		return fmt.Errorf("failed to launch m3u-proxy: %w", err)
	}
	return nil
}
