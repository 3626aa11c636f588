package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/moamoa-kids/moamoa-web/internal/app"
	"github.com/moamoa-kids/moamoa-web/internal/config"
	applog "github.com/moamoa-kids/moamoa-web/internal/log"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type serveFlags struct {
	configPath string
	addr       string
	logLevel   string
	logFormat  string
	locale     string
	replyDelay time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	root := &cobra.Command{
		Use:           "moamoa",
		Short:         "MoaMoa landing page server",
		Long:          "Serves the MoaMoa landing page and its interactive chat demo.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	bindServeFlags(root, flags)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	bindServeFlags(serve, flags)

	root.AddCommand(serve, newVersionCmd())
	return root
}

func bindServeFlags(cmd *cobra.Command, flags *serveFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "path to config.yaml (created with defaults when missing)")
	f.StringVar(&flags.addr, "addr", "", "HTTP listen address")
	f.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&flags.logFormat, "log-format", "", "log format (console or json)")
	f.StringVar(&flags.locale, "locale", "", "bot text language (ko or en)")
	f.DurationVar(&flags.replyDelay, "reply-delay", 0, "delay before the bot answers")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func runServe(parent context.Context, flags *serveFlags) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	bootLogger := applog.New("info", "console")
	cfg, path, err := config.Load(bootLogger, flags.configPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(config.Config{
		Addr:       flags.addr,
		LogLevel:   flags.logLevel,
		LogFormat:  flags.logFormat,
		Locale:     flags.locale,
		ReplyDelay: flags.replyDelay,
	})

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("config", path).Str("version", version).Msg("configuration loaded")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting moamoa server")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
