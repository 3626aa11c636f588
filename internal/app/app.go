package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/config"
	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/policy"
	transporthttp "github.com/moamoa-kids/moamoa-web/internal/transport/http"
	"github.com/moamoa-kids/moamoa-web/internal/web"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	catalog, err := core.NewCatalog(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	pol, found, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	if !found {
		logger.Warn().Str("path", cfg.PolicyPath).Msg("policy file not found, terms modal will be empty")
	}

	pages, err := web.NewPages()
	if err != nil {
		return nil, fmt.Errorf("parse pages: %w", err)
	}

	hub := core.NewHub(catalog,
		core.WithReplyDelay(cfg.ReplyDelay),
		core.WithIdleTimeout(cfg.SessionIdleTimeout),
		core.WithUnwatchedTimeout(cfg.UnwatchedTimeout),
		core.WithLogger(logger),
	)
	server := transporthttp.NewServer(hub, pages, pol, cfg, logger)

	logger.Info().
		Str("locale", catalog.Lang()).
		Dur("reply_delay", cfg.ReplyDelay).
		Bool("kakao_configured", cfg.Kakao.RestAPIKey != "" && cfg.Kakao.RedirectURI != "").
		Msg("application initialized")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
