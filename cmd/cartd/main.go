package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/bookcart/internal/api"
	"github.com/nikolayk812/bookcart/internal/auth"
	"github.com/nikolayk812/bookcart/internal/cart"
	"github.com/nikolayk812/bookcart/internal/checkout"
	"github.com/nikolayk812/bookcart/internal/config"
	"github.com/nikolayk812/bookcart/internal/httpapi"
	"github.com/nikolayk812/bookcart/internal/logging"
	"github.com/nikolayk812/bookcart/internal/port"
	"github.com/nikolayk812/bookcart/internal/repository"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

const serviceName = "cartd"

func main() {
	fx.New(
		fx.Provide(
			func() (config.Config, error) { return config.Load(".env") },
			newLogger,
			newCartRepository,
			newCartRegistry,
			newAPIClient,
			newTokenParser,
			newCheckoutService,
			newHandler,
		),
		fx.WithLogger(func(logger zerolog.Logger) fxevent.Logger {
			return &fxevent.ConsoleLogger{W: logger.With().Str("component", "fx").Logger()}
		}),
		fx.Invoke(registerHTTPServer),
	).Run()
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logging.New(cfg.Log, serviceName, nil)
}

func newCartRepository(lc fx.Lifecycle, cfg config.Config, logger zerolog.Logger) (port.CartRepository, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("no database configured, carts are kept in memory")
		return repository.NewMemoryCart(), nil
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("pool.Ping: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return repository.NewCart(pool), nil
}

func newCartRegistry(cfg config.Config, repo port.CartRepository, logger zerolog.Logger) *cart.Registry {
	return cart.NewRegistry(repo,
		cart.WithLogger(logger.With().Str("component", "cart").Logger()),
		cart.WithCurrency(cfg.Currency.Unit),
		cart.WithStorageFailurePolicy(cfg.StoragePolicy.StorageFailurePolicy),
	)
}

func newAPIClient(cfg config.Config, logger zerolog.Logger) (*api.Client, error) {
	return api.New(cfg.APIBaseURL, cfg.APITimeout,
		api.WithLogger(logger.With().Str("component", "api").Logger()))
}

func newTokenParser(cfg config.Config) (*auth.TokenParser, error) {
	return auth.NewTokenParser(cfg.JWTSecret)
}

func newCheckoutService(carts *cart.Registry, client *api.Client, logger zerolog.Logger) *checkout.Service {
	return checkout.NewService(carts, client, port.AuthProviderFunc(httpapi.AuthFromContext),
		logger.With().Str("component", "checkout").Logger())
}

func newHandler(
	carts *cart.Registry,
	service *checkout.Service,
	client *api.Client,
	tokens *auth.TokenParser,
	logger zerolog.Logger,
) *httpapi.Handler {
	return httpapi.NewHandler(carts, service, client, tokens, logger.With().Str("component", "http").Logger())
}

func registerHTTPServer(lc fx.Lifecycle, cfg config.Config, handler *httpapi.Handler, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("net.Listen: %w", err)
			}

			logger.Info().Str("addr", ln.Addr().String()).Str("env", cfg.Env).Msg("http server started")
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("http server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
