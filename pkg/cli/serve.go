package cli

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Anoopsmohan/monstor-tickets/pkg/cli/config"
	httpctrl "github.com/Anoopsmohan/monstor-tickets/pkg/controller/http"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/logging"
	"github.com/Anoopsmohan/monstor-tickets/pkg/utils/safe"
)

const shutdownTimeout = 10 * time.Second

func cmdServe(version string) *cli.Command {
	var addr string
	var baseURL string
	var loginURL string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var authCfg config.Auth
	var sentryCfg config.Sentry
	var telemetryCfg config.Telemetry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MONSTOR_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for the application (e.g., https://tickets.example.com)",
			Sources:     cli.EnvVars("MONSTOR_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "login-url",
			Usage:       "Where unauthenticated users are sent",
			Value:       httpctrl.DefaultLoginURL,
			Sources:     cli.EnvVars("MONSTOR_LOGIN_URL"),
			Destination: &loginURL,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, telemetryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"addr", addr,
				"auth", authCfg,
				"sentry", sentryCfg,
				"telemetry", telemetryCfg,
			)

			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			stopTracing, err := telemetryCfg.Configure(ctx, version)
			if err != nil {
				return err
			}
			defer safe.Shutdown(ctx, "tracing", shutdownTimeout, stopTracing)

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			authUC, err := authCfg.Configure(app)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			uc := usecase.New(repo,
				usecase.WithAuth(authUC),
				usecase.WithStatusLabels(app.StatusLabels()),
			)

			httpOpts := []httpctrl.Options{
				httpctrl.WithLoginURL(loginURL),
				httpctrl.WithSecureCookie(isHTTPS(baseURL)),
			}
			if app.Title != "" {
				httpOpts = append(httpOpts, httpctrl.WithTitle(app.Title))
			}

			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}

			var handler http.Handler = httpHandler
			if telemetryCfg.Enabled() {
				handler = otelhttp.NewHandler(handler, "monstor-tickets")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			return runServer(ctx, server)
		},
	}
}

// runServer serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// shuts the server down gracefully.
func runServer(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logging.Default().Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logging.Default().Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}
		logging.Default().Info("Server shutdown completed")
		return nil
	})

	return eg.Wait()
}

func isHTTPS(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
