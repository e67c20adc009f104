package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"golang.org/x/oauth2"

	"github.com/clockedin/clockedin/internal/calendar"
	"github.com/clockedin/clockedin/internal/google"
	"github.com/clockedin/clockedin/internal/instrumentation"
	"github.com/clockedin/clockedin/internal/logging"
	"github.com/clockedin/clockedin/internal/server"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode          bool
		httpAddr           string
		frontendURL        string
		googleClientID     string
		googleClientSecret string
		googleRedirectURL  string
		jwtSecret          string
		statsYear          int
		allowedOrigins     []string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard backend",
		Long: `Start the HTTP backend for the clocked-in dashboard.

The server handles the Google OAuth login flow, fetches calendar events
for the authenticated user, classifies which events are real meetings,
and serves aggregated statistics as JSON.

Configuration:
  Google OAuth (required):
    --google-client-id and --google-client-secret flags
    OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars

  Session signing (required):
    --jwt-secret flag OR JWT_SECRET env var

  Frontend:
    --frontend-url flag OR FRONTEND_URL env var
    The OAuth callback redirects to <frontend-url>/auth/google/callback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Env vars fill in anything not set via flags
			if googleClientID == "" {
				googleClientID = os.Getenv("GOOGLE_CLIENT_ID")
			}
			if googleClientSecret == "" {
				googleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
			}
			if !cmd.Flags().Changed("google-redirect-url") {
				if url := os.Getenv("GOOGLE_REDIRECT_URI"); url != "" {
					googleRedirectURL = url
				}
			}
			if jwtSecret == "" {
				jwtSecret = os.Getenv("JWT_SECRET")
			}
			if !cmd.Flags().Changed("frontend-url") {
				if url := os.Getenv("FRONTEND_URL"); url != "" {
					frontendURL = url
				}
			}
			if !cmd.Flags().Changed("http-addr") {
				if addr := os.Getenv("HTTP_ADDR"); addr != "" {
					httpAddr = addr
				}
			}
			if !cmd.Flags().Changed("stats-year") {
				if yearStr := os.Getenv("STATS_YEAR"); yearStr != "" {
					if year, err := strconv.Atoi(yearStr); err == nil {
						statsYear = year
					}
				}
			}

			if googleClientID == "" || googleClientSecret == "" {
				return fmt.Errorf("google OAuth credentials are required: set --google-client-id and --google-client-secret or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
			}
			if jwtSecret == "" {
				return fmt.Errorf("a JWT signing secret is required: set --jwt-secret or JWT_SECRET")
			}

			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			serverConfig := server.Config{
				OAuth: google.OAuthConfig(google.Config{
					ClientID:     googleClientID,
					ClientSecret: googleClientSecret,
					RedirectURL:  googleRedirectURL,
				}),
				JWTSecret:      []byte(jwtSecret),
				FrontendURL:    frontendURL,
				AllowedOrigins: allowedOrigins,
				StatsYear:      statsYear,
			}

			return runServe(debugMode, httpAddr, serverConfig, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address. Can also use HTTP_ADDR env var.")
	cmd.Flags().StringVar(&frontendURL, "frontend-url", "http://localhost:5173", "Base URL of the dashboard frontend. Can also use FRONTEND_URL env var.")
	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&googleRedirectURL, "google-redirect-url", "http://localhost:3001/auth/google/callback", "OAuth redirect URL registered with Google. Can also use GOOGLE_REDIRECT_URI env var.")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret for signing session tokens. Can also use JWT_SECRET env var.")
	cmd.Flags().IntVar(&statsYear, "stats-year", 0, "Calendar year to aggregate. Defaults to the current year. Can also use STATS_YEAR env var.")
	cmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origin", nil, "Origins allowed for credentialed CORS requests (repeatable). Defaults to the frontend URL.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(debugMode bool, httpAddr string, serverConfig server.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.New(debugMode)
	slog.SetDefault(logger)
	serverConfig.Logger = logger

	// Load metrics config from environment if not set via flags
	if !metricsConfig.Enabled && os.Getenv("METRICS_ENABLED") == "true" {
		metricsConfig.Enabled = true
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create the shared server state with the calendar client factory
	serverContext := server.NewServerContext(serverConfig,
		func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (server.EventLister, error) {
			return calendar.NewClient(ctx, conf, token)
		})
	defer serverContext.Shutdown()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}

	httpServer := server.NewHTTPServer(serverContext, httpAddr)
	healthChecker := server.NewHealthChecker(serverContext)
	httpServer.SetHealthChecker(healthChecker)

	logger.Info("starting clockedin backend",
		"addr", httpAddr,
		"frontend_url", serverConfig.FrontendURL,
		"metrics_enabled", metricsConfig.Enabled,
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
		healthChecker.SetReady(false)

		stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer stopCancel()

		if err := httpServer.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
