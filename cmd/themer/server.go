// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thatcatcamp/themer/internal/config"
	"github.com/thatcatcamp/themer/internal/db"
	"github.com/thatcatcamp/themer/internal/handlers"
	"github.com/thatcatcamp/themer/internal/logging"
	"github.com/thatcatcamp/themer/internal/middleware"
	"github.com/thatcatcamp/themer/internal/sessions"
	"github.com/thatcatcamp/themer/internal/tls"
)

const shutdownTimeout = 10 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server operations",
	Long:  "Start the Themer HTTP server",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		log := newLogger()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runServer(ctx, log); err != nil {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)
}

func runServer(ctx context.Context, log zerolog.Logger) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	defaultBase := config.GetString("themes.default_base")
	if !catalog.Has(defaultBase) {
		return fmt.Errorf("themes.default_base %q is not in the catalog", defaultBase)
	}

	if err := db.InitDB(config.GetString("database.type"), config.GetString("database.path")); err != nil {
		return err
	}
	defer db.Close()

	manager := sessions.NewManager(sessions.Config{
		Catalog:              catalog,
		DefaultBaseThemeID:   defaultBase,
		TTL:                  config.GetDuration("sessions.ttl"),
		SweepInterval:        config.GetDuration("sessions.sweep_interval"),
		ShareMessageDuration: config.GetDuration("share.message_duration"),
		DB:                   db.GetDB(),
		Logger:               logging.Component(log, "sessions"),
	})
	defer manager.Close()
	go manager.Run(ctx)

	tlsEnabled := config.GetBool("server.tls_enabled")

	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logging.Component(log, "http")))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.IPFilterMiddleware(
		config.GetStringSlice("server.blocked_cidrs"),
		config.GetStringSlice("server.allowed_cidrs"),
	))

	shareLimiter := middleware.NewRateLimiter(config.GetInt("share.rate_limit"), time.Minute)
	defer shareLimiter.Stop()

	h := handlers.New(manager, logging.Component(log, "http"))
	h.PublicURL = config.GetString("server.public_url")
	h.SecureCookies = tlsEnabled
	h.RegisterRoutes(r, shareLimiter)

	httpAddr := fmt.Sprintf(":%s", config.GetString("server.http_port"))

	if !tlsEnabled {
		log.Info().Str("addr", httpAddr).Str("default_base", defaultBase).Msg("starting HTTP server (TLS disabled)")
		return serve(ctx, log, &http.Server{Addr: httpAddr, Handler: r}, false)
	}

	tlsCfg, err := tls.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load TLS config: %w", err)
	}

	tlsManager, err := tls.NewManager(tlsCfg, logging.Component(log, "tls"))
	if err != nil {
		return fmt.Errorf("failed to initialize TLS manager: %w", err)
	}
	if err := tlsManager.Manage(ctx); err != nil {
		return err
	}

	// Port 80 answers ACME challenges and redirects everything else
	httpsPort := config.GetString("server.https_port")
	redirect := gin.New()
	redirect.Use(gin.Recovery(), middleware.HTTPSRedirectMiddleware(httpsPort))

	httpServer := &http.Server{Addr: httpAddr, Handler: tlsManager.HTTPChallengeHandler(redirect)}
	httpsServer := &http.Server{
		Addr:      fmt.Sprintf(":%s", httpsPort),
		Handler:   r,
		TLSConfig: tlsManager.GetTLSConfig(),
	}

	log.Info().Str("addr", httpsServer.Addr).Strs("domains", tlsManager.Domains()).Msg("starting HTTPS server")
	return serveAll(ctx, log,
		managedServer{srv: httpServer},
		managedServer{srv: httpsServer, useTLS: true},
	)
}

type managedServer struct {
	srv    *http.Server
	useTLS bool
}

// serveAll runs the servers until ctx is cancelled or one of them stops.
// The first server to stop takes the others down; its error is returned.
func serveAll(ctx context.Context, log zerolog.Logger, servers ...managedServer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, len(servers))
	for _, s := range servers {
		go func(s managedServer) {
			errs <- serve(ctx, log, s.srv, s.useTLS)
		}(s)
	}

	var first error
	for range servers {
		err := <-errs
		if err != nil && first == nil {
			log.Error().Err(err).Msg("server stopped, shutting down")
			first = err
		}
		cancel()
	}
	return first
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
// The listener is opened first so bind errors are reported right away.
func serve(ctx context.Context, log zerolog.Logger, srv *http.Server, useTLS bool) error {
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", srv.Addr, err)
	}

	errs := make(chan error, 1)
	go func() {
		if useTLS {
			errs <- srv.ServeTLS(listener, "", "")
		} else {
			errs <- srv.Serve(listener)
		}
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Str("addr", srv.Addr).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown of %s failed: %w", srv.Addr, err)
	}
	return nil
}
