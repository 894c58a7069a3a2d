package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/inkstream/auth-server/auth"
	"github.com/inkstream/auth-server/auth/providers"
	"github.com/inkstream/auth-server/auth/storefake"
	"github.com/inkstream/auth-server/internal/config"
	"github.com/inkstream/auth-server/server"
	"github.com/inkstream/auth-server/store/postgres"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, c)
	if err != nil {
		return fmt.Errorf("newStore: %w", err)
	}
	defer closeStore()

	registry, err := newProviderRegistry(ctx, c)
	if err != nil {
		return fmt.Errorf("newProviderRegistry: %w", err)
	}

	srv, err := server.New(c, store, registry)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// newStore opens the postgres store when a DSN is configured and falls back
// to the in-memory store otherwise.
func newStore(ctx context.Context, c config.Config) (auth.Store, func(), error) {
	dsn := c.GetDatabaseDSN()
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		return storefake.New(), func() {}, nil
	}

	store, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.New: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Err(err).Msg("failed to close store")
		}
	}, nil
}

// newProviderRegistry builds the external identity providers from config.
// A provider with an empty client ID is simply not registered.
func newProviderRegistry(ctx context.Context, c config.Config) (providers.Registry, error) {
	registry := providers.Registry{}

	if clientID := c.GetGoogleClientID(); clientID != "" {
		google, err := providers.NewGoogle(ctx, clientID, c.GetGoogleClientSecret(), callbackURL(c, "google"))
		if err != nil {
			return nil, fmt.Errorf("providers.NewGoogle: %w", err)
		}
		registry.Register(google)
	}

	if clientID := c.GetGitHubClientID(); clientID != "" {
		registry.Register(providers.NewGitHub(clientID, c.GetGitHubClientSecret(), callbackURL(c, "github")))
	}

	return registry, nil
}

func callbackURL(c config.Config, provider string) string {
	return c.GetBaseURL() + "/auth/callback/" + provider
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
