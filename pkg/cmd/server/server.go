package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nsyszr/rcm/config"
	"github.com/nsyszr/rcm/pkg/api"
	"github.com/nsyszr/rcm/pkg/metrics"
	"github.com/nsyszr/rcm/pkg/notify"
	"github.com/nsyszr/rcm/pkg/notify/natsio"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/nsyszr/rcm/pkg/storage/memory"
	"github.com/nsyszr/rcm/pkg/storage/mongodb"
	"github.com/nsyszr/rcm/pkg/storage/postgres"
	"github.com/nsyszr/rcm/pkg/web"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second

	// bodyLimit caps request bodies.
	bodyLimit = "100K"
)

type server struct {
	c        *config.Config
	store    storage.Interface
	notifier notify.Interface
	metrics  *metrics.Metrics
	api      *api.Handler

	quitAPI chan bool
	doneAPI chan bool
}

func newServer(c *config.Config) (*server, error) {
	store, err := openStore(c)
	if err != nil {
		return nil, err
	}

	notifier, err := openNotifier(c)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	m, err := metrics.New(store.State)
	if err != nil {
		notifier.Close()
		_ = store.Close(context.Background())
		return nil, err
	}

	return &server{
		c:        c,
		store:    store,
		notifier: notifier,
		metrics:  m,
		api:      api.NewHandler(store, notifier, m, c.IsDevelopment()),
		quitAPI:  make(chan bool),
		doneAPI:  make(chan bool),
	}, nil
}

// openStore opens the record store selected by the storage driver setting.
func openStore(c *config.Config) (storage.Interface, error) {
	log.WithField("driver", c.StorageDriver).Info("Opening record store")

	switch c.StorageDriver {
	case config.StorageMemory:
		return memory.NewStore(), nil

	case config.StorageMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongodb.Connect(ctx, c.MongoDBURI)

	case config.StoragePostgres:
		db, err := postgres.OpenDB(c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if c.DBMigrate {
			n, err := postgres.Migrate(db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			log.WithField("applied", n).Info("Applied SQL migrations")
		}
		return postgres.NewStore(db), nil
	}

	return nil, errors.Errorf("unknown storage driver %q", c.StorageDriver)
}

// openNotifier connects to NATS when configured and falls back to the
// in-process hub otherwise.
func openNotifier(c *config.Config) (notify.Interface, error) {
	if c.NATSServerURL == "" {
		log.Info("No NATS server configured, using in-process change notifications")
		return notify.NewLocal(), nil
	}
	return natsio.New(c.NATSServerURL)
}

// newEcho builds the web server with all middleware and routes.
func (s *server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.api.HTTPErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger())
	e.Use(s.metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.c.AllowedOrigins(),
	}))

	s.api.RegisterRoutes(e)
	web.NewHandler().RegisterRoutes(e)

	return e
}

func (s *server) ServeAPI() {
	e := s.newEcho()

	go func() {
		log.WithFields(log.Fields{
			"host":        s.c.BindHost,
			"port":        s.c.BindPort,
			"storage":     s.c.StorageDriver,
			"development": s.c.IsDevelopment(),
		}).Info("Starting server")

		if err := e.Start(fmt.Sprintf("%s:%d", s.c.BindHost, s.c.BindPort)); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitAPI
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.api.Close()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown the web server")
	}

	s.notifier.Close()
	if err := s.store.Close(ctx); err != nil {
		log.WithError(err).Error("Failed to close the record store")
	}

	s.doneAPI <- true
}

func (s *server) ShutdownAPI() {
	// Send the quit signal to the server.ServeAPI() routine
	s.quitAPI <- true

	select {
	case <-s.doneAPI:
		log.Info("Shutdown server successful")
	case <-time.After(shutdownTimeout + time.Second):
		log.Error("Shutdown server failed")
	}
}

// RunServeAPI returns the command that serves the API until SIGINT or
// SIGTERM.
func RunServeAPI(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := c.Validate(); err != nil {
			log.Error("invalid configuration: ", err)
			os.Exit(2)
		}
		if err := ConfigureLogging(c); err != nil {
			log.Error(err)
			os.Exit(2)
		}

		s, err := newServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		go s.ServeAPI()

		// Wait for interrupt signal to gracefully shutdown the server
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		s.ShutdownAPI()
	}
}
