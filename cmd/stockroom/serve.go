// Serve command for the stockroom CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockroom/internal/auth"
	"github.com/mesh-intelligence/stockroom/internal/inventory"
	"github.com/mesh-intelligence/stockroom/internal/logging"
	"github.com/mesh-intelligence/stockroom/internal/web"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory pages",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	s := a.settings

	logger, err := logging.New(s.LogLevel, s.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := attachBackend(a.dataDir)
	if err != nil {
		return err
	}

	policy, err := credentialPolicy(s, logger)
	if err != nil {
		backend.Detach()
		return err
	}

	srv, err := web.NewServer(web.Options{
		Inventory:    inventory.NewService(backend, inventory.WithLogger(logger)),
		Gate:         auth.NewGate(policy),
		Sessions:     auth.NewSessions(),
		Health:       backend,
		Logger:       logger,
		CookieName:   s.CookieName,
		SecureCookie: s.SecureCookie,
	})
	if err != nil {
		backend.Detach()
		return err
	}

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Listen before serving so a busy port fails the command.
	ln, err := net.Listen("tcp", s.ListenAddr)
	if err != nil {
		backend.Detach()
		return fmt.Errorf("listen on %s: %w", s.ListenAddr, err)
	}

	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "cmd", "runServe", "serving http", s.ListenAddr, err)
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":     ln.Addr().String(),
		"data_dir": a.dataDir,
		"config":   a.configDir,
	}).Info("stockroom listening")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			// One operation so the store detaches only after in-flight
			// requests finish.
			"stockroom": func(ctx context.Context) error {
				logger.Info("shutting down")
				if err := httpServer.Shutdown(ctx); err != nil {
					return err
				}
				return backend.Detach()
			},
		},
	)

	if code := <-wait; code != exitSuccess {
		return fmt.Errorf("shutdown finished with exit code %d", code)
	}
	return nil
}
