package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/app"
	"github.com/tomz197/ballrush/internal/config"
)

const defaultShutdownTimeout = 5 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn("failed to load .env", "err", err)
	}

	sp := app.NewServiceProvider("web")
	defer sp.Close()
	logger := sp.Logger()

	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer := sp.GameServer(ctx)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		gameServer.Run(ctx)
	}()

	srv := sp.HTTPServer(ctx)
	shutdownTimeout := sp.ShutdownTimeout(defaultShutdownTimeout)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	gameServer.Shutdown(shutdownTimeout)
	cancelServer()
	<-serverDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
