package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/ballrush/internal/app"
	"github.com/tomz197/ballrush/internal/config"
	"github.com/tomz197/ballrush/internal/draw"
	"github.com/tomz197/ballrush/internal/loop/client"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	defaultShutdownTimeout = 15 * time.Second
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn("failed to load .env", "err", err)
	}

	sp := app.NewServiceProvider("ssh")
	defer sp.Close()
	logger := sp.Logger()

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	// One game server shared by all SSH sessions.
	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer := sp.GameServer(ctx)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		gameServer.Run(ctx)
	}()
	logger.Info("game server started")

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(ctx, gameServer, logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// Notify players and wait for them to disconnect, then stop the loop
	// so pending record writes are flushed.
	gameServer.Shutdown(sp.ShutdownTimeout(defaultShutdownTimeout))
	cancelServer()
	<-serverDone
	logger.Info("game server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(ctx context.Context, gs server.GameServer, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			player, err := store.NormalizePlayer(sess.User())
			if err != nil {
				fmt.Fprintln(sess, "Error: connect with a user name, e.g. ssh -t alice@host")
				return
			}

			logger.Info("new game session", "player", player, "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Tracks terminal size from window change events
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(ctx, gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     player,
				Logger:       logger,
			})
			if err := c.Run(); err != nil {
				logger.Error("game error", "player", player, "err", err)
			}

			logger.Info("session ended", "player", player)
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
