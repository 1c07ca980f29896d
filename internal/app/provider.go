// Package app builds the process-wide dependencies shared by the binaries.
package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tomz197/ballrush/internal/config"
	loopconfig "github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/store"
	"github.com/tomz197/ballrush/internal/web"
)

// ServiceProvider lazily constructs dependencies. Construction failures are
// fatal: they panic, and only happen at startup.
type ServiceProvider struct {
	prefix string
	logOut io.Writer
	logger *log.Logger

	// Database, only when PG_DSN is set
	dbClient  *pgxpool.Pool
	txManager trm.Manager

	records store.Records
	tuning  *loopconfig.Tuning
	game    *server.Server

	webHandler *web.Handler
	router     chi.Router
	httpServer *http.Server
}

// NewServiceProvider creates a provider; prefix tags log lines.
func NewServiceProvider(prefix string) *ServiceProvider {
	return &ServiceProvider{prefix: prefix, logOut: os.Stderr}
}

// WithLogOutput redirects logging. Call before anything is built.
func (sp *ServiceProvider) WithLogOutput(w io.Writer) *ServiceProvider {
	sp.logOut = w
	return sp
}

// Logger returns the process logger, leveled by LOG_LEVEL.
func (sp *ServiceProvider) Logger() *log.Logger {
	if sp.logger == nil {
		logger := log.NewWithOptions(sp.logOut, log.Options{
			ReportTimestamp: true,
			Prefix:          sp.prefix,
		})
		if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
			logger.SetLevel(lvl)
		}
		sp.logger = logger
	}
	return sp.logger
}

// DBClient connects to PG_DSN. Returns nil when it is unset.
func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	dsn := config.GetEnv("PG_DSN", "")
	if dsn == "" {
		return nil
	}
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, dsn)
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		if err := dbc.Ping(ctx); err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}
	return sp.txManager
}

// Records returns the Postgres store when a database is configured and the
// in-memory store otherwise.
func (sp *ServiceProvider) Records(ctx context.Context) store.Records {
	if sp.records == nil {
		pool := sp.DBClient(ctx)
		if pool == nil {
			sp.Logger().Warn("PG_DSN not set, records are kept in memory")
			sp.records = store.NewMemory()
			return sp.records
		}

		pg := store.NewPostgres(pool, sp.TXManager(ctx))
		if err := pg.Migrate(ctx); err != nil {
			panic("failed to migrate records schema: " + err.Error())
		}
		sp.Logger().Info("records stored in postgres")
		sp.records = pg
	}
	return sp.records
}

// Tuning loads TUNING_FILE, or the defaults when it is unset.
func (sp *ServiceProvider) Tuning() loopconfig.Tuning {
	if sp.tuning == nil {
		t, err := loopconfig.LoadTuning(config.GetEnv("TUNING_FILE", ""))
		if err != nil {
			panic("failed to load tuning: " + err.Error())
		}
		sp.tuning = &t
	}
	return *sp.tuning
}

// GameServer returns the shared game server. The caller runs it.
func (sp *ServiceProvider) GameServer(ctx context.Context) *server.Server {
	if sp.game == nil {
		sp.game = server.NewServer(server.Options{
			Tuning:  sp.Tuning(),
			Records: sp.Records(ctx),
			Logger:  sp.Logger().WithPrefix(sp.prefix + "/game"),
		})
	}
	return sp.game
}

func (sp *ServiceProvider) WebHandler(ctx context.Context) *web.Handler {
	if sp.webHandler == nil {
		sp.webHandler = web.NewHandler(web.HandlerDeps{
			Game:    sp.GameServer(ctx),
			Records: sp.Records(ctx),
			Tuning:  sp.Tuning(),
			Logger:  sp.Logger().WithPrefix(sp.prefix + "/http"),
			SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		})
	}
	return sp.webHandler
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		sp.router = web.NewRouter(sp.WebHandler(ctx))
	}
	return sp.router
}

// HTTPServer serves the router on WEB_HOST:WEB_PORT.
func (sp *ServiceProvider) HTTPServer(ctx context.Context) *http.Server {
	if sp.httpServer == nil {
		sp.httpServer = &http.Server{
			Addr: net.JoinHostPort(
				config.GetEnv("WEB_HOST", "0.0.0.0"),
				config.GetEnv("WEB_PORT", "8080"),
			),
			Handler:           sp.Router(ctx),
			ReadHeaderTimeout: config.GetEnvDuration("HTTP_READ_HEADER_TIMEOUT", 10*time.Second),
			IdleTimeout:       config.GetEnvDuration("HTTP_IDLE_TIMEOUT", 2*time.Minute),
			MaxHeaderBytes:    config.GetEnvInt("HTTP_MAX_HEADER_BYTES", http.DefaultMaxHeaderBytes),
		}
	}
	return sp.httpServer
}

// ShutdownTimeout is how long players get to leave once the process is
// asked to stop. SHUTDOWN_TIMEOUT overrides fallback.
func (sp *ServiceProvider) ShutdownTimeout(fallback time.Duration) time.Duration {
	d := config.GetEnvDuration("SHUTDOWN_TIMEOUT", fallback)
	if d <= 0 {
		return fallback
	}
	return d
}

// Close releases the database pool, if any.
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
}
