// Package web serves the browser front end: an embedded page, a small JSON
// API over player records and a websocket gateway into the game server.
package web

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/store"
)

const (
	defaultTopN = 5
	maxTopN     = 50
)

//go:embed index.html
var htmlPage string

// HandlerDeps are the collaborators a Handler needs.
type HandlerDeps struct {
	Game    server.GameServer
	Records store.Records
	Tuning  config.Tuning
	Logger  *log.Logger
	SSHHost string // Shown on the page as the terminal alternative
}

// Handler serves the HTTP and websocket endpoints.
type Handler struct {
	game     server.GameServer
	records  store.Records
	tuning   config.Tuning
	logger   *log.Logger
	page     string
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		game:    deps.Game,
		records: deps.Records,
		tuning:  deps.Tuning,
		logger:  logger,
		page:    strings.ReplaceAll(htmlPage, "{{.SSHHost}}", deps.SSHHost),
		upgrader: websocket.Upgrader{
			// The page may be served from another origin behind a proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Index serves the embedded game page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, h.page)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TopRecords lists the best players. ?n= picks how many.
func (h *Handler) TopRecords(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			h.writeJSON(w, http.StatusBadRequest, ErrorDTO{Error: "n must be a positive integer"})
			return
		}
		n = min(v, maxTopN)
	}

	top, err := h.records.Top(r.Context(), n)
	if err != nil {
		h.logger.Error("load leaderboard", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorDTO{Error: "leaderboard unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, toRecords(top))
}

// PlayerRecord returns one player's record.
func (h *Handler) PlayerRecord(w http.ResponseWriter, r *http.Request) {
	player, err := store.NormalizePlayer(chi.URLParam(r, "player"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorDTO{Error: err.Error()})
		return
	}

	rec, err := h.records.Load(r.Context(), player)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, ErrorDTO{Error: "no record for " + player})
	case err != nil:
		h.logger.Error("load record", "player", player, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorDTO{Error: "record unavailable"})
	default:
		h.writeJSON(w, http.StatusOK, toRecord(rec))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", "status", status, "err", err)
	}
}
