package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/store"
)

const (
	readLimit    = 4 << 10
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
)

// Play upgrades to a websocket and runs one game session for the player
// named by ?player=. Browser requests are read on their own goroutine;
// this goroutine is the only writer.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	player, err := store.NormalizePlayer(r.URL.Query().Get("player"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorDTO{Error: err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket upgrade", "player", player, "err", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("player", player, "remote", r.RemoteAddr)
	handle := h.game.RegisterClient(r.Context(), player)
	defer h.game.UnregisterClient(handle.ID)
	logger.Info("websocket session started", "client", handle.ID)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readRequests(conn, handle.ID)
	}()

	if snap := handle.Snapshot(); snap != nil {
		if err := writeMessage(conn, toWelcome(snap, h.tuning.RoundSeconds)); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-handle.EventsCh:
			if !ok {
				return
			}
			if ev.Type == server.EventServerShutdown {
				_ = writeMessage(conn, Message{Type: "shutdown"})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return
			}
			msg, ok := toMessage(ev.Round)
			if !ok {
				continue
			}
			if err := writeMessage(conn, msg); err != nil {
				logger.Debug("websocket write", "err", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			logger.Info("websocket session ended", "client", handle.ID)
			return
		}
	}
}

// readRequests applies browser requests until the connection fails.
func (h *Handler) readRequests(conn *websocket.Conn, clientID int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			h.logger.Debug("bad websocket request", "client", clientID, "err", err)
			continue
		}

		switch req.Type {
		case "start":
			h.game.StartRound(clientID)
		case "click":
			h.game.Click(clientID, req.ID)
		case "theme":
			theme, err := store.ParseTheme(req.Theme)
			if err != nil {
				h.logger.Debug("bad theme", "client", clientID, "theme", req.Theme)
				continue
			}
			h.game.SetTheme(clientID, theme)
		default:
			h.logger.Debug("unknown websocket request", "client", clientID, "type", req.Type)
		}
	}
}

func writeMessage(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
