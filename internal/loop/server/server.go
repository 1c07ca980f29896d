package server

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/round"
	"github.com/tomz197/ballrush/internal/store"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples terminal and web clients from the concrete Server.
type GameServer interface {
	RegisterClient(ctx context.Context, player string) *ClientHandle
	UnregisterClient(clientID int)
	StartRound(clientID int)
	Click(clientID int, ballID uint64)
	SetTheme(clientID int, theme store.Theme)
	GetSnapshot(clientID int) *SessionSnapshot
}

// Server hosts one independent round per connected client. All round
// mutations happen on the Run goroutine; clients talk to it through
// channels and read published snapshots.
type Server struct {
	tuning  config.Tuning
	records store.Records
	logger  *log.Logger
	seed    int64

	sessions     map[int]*session
	nextClientID int
	commandCh    chan ClientCommand
	registerCh   chan *session
	unregisterCh chan int
	stopped      chan struct{} // Closed when Run returns
	mu           sync.RWMutex

	persist *persister
	top     atomic.Pointer[[]store.Record]
	clients atomic.Int32
}

var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Player   string
	EventsCh chan ClientEvent // Round events and server notices, in order

	snapshot atomic.Pointer[SessionSnapshot]
}

// Snapshot returns the most recently published state of this client's session.
func (h *ClientHandle) Snapshot() *SessionSnapshot {
	return h.snapshot.Load()
}

// ClientEvent is sent from the server to one client.
type ClientEvent struct {
	Type  ClientEventType
	Round round.Event // Set for EventRound
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventRound ClientEventType = iota
	EventServerShutdown
)

// CommandType identifies a client request.
type CommandType int

const (
	CommandStart CommandType = iota
	CommandClick
	CommandTheme
)

// ClientCommand is a request from a specific client, applied at the start
// of the next tick.
type ClientCommand struct {
	ClientID int
	Type     CommandType
	BallID   uint64
	Theme    store.Theme
}

// Options configures a Server.
type Options struct {
	Tuning  config.Tuning
	Records store.Records
	Logger  *log.Logger
	Seed    int64 // Non-zero makes ball placement reproducible per client id
}

// NewServer creates a new game server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	records := opts.Records
	if records == nil {
		records = store.NewMemory()
	}

	s := &Server{
		tuning:       opts.Tuning,
		records:      records,
		logger:       logger,
		seed:         opts.Seed,
		sessions:     make(map[int]*session),
		nextClientID: 1,
		commandCh:    make(chan ClientCommand, 256),
		registerCh:   make(chan *session, 16),
		unregisterCh: make(chan int, 16),
		stopped:      make(chan struct{}),
	}
	s.persist = newPersister(records, logger, &s.top)
	empty := []store.Record{}
	s.top.Store(&empty)
	return s
}

// Run starts the persistence worker and the tick loop. Blocks until the
// context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.stopped)
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.persist.run(workerCtx)
	}()
	defer func() {
		stopWorker()
		<-workerDone
	}()

	s.persist.refreshTop(ctx)
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.tick(delta)

		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// tick runs one server frame: membership changes, queued commands, round
// time, then snapshots.
func (s *Server) tick(delta time.Duration) {
	s.processRegistrations()
	s.collectCommands()

	s.mu.RLock()
	for _, sess := range s.sessions {
		sess.round.Advance(delta)
	}
	s.mu.RUnlock()

	s.publishSnapshots()
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. The caller should cancel the server context after
// Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, sess := range s.sessions {
		select {
		case sess.handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.clients.Load() == 0 {
				return
			}
		}
	}
}

// RegisterClient loads the player's record and queues a new session. The
// returned handle has a snapshot immediately; the session joins the loop on
// the next tick.
func (s *Server) RegisterClient(ctx context.Context, player string) *ClientHandle {
	rec, err := store.LoadOrNew(ctx, s.records, player)
	if err != nil {
		s.logger.Warn("load record failed, starting fresh", "player", player, "err", err)
	}

	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Player:   player,
		EventsCh: make(chan ClientEvent, 512),
	}

	var rng *rand.Rand
	if s.seed != 0 {
		rng = rand.New(rand.NewSource(s.seed + int64(id)))
	}
	sess := newSession(handle, rec, s.tuning, rng, s.persist, s.logger)
	handle.snapshot.Store(sess.snapshot(s.topScores(), int(s.clients.Load())+1))

	s.clients.Add(1)
	select {
	case s.registerCh <- sess:
	case <-s.stopped:
		// The loop is gone; the session never joins.
		s.clients.Add(-1)
		close(handle.EventsCh)
	}
	return handle
}

// UnregisterClient removes a client from the server. It does not block once
// Run has returned.
func (s *Server) UnregisterClient(clientID int) {
	select {
	case s.unregisterCh <- clientID:
	case <-s.stopped:
	}
}

// StartRound asks for a new round; ignored while one is running.
func (s *Server) StartRound(clientID int) {
	s.send(ClientCommand{ClientID: clientID, Type: CommandStart})
}

// Click reports a click on a ball.
func (s *Server) Click(clientID int, ballID uint64) {
	s.send(ClientCommand{ClientID: clientID, Type: CommandClick, BallID: ballID})
}

// SetTheme stores the client's theme preference.
func (s *Server) SetTheme(clientID int, theme store.Theme) {
	s.send(ClientCommand{ClientID: clientID, Type: CommandTheme, Theme: theme})
}

func (s *Server) send(cmd ClientCommand) {
	select {
	case s.commandCh <- cmd:
	default:
		// Command channel full, drop
	}
}

// GetSnapshot returns the latest snapshot of a client's session.
func (s *Server) GetSnapshot(clientID int) *SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[clientID]; ok {
		return sess.handle.Snapshot()
	}
	return nil
}

// TopScores returns the cached leaderboard.
func (s *Server) TopScores() []store.Record {
	return s.topScores()
}

func (s *Server) topScores() []store.Record {
	return *s.top.Load()
}

// processRegistrations handles pending client registrations, then
// unregistrations, so a client that leaves right after joining is removed.
func (s *Server) processRegistrations() {
	for {
		select {
		case sess := <-s.registerCh:
			s.mu.Lock()
			s.sessions[sess.handle.ID] = sess
			s.mu.Unlock()
			s.logger.Info("session joined", "client", sess.handle.ID, "player", sess.handle.Player)
			continue
		default:
		}

		select {
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if sess, ok := s.sessions[clientID]; ok {
				close(sess.handle.EventsCh)
				delete(s.sessions, clientID)
				s.clients.Add(-1)
				s.logger.Info("session left", "client", clientID, "player", sess.handle.Player)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectCommands applies all pending client commands.
func (s *Server) collectCommands() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		select {
		case cmd := <-s.commandCh:
			sess, ok := s.sessions[cmd.ClientID]
			if !ok {
				continue
			}
			switch cmd.Type {
			case CommandStart:
				sess.round.Start()
			case CommandClick:
				sess.round.Click(cmd.BallID)
			case CommandTheme:
				sess.setTheme(cmd.Theme)
			}
		default:
			return
		}
	}
}

// publishSnapshots stores an immutable snapshot on every handle.
func (s *Server) publishSnapshots() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := s.topScores()
	players := len(s.sessions)
	for _, sess := range s.sessions {
		sess.handle.snapshot.Store(sess.snapshot(top, players))
	}
}
