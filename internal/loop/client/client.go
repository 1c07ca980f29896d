package client

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/ballrush/internal/draw"
	"github.com/tomz197/ballrush/internal/input"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/round"
)

// Client handles rendering and input for a single terminal connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	aspect       float64 // Field width over height
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
}

// NewClient creates a new client connected to the given server.
func NewClient(ctx context.Context, gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := gs.RegisterClient(ctx, opts.Username)

	fieldWidth, fieldHeight := float64(config.FieldWidth), float64(config.FieldHeight)
	if snap := handle.Snapshot(); snap != nil && snap.FieldWidth > 0 && snap.FieldHeight > 0 {
		fieldWidth, fieldHeight = snap.FieldWidth, snap.FieldHeight
	}

	termWidth, termHeight, err := termSizeFunc()
	if err != nil {
		termWidth, termHeight = 80, 24
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitRenderArea(termWidth, termHeight, fieldWidth/fieldHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, fieldWidth, fieldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		aspect:       fieldWidth / fieldHeight,
		logger:       logger.With("player", opts.Username),
	}
}

// Run starts the client loop. Blocks until the client disconnects or the
// server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer func() {
		draw.DisableMouse(c.writer)
		draw.ShowCursor(c.writer)
		draw.ResetScreen(c.writer)
	}()
	draw.ClearScreen(c.writer, paletteFor(c.state.Theme).Background)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		snap := c.snapshot()
		c.applyStoredTheme(snap)

		c.processInput(snap)
		c.processServerEvents()
		c.updateScreen()
		c.state.age(c.state.delta.Seconds())

		if c.state.GameState == GameStateShutdown {
			c.updateShutdownState()
		}

		if err := c.drawFrame(snap); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)
	c.logger.Debug("client loop finished")
	return nil
}

// snapshot returns the session's latest published state. Before the session
// joins the server loop, the handle's initial snapshot is used.
func (c *Client) snapshot() *server.SessionSnapshot {
	if snap := c.server.GetSnapshot(c.handle.ID); snap != nil {
		return snap
	}
	return c.handle.Snapshot()
}

// applyStoredTheme adopts the player's saved theme the first time a record
// is seen.
func (c *Client) applyStoredTheme(snap *server.SessionSnapshot) {
	if c.state.themeLoaded || snap == nil {
		return
	}
	c.state.themeLoaded = true
	if snap.Record.Theme.Valid() {
		c.state.Theme = snap.Record.Theme
	}
}

// processInput reads input and forwards requests to the server.
func (c *Client) processInput(snap *server.SessionSnapshot) {
	c.state.Input = input.ReadInput(c.inputStream)
	c.handleInput(snap, c.state.Input)
}

func (c *Client) handleInput(snap *server.SessionSnapshot, in input.Input) {
	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.GameState == GameStateShutdown {
		return
	}

	if in.Help {
		c.state.ShowHelp = !c.state.ShowHelp
		c.state.helpChanged = true
	}
	if in.Escape && c.state.ShowHelp {
		c.state.ShowHelp = false
		c.state.helpChanged = true
	}
	if in.Theme {
		c.state.Theme = c.state.Theme.Toggle()
		c.server.SetTheme(c.handle.ID, c.state.Theme)
		c.canvas.ForceRedraw()
		c.state.helpChanged = true
	}

	switch c.state.GameState {
	case GameStateStart, GameStateOver:
		if in.Start && !c.state.ShowHelp {
			c.server.StartRound(c.handle.ID)
		}
	case GameStatePlaying:
		if !c.state.ShowHelp {
			c.clickBalls(snap, in.Clicks)
		}
	}
}

// clickBalls maps terminal clicks to field points and reports every ball hit.
func (c *Client) clickBalls(snap *server.SessionSnapshot, clicks []input.Click) {
	if snap == nil || len(clicks) == 0 {
		return
	}
	// Half a cell of slack so a click on a ball's blocky edge still counts.
	slack := snap.FieldWidth / float64(c.canvas.TerminalWidth()) / 2

	for _, click := range clicks {
		x, y, ok := c.canvas.TerminalToLogical(click.Col, click.Row)
		if !ok {
			continue
		}
		if b, hit := snap.BallAt(x, y, slack); hit {
			c.server.Click(c.handle.ID, b.ID)
		}
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventRound:
				c.applyRoundEvent(event.Round)
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

func (c *Client) applyRoundEvent(ev round.Event) {
	if c.state.GameState == GameStateShutdown {
		return
	}
	switch e := ev.(type) {
	case round.RoundStarted:
		c.state.GameState = GameStatePlaying
		c.state.popups = c.state.popups[:0]
		c.state.banner = nil
	case round.RoundEnded:
		c.state.LastRound = e
		c.state.GameState = GameStateOver
		c.state.banner = nil
	case round.PointsAwarded:
		if e.Points == 0 {
			return
		}
		text := "+" + strconv.Itoa(e.Points)
		if e.Combo > 1 {
			text = "COMBO! " + text
		}
		c.state.popups = append(c.state.popups, popup{
			x:     e.X,
			y:     e.Y,
			text:  text,
			combo: e.Combo > 1,
			ttl:   config.PopupSeconds,
		})
	case round.PowerUpActivated:
		c.state.banner = &notification{text: e.Label, ttl: config.NotificationSeconds}
	}
}

// updateScreen handles terminal resize. On actual size changes it clears
// the terminal to remove residual pixels outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitRenderArea(termWidth, termHeight, c.aspect)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer, paletteFor(c.state.Theme).Background)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fitRenderArea picks the largest render area that fits the terminal, stays
// within the max render resolution and keeps the field's aspect ratio with
// two sub-pixels per row, so balls come out round. The area is centered.
func fitRenderArea(termWidth, termHeight int, aspect float64) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)

	// cols / (rows*2) == aspect
	if float64(renderWidth) > float64(renderHeight*2)*aspect {
		renderWidth = min(renderWidth, int(math.Round(float64(renderHeight*2)*aspect)))
	} else {
		renderHeight = min(renderHeight, int(math.Round(float64(renderWidth)/aspect/2)))
	}
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)

	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
