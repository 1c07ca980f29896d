package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/draw"
	"github.com/tomz197/ballrush/internal/loop/config"
	"github.com/tomz197/ballrush/internal/loop/server"
	"github.com/tomz197/ballrush/internal/store"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *server.SessionSnapshot) error {
	pal := paletteFor(c.state.Theme)

	// On screen transitions, do a full terminal clear so text from the
	// previous screen doesn't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged || c.state.helpChanged {
		draw.ClearScreen(c.writer, pal.Background)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.helpChanged = false
	}

	c.canvas.SetBackground(pal.Background)
	c.canvas.Clear()

	if snap != nil && c.state.GameState == GameStatePlaying && !c.state.ShowHelp {
		for _, b := range snap.Balls {
			cx, cy := b.Center()
			c.canvas.FillCircle(cx, cy, b.Radius(), ballColor(snap.Definitions, b.Kind))
		}
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	if snap != nil {
		c.drawUI(snap, pal)
	}

	return c.chunkWriter.Flush()
}

// text writes s at a canvas-relative cell and marks the cells dirty so the
// canvas paints over them next frame unless they are written again.
func (c *Client) text(col, row int, fg, bg draw.Color, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() || col < 1 {
		return
	}
	width := utf8.RuneCountInString(s)
	if col+width-1 > c.canvas.TerminalWidth() {
		return
	}
	c.chunkWriter.WriteStyledAt(col, row, fg, bg, s)
	c.canvas.MarkTextDirty(col, row, width)
}

// centered writes s centered on the given row.
func (c *Client) centered(row int, fg draw.Color, s string) {
	pal := paletteFor(c.state.Theme)
	col := c.canvas.TerminalWidth()/2 - utf8.RuneCountInString(s)/2 + 1
	c.text(max(col, 1), row, fg, pal.Background, s)
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *server.SessionSnapshot, pal palette) {
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerY, pal)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerY, pal)
		return
	}
	if c.state.ShowHelp {
		c.drawHelpScreen(snap.Definitions, pal)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawBallGlyphs(snap, pal)
		c.drawPopups(pal)
		c.drawPlayingHUD(snap, pal)
	case GameStateStart:
		c.drawStartScreen(snap, centerY, pal)
	case GameStateOver:
		c.drawGameOverScreen(snap, centerY, pal)
	}
}

// drawBallGlyphs marks special balls with their symbol at the center.
func (c *Client) drawBallGlyphs(snap *server.SessionSnapshot, pal palette) {
	for _, b := range snap.Balls {
		def, ok := snap.Definitions.Lookup(b.Kind)
		if !ok || def.Glyph == 0 {
			continue
		}
		cx, cy := b.Center()
		col, row := c.canvas.LogicalToTerminal(cx, cy)
		c.text(col, row, pal.Text, ballColor(snap.Definitions, b.Kind), string(def.Glyph))
	}
}

func (c *Client) drawPopups(pal palette) {
	for _, p := range c.state.popups {
		// Popups drift upward over their lifetime.
		rise := (config.PopupSeconds - p.ttl) / config.PopupSeconds * 30
		col, row := c.canvas.LogicalToTerminal(p.x, p.y-rise)
		fg := pal.Text
		if p.combo {
			fg = pal.Combo
		}
		c.text(col-utf8.RuneCountInString(p.text)/2, row, fg, pal.Background, p.text)
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(snap *server.SessionSnapshot, pal palette) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	st := snap.State

	c.text(2, 1, pal.Text, pal.Background, fmt.Sprintf("Score: %-6d", st.Score))

	comboFg := pal.Dim
	if st.Combo > 1 {
		comboFg = pal.Combo
	}
	c.text(16, 1, comboFg, pal.Background, fmt.Sprintf("Combo: %-3d", st.Combo))

	timeFg := pal.Text
	if st.TimeLeft <= 5 {
		timeFg = pal.Warning
	}
	timeText := fmt.Sprintf("Time: %2ds", st.TimeLeft)
	c.text(termWidth/2-len(timeText)/2, 1, timeFg, pal.Background, timeText)

	bestText := fmt.Sprintf("High: %-6d", st.HighScore)
	c.text(termWidth-len(bestText)-1, 1, pal.Text, pal.Background, bestText)

	// Bottom row: active power-ups, best combo and player count.
	var active []string
	for _, kind := range st.Active.Kinds() {
		active = append(active, kind.String())
	}
	powerText := fmt.Sprintf("%-28s", strings.Join(active, " "))
	c.text(2, termHeight, pal.Accent, pal.Background, powerText)

	statusText := fmt.Sprintf("Best combo: %-3d Players: %-4d", st.BestCombo, snap.Players)
	c.text(termWidth-len(statusText)-1, termHeight, pal.Dim, pal.Background, statusText)

	if c.state.banner != nil {
		c.centered(3, pal.Accent, c.state.banner.text)
	}
}

// drawStartScreen draws the title screen with controls and the leaderboard.
func (c *Client) drawStartScreen(snap *server.SessionSnapshot, centerY int, pal palette) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___   _   _    _      ___ _   _ ___ _  _ `,
		`| _ ) /_\ | |  | |    | _ \ | | / __| || |`,
		`| _ \/ _ \| |__| |__  |   / |_| \__ \ __ |`,
		`|___/_/ \_\____|____| |_|_\\___/|___/_||_|`,
	}

	titleStartY := max(centerY-9, 1)
	for i, line := range titleArt {
		c.centered(titleStartY+i, pal.Accent, line)
	}

	subtitle := "~ Click the balls before they vanish ~"
	c.centered(titleStartY+len(titleArt)+1, pal.Dim, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlLines := []string{
		"Mouse  . . . . . Click a ball",
		"SPACE  . . . . . Start round",
		"T  . . . . . . . Toggle theme",
		"?  . . . . . . . Help",
		"Q  . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.centered(controlsY+i, pal.Text, line)
	}

	boardY := controlsY + len(controlLines) + 1
	c.drawLeaderboard(snap.TopScores, boardY, pal)

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(boardY+len(snap.TopScores)+2, pal.Combo, ">>  Press SPACE to Start  <<")
	}
}

func (c *Client) drawLeaderboard(top []store.Record, row int, pal palette) {
	if len(top) == 0 {
		return
	}
	c.centered(row, pal.Dim, "Top scores")
	for i, rec := range top {
		line := fmt.Sprintf("%d. %-*s %6d", i+1, store.MaxPlayerLength, rec.Player, rec.HighScore)
		fg := pal.Text
		if rec.Player == c.username {
			fg = pal.Accent
		}
		c.centered(row+1+i, fg, line)
	}
}

// drawGameOverScreen shows the finished round's result.
func (c *Client) drawGameOverScreen(snap *server.SessionSnapshot, centerY int, pal palette) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	titleStartY := max(centerY-7, 1)
	for i, line := range titleArt {
		c.centered(titleStartY+i, pal.Warning, line)
	}

	res := c.state.LastRound
	y := titleStartY + len(titleArt) + 1
	c.centered(y, pal.Text, fmt.Sprintf("Score: %d", res.Score))
	if res.NewHighScore {
		c.centered(y+1, pal.Combo, "New high score!")
	} else {
		c.centered(y+1, pal.Dim, fmt.Sprintf("High score: %d", res.HighScore))
	}
	c.centered(y+2, pal.Dim, fmt.Sprintf("Best combo: %d", snap.State.BestCombo))

	c.drawLeaderboard(snap.TopScores, y+4, pal)

	if time.Now().UnixMilli()/600%2 == 0 {
		c.centered(y+len(snap.TopScores)+6, pal.Combo, ">>  Press SPACE to Play Again  <<")
	}
}

// drawHelpScreen lists the ball kinds and the scoring rules.
func (c *Client) drawHelpScreen(defs ball.Definitions, pal palette) {
	lines := []string{"HOW TO PLAY", ""}
	for _, def := range defs {
		glyph := " "
		if def.Glyph != 0 {
			glyph = string(def.Glyph)
		}
		lines = append(lines, fmt.Sprintf("%s %-11s %s", glyph, def.Kind, helpLine(def)))
	}
	lines = append(lines,
		"",
		"Clicks less than 1s apart build a combo.",
		"Each combo step adds x0.2 to points, up to x3.",
		"Balls vanish after 3 seconds.",
		"",
		"Press ? or ESC to close",
	)

	startY := max(c.canvas.TerminalHeight()/2-len(lines)/2, 1)
	for i, line := range lines {
		fg := pal.Text
		if i == 0 {
			fg = pal.Accent
		}
		c.centered(startY+i, fg, line)
	}
}

func helpLine(def ball.Definition) string {
	switch def.Kind {
	case ball.KindTimeFreeze:
		return "+3 seconds"
	case ball.KindStrike:
		return "collects every ball after 1s"
	case ball.KindBomb:
		return "-5 seconds"
	default:
		return fmt.Sprintf("%d points", def.Points)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int, pal palette) {
	c.centered(centerY-2, pal.Warning, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.centered(centerY, pal.Text, msg)
	c.centered(centerY+2, pal.Dim, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int, pal palette) {
	c.centered(centerY-3, pal.Warning, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, pal.Text, "The server is restarting for maintenance.")
	c.centered(centerY, pal.Text, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.centered(centerY+2, pal.Text, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.centered(centerY+4, pal.Dim, "Press Q to disconnect now")
}
