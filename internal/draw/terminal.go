package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	styleReset = "\033[0m"

	// SGR extended mouse reporting: press/release events with decimal
	// coordinates.
	mouseOn  = "\033[?1000h\033[?1006h"
	mouseOff = "\033[?1006l\033[?1000l"
)

// ChunkWriter accumulates text for terminal output and writes in chunks for
// optimal network flow (e.g. over SSH). Use MoveCursor, WriteString,
// WriteAt to accumulate, then Flush to write to the underlying writer.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and
// offsetRow are added to all MoveCursor coordinates.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are
// 1-based canvas coordinates; the offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteStyledAt writes s at a canvas position in the given colors and
// resets styling afterwards.
func (cw *ChunkWriter) WriteStyledAt(col, row int, fg, bg Color, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(Style(fg, bg))
	cw.buf.WriteString(s)
	cw.buf.WriteString(styleReset)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Style returns the SGR sequence for a truecolor foreground and background.
func Style(fg, bg Color) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm", fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// ClearScreen clears the terminal with bg and moves the cursor to top-left.
func ClearScreen(w io.Writer, bg Color) {
	fmt.Fprint(w, Style(bg, bg)+"\033[H\033[2J"+styleReset)
}

// ResetScreen restores default colors and clears the terminal.
func ResetScreen(w io.Writer) {
	fmt.Fprint(w, styleReset+"\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnableMouse turns on click reporting.
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, mouseOn)
}

// DisableMouse turns off click reporting.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, mouseOff)
}
