package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a 24-bit terminal color.
type Color struct {
	R, G, B uint8
}

// pixel packs a color with a presence bit; the zero value is an empty pixel.
type pixel uint32

func pixelOf(c Color) pixel {
	return pixel(1<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

func (p pixel) color() Color {
	return Color{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p)}
}

// cell is what one terminal character shows: two stacked sub-pixels.
type cell struct {
	top, bottom pixel
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. It maps a logical coordinate space (the play field)
// onto the terminal and only repaints cells that changed since the last
// Render.
type Canvas struct {
	termWidth      int // Actual terminal columns
	termHeight     int // Actual terminal rows
	subPixelHeight int // termHeight * 2
	pixels         []pixel
	prev           []cell // What the terminal shows; nil forces a full repaint

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// 0-based terminal offsets of the render area.
	offsetCol int
	offsetRow int

	background Color

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal sub-pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]pixel, c.subPixelHeight*termWidth)
		c.prev = nil
	}
	c.scaleX = float64(c.termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// SetBackground sets the color empty cells are painted with.
func (c *Canvas) SetBackground(bg Color) {
	if bg != c.background {
		c.prev = nil
	}
	c.background = bg
}

// ForceRedraw makes the next Render repaint every cell.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	if c.prev == nil || row < 1 || row > c.termHeight {
		return
	}
	start := max(col-1, 0)
	end := min(col-1+width, c.termWidth)
	base := (row - 1) * c.termWidth
	for i := start; i < end; i++ {
		// An impossible cell value never matches a real frame.
		c.prev[base+i] = cell{top: dirtyPixel}
	}
}

// dirtyPixel has no presence bit but a nonzero color, so no drawn pixel
// equals it.
const dirtyPixel pixel = 1

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at sub-pixel coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, p pixel) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = p
	}
}

// At returns the color at sub-pixel (x, y) and whether it is set.
func (c *Canvas) At(x, y int) (Color, bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Color{}, false
	}
	p := c.pixels[y*c.termWidth+x]
	return p.color(), p != 0
}

// FillCircle fills a circle given in logical coordinates. A sub-pixel is
// covered when its center lies inside the (scaled) circle; circles smaller
// than one sub-pixel still mark the pixel under their center.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	p := pixelOf(col)
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}

	x0 := int(math.Floor(pcx - rx))
	x1 := int(math.Ceil(pcx + rx))
	y0 := int(math.Floor(pcy - ry))
	y1 := int(math.Ceil(pcy + ry))

	hit := false
	for y := y0; y <= y1; y++ {
		dy := (float64(y) + 0.5 - pcy) / ry
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - pcx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y, p)
				hit = true
			}
		}
	}
	if !hit {
		c.setPixel(int(pcx), int(pcy), p)
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render. Styling
// is reset afterwards.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	full := c.prev == nil
	if full {
		c.prev = make([]cell, c.termWidth*c.termHeight)
	}

	lastCol, lastRow := -1, -1
	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			idx := row*c.termWidth + col
			if !full && c.prev[idx] == cur {
				continue
			}
			c.prev[idx] = cur

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			lastCol, lastRow = col, row
			c.writeCell(cur)
		}
	}

	if c.renderBuf.Len() == 0 {
		return
	}
	c.renderBuf.WriteString(styleReset)
	writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) writeCell(cur cell) {
	switch {
	case cur.top != 0 && cur.bottom != 0:
		if cur.top == cur.bottom {
			c.writeColors(cur.top.color(), c.background)
			c.renderBuf.WriteRune(BlockFull)
			return
		}
		c.writeColors(cur.top.color(), cur.bottom.color())
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.top != 0:
		c.writeColors(cur.top.color(), c.background)
		c.renderBuf.WriteRune(BlockUpperHalf)
	case cur.bottom != 0:
		c.writeColors(cur.bottom.color(), c.background)
		c.renderBuf.WriteRune(BlockLowerHalf)
	default:
		c.writeColors(c.background, c.background)
		c.renderBuf.WriteByte(' ')
	}
}

func (c *Canvas) writeColors(fg, bg Color) {
	c.renderBuf.WriteString("\033[38;2;")
	c.writeRGB(fg)
	c.renderBuf.WriteString(";48;2;")
	c.writeRGB(bg)
	c.renderBuf.WriteByte('m')
}

func (c *Canvas) writeRGB(col Color) {
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(col.B), 10))
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box around the canvas area when the terminal exceeds
// the render area on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right bars
	hasV := c.offsetRow >= 1 // Room for top/bottom bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + line + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + line)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + line)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow, endRow = c.offsetRow+1, c.offsetRow+c.termHeight+1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}
	io.WriteString(w, buf.String())
}

// TerminalWidth returns the render area's column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area's row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based position
// (col, row) relative to the render area.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical maps an absolute 1-based terminal cell, as reported by
// mouse events, to the logical point at the center of that cell. ok is false
// outside the render area.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64, ok bool) {
	localCol := col - 1 - c.offsetCol
	localRow := row - 1 - c.offsetRow
	if localCol < 0 || localCol >= c.termWidth || localRow < 0 || localRow >= c.termHeight {
		return 0, 0, false
	}
	x = (float64(localCol) + 0.5) / c.scaleX
	y = (float64(localRow*2) + 1) / c.scaleY
	return x, y, true
}

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}
