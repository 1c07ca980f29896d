package client

import (
	"github.com/tomz197/ballrush/internal/ball"
	"github.com/tomz197/ballrush/internal/draw"
	"github.com/tomz197/ballrush/internal/store"
)

// palette is the set of UI colors for one theme.
type palette struct {
	Background draw.Color
	Text       draw.Color
	Dim        draw.Color
	Accent     draw.Color
	Combo      draw.Color
	Warning    draw.Color
}

var (
	darkPalette = palette{
		Background: draw.Color{R: 0x1a, G: 0x1a, B: 0x2e},
		Text:       draw.Color{R: 0xee, G: 0xee, B: 0xee},
		Dim:        draw.Color{R: 0x88, G: 0x88, B: 0x99},
		Accent:     draw.Color{R: 0x4e, G: 0xcd, B: 0xc4},
		Combo:      draw.Color{R: 0xff, G: 0xd9, B: 0x3d},
		Warning:    draw.Color{R: 0xff, G: 0x4d, B: 0x4d},
	}
	lightPalette = palette{
		Background: draw.Color{R: 0xf4, G: 0xf1, B: 0xea},
		Text:       draw.Color{R: 0x22, G: 0x22, B: 0x22},
		Dim:        draw.Color{R: 0x77, G: 0x77, B: 0x77},
		Accent:     draw.Color{R: 0x1b, G: 0x7f, B: 0x79},
		Combo:      draw.Color{R: 0xc2, G: 0x7c, B: 0x00},
		Warning:    draw.Color{R: 0xc0, G: 0x1c, B: 0x1c},
	}
)

func paletteFor(t store.Theme) palette {
	if t == store.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

func ballColor(defs ball.Definitions, kind ball.Kind) draw.Color {
	def, ok := defs.Lookup(kind)
	if !ok {
		return draw.Color{R: 0xcc, G: 0xcc, B: 0xcc}
	}
	return draw.Color{R: def.Color.R, G: def.Color.G, B: def.Color.B}
}
