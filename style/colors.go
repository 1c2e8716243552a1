package style

import (
	"golang.org/x/image/colornames"
)

// ColorTable resolves lower-case color names.
type ColorTable interface {
	Lookup(name string) (RGB, bool)
}

// ColorMap is a ColorTable backed by a map.
type ColorMap map[string]RGB

func (m ColorMap) Lookup(name string) (RGB, bool) {
	c, ok := m[name]
	return c, ok
}

// ColorChain looks a name up in each table in order.
type ColorChain []ColorTable

func (cs ColorChain) Lookup(name string) (RGB, bool) {
	for _, t := range cs {
		if c, ok := t.Lookup(name); ok {
			return c, true
		}
	}
	return RGB{}, false
}

type svgColors struct{}

func (svgColors) Lookup(name string) (RGB, bool) {
	c, ok := colornames.Map[name]
	if !ok {
		return RGB{}, false
	}
	return RGB{R: c.R, G: c.G, B: c.B}, true
}

// SVGColors holds the SVG 1.1 color keywords ("aliceblue", "tomato", ...).
var SVGColors ColorTable = svgColors{}

// WaveformColors holds the names the waveform viewer's own palette uses. Several of them differ from the SVG
// color of the same name, so they take precedence.
var WaveformColors = ColorMap{
	"black":        {R: 0, G: 0, B: 0},
	"white":        {R: 255, G: 255, B: 255},
	"red":          {R: 255, G: 0, B: 0},
	"green":        {R: 0, G: 255, B: 0},
	"blue":         {R: 0, G: 0, B: 255},
	"yellow":       {R: 255, G: 255, B: 0},
	"cyan":         {R: 0, G: 255, B: 255},
	"magenta":      {R: 255, G: 0, B: 255},
	"gray":         {R: 160, G: 160, B: 160},
	"grey":         {R: 160, G: 160, B: 160},
	"light_gray":   {R: 220, G: 220, B: 220},
	"light_grey":   {R: 220, G: 220, B: 220},
	"dark_gray":    {R: 96, G: 96, B: 96},
	"dark_grey":    {R: 96, G: 96, B: 96},
	"brown":        {R: 165, G: 42, B: 42},
	"dark_red":     {R: 0x8b, G: 0, B: 0},
	"light_red":    {R: 255, G: 128, B: 128},
	"orange":       {R: 255, G: 165, B: 0},
	"light_yellow": {R: 255, G: 255, B: 0xe0},
	"khaki":        {R: 240, G: 230, B: 140},
	"dark_green":   {R: 0, G: 0x64, B: 0},
	"light_green":  {R: 0x90, G: 0xee, B: 0x90},
	"dark_blue":    {R: 0, G: 0, B: 0x8b},
	"light_blue":   {R: 0xad, G: 0xd8, B: 0xe6},
	"purple":       {R: 0x80, G: 0, B: 0x80},
	"gold":         {R: 255, G: 215, B: 0},
}

var DefaultColors ColorTable = ColorChain{WaveformColors, SVGColors}
