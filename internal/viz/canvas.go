package viz

import "strings"

const brailleBlank = 0x2800

// dotBits maps a sub-pixel inside a 2x4 braille cell to its bit:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Pixel coordinates address dots, so a
// canvas of Width x Height cells has 2*Width x 4*Height pixels.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set lights a pixel. Pixels off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return
	}
	c.cells[(y/4)*c.Width+x/2] |= dotBits[y%4][x%2]
}

// IsSet reports whether a pixel is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return false
	}
	return c.cells[(y/4)*c.Width+x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// DrawLine draws a Bresenham line between two pixels.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Lit returns the number of lit pixels.
func (c *Canvas) Lit() int {
	n := 0
	for _, r := range c.cells {
		for bits := r - brailleBlank; bits != 0; bits &= bits - 1 {
			n++
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(len(c.cells)*3 + c.Height)
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
