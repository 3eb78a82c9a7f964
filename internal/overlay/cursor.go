// Package overlay draws the recorded pointer onto step screenshots.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/v0xg/storecheck/internal/executor"
)

var (
	outlineColor = color.RGBA{0, 0, 0, 255}
	fillColor    = color.RGBA{255, 255, 255, 255}
	clickColor   = color.RGBA{66, 133, 244, 255}
	failColor    = color.RGBA{219, 68, 55, 255}
)

// ApplyCursor draws positions[i] onto frames[i]. The executor captures one
// cursor position per frame, so the slices must line up.
func ApplyCursor(frames []image.Image, positions []executor.CursorPosition) ([]image.Image, error) {
	if len(positions) != len(frames) {
		return nil, fmt.Errorf("overlay: %d frames but %d cursor positions", len(frames), len(positions))
	}

	out := make([]image.Image, len(frames))
	for i, frame := range frames {
		img := copyFrame(frame)
		pos := positions[i]
		if pos.Click {
			drawClickRing(img, pos.X, pos.Y)
		}
		switch pos.State {
		case executor.CursorPointer:
			drawPointer(img, pos.X, pos.Y)
		default:
			drawArrow(img, pos.X, pos.Y)
		}
		out[i] = img
	}
	return out, nil
}

// MarkFailure returns a copy of frame framed by a red border
func MarkFailure(frame image.Image) image.Image {
	img := copyFrame(frame)
	b := img.Bounds()
	const width = 4
	for i := 0; i < width; i++ {
		drawLine(img, b.Min.X, b.Min.Y+i, b.Max.X-1, b.Min.Y+i, failColor)
		drawLine(img, b.Min.X, b.Max.Y-1-i, b.Max.X-1, b.Max.Y-1-i, failColor)
		drawLine(img, b.Min.X+i, b.Min.Y, b.Min.X+i, b.Max.Y-1, failColor)
		drawLine(img, b.Max.X-1-i, b.Min.Y, b.Max.X-1-i, b.Max.Y-1, failColor)
	}
	return img
}

func copyFrame(frame image.Image) *image.RGBA {
	b := frame.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, frame, b.Min, draw.Src)
	return img
}

// drawArrow draws the default arrow with its tip at (x, y)
func drawArrow(img *image.RGBA, x, y int) {
	for dy := 0; dy <= 16; dy++ {
		for dx := 0; dx <= 12; dx++ {
			if insideArrow(dx, dy) {
				setPixelSafe(img, x+dx, y+dy, fillColor)
			}
		}
	}

	outline := []struct{ dx, dy int }{{0, 0}, {0, 16}, {4, 12}, {7, 18}, {10, 17}, {7, 11}, {12, 11}}
	for i, p1 := range outline {
		p2 := outline[(i+1)%len(outline)]
		drawLine(img, x+p1.dx, y+p1.dy, x+p2.dx, y+p2.dy, outlineColor)
	}
}

func insideArrow(dx, dy int) bool {
	if dy <= 11 {
		return dx <= dy*12/16
	}
	return dx <= 4
}

// drawPointer draws a filled dot centered on (x, y), shown over clickable
// elements
func drawPointer(img *image.RGBA, x, y int) {
	const r = 6
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := dx*dx + dy*dy
			switch {
			case d <= (r-2)*(r-2):
				setPixelSafe(img, x+dx, y+dy, fillColor)
			case d <= r*r:
				setPixelSafe(img, x+dx, y+dy, outlineColor)
			}
		}
	}
}

func drawClickRing(img *image.RGBA, x, y int) {
	for _, radius := range []float64{14, 15, 16} {
		for angle := 0.0; angle < 360; angle++ {
			rad := angle * math.Pi / 180
			setPixelSafe(img, x+int(math.Round(radius*math.Cos(rad))), y+int(math.Round(radius*math.Sin(rad))), clickColor)
		}
	}
}

// drawLine is Bresenham's line
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
