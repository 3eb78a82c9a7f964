// Package gifgen turns the step screenshots of a scenario run into an
// animated GIF.
package gifgen

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/nfnt/resize"
)

// ErrNoFrames is returned when there is nothing to encode
var ErrNoFrames = errors.New("gifgen: no frames")

// Options configures GIF generation
type Options struct {
	FPS      int
	MaxWidth uint // frames wider than this are scaled down; 0 means 800
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 2
	}
	if o.MaxWidth == 0 {
		o.MaxWidth = 800
	}
	return o
}

// Encode writes frames to w as a looping GIF
func Encode(w io.Writer, frames []image.Image, opts Options) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	opts = opts.withDefaults()

	// delay is in 100ths of a second
	delay := 100 / opts.FPS
	if delay < 1 {
		delay = 1
	}

	width, height := outputSize(frames[0].Bounds(), opts.MaxWidth)
	palette := generatePalette(frames[0])

	g := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	for i, frame := range frames {
		scaled := frame
		if frame.Bounds().Dx() != int(width) {
			scaled = resize.Resize(width, height, frame, resize.Lanczos3)
		}
		paletted := image.NewPaletted(scaled.Bounds(), palette)
		draw.FloydSteinberg.Draw(paletted, scaled.Bounds(), scaled, scaled.Bounds().Min)

		g.Image[i] = paletted
		g.Delay[i] = delay
	}
	// the last frame is usually the interesting one
	g.Delay[len(g.Delay)-1] = delay * 3

	return gif.EncodeAll(w, g)
}

// Write encodes frames into a GIF at path, creating parent directories, and
// returns the file size
func Write(path string, frames []image.Image, opts Options) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create recording dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := Encode(f, frames, opts); err != nil {
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// outputSize keeps the aspect ratio and never scales up
func outputSize(bounds image.Rectangle, maxWidth uint) (uint, uint) {
	width := uint(bounds.Dx())
	if width > maxWidth {
		width = maxWidth
	}
	height := uint(float64(width) * float64(bounds.Dy()) / float64(bounds.Dx()))
	if height == 0 {
		height = 1
	}
	return width, height
}

// generatePalette builds a 256-color palette from the most frequent colors
// of a sampled image
func generatePalette(img image.Image) color.Palette {
	bounds := img.Bounds()
	counts := make(map[color.RGBA]int)

	const step = 4
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}]++
		}
	}

	colors := make([]color.RGBA, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		ci, cj := counts[colors[i]], counts[colors[j]]
		if ci != cj {
			return ci > cj
		}
		return packRGB(colors[i]) < packRGB(colors[j])
	})

	palette := make(color.Palette, 0, 256)
	// overlay colors are always present so the cursor survives quantization
	palette = append(palette,
		color.RGBA{0, 0, 0, 255},
		color.RGBA{255, 255, 255, 255},
		color.RGBA{66, 133, 244, 255},
		color.RGBA{219, 68, 55, 255},
	)
	for _, c := range colors {
		if len(palette) == 256 {
			break
		}
		palette = append(palette, c)
	}
	for len(palette) < 256 {
		gray := uint8(len(palette))
		palette = append(palette, color.RGBA{gray, gray, gray, 255})
	}
	return palette
}

func packRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
