package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/mat"

	"github.com/linuxmatters/jivevec/internal/config"
)

// ErrEmptyMatrix is returned when there is nothing to plot
var ErrEmptyMatrix = errors.New("feature matrix is empty")

// background matches the darkest palette stop so the plot blends into the frame
var background = color.RGBA{R: 12, G: 4, B: 4, A: 255}

// captionColor is the brand yellow used for titles
var captionColor = color.RGBA{R: 248, G: 179, B: 29, A: 255} // #F8B31D

// firePalette runs from cold to hot. Values are interpolated between stops.
var firePalette = []color.RGBA{
	{R: 12, G: 4, B: 4, A: 255},      // Near black
	{R: 139, G: 0, B: 0, A: 255},     // Dark ember red
	{R: 220, G: 20, B: 60, A: 255},   // Crimson
	{R: 255, G: 140, B: 0, A: 255},   // Deep orange
	{R: 255, G: 215, B: 0, A: 255},   // Bright yellow
	{R: 255, G: 250, B: 220, A: 255}, // White hot
}

// RenderFeatureMatrix writes a PNG heatmap of m, one row per feature and one
// column per frame, with title drawn above the plot
func RenderFeatureMatrix(outputPath string, m mat.Matrix, title string) error {
	img, err := Heatmap(m, title)
	if err != nil {
		return err
	}

	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}
	return nil
}

// Heatmap draws m into a HeatmapWidth x HeatmapHeight image. Row 0 is drawn
// at the bottom so low-order coefficients sit low, as in a spectrogram.
func Heatmap(m mat.Matrix, title string) (*image.RGBA, error) {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMatrix
	}

	img := image.NewRGBA(image.Rect(0, 0, config.HeatmapWidth, config.HeatmapHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	top := config.HeatmapMargin
	if title != "" {
		face, err := captionFace(config.HeatmapTitleSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load caption font: %w", err)
		}
		defer face.Close()

		top = drawCaption(img, face, title) + config.HeatmapCaptionGap
	}

	plot := image.Rect(config.HeatmapMargin, top,
		config.HeatmapWidth-config.HeatmapMargin, config.HeatmapHeight-config.HeatmapMargin)

	// One pixel per cell, then nearest-neighbour scaled so cells stay crisp
	cells := image.NewRGBA(image.Rect(0, 0, cols, rows))
	lo, hi := mat.Min(m), mat.Max(m)
	for r := 0; r < rows; r++ {
		y := rows - 1 - r
		for c := 0; c < cols; c++ {
			cells.SetRGBA(c, y, heatColor(normalise(m.At(r, c), lo, hi)))
		}
	}
	draw.NearestNeighbor.Scale(img, plot, cells, cells.Bounds(), draw.Src, nil)

	return img, nil
}

// normalise maps v from [lo, hi] onto [0, 1]. A flat matrix maps to 0.5.
func normalise(v, lo, hi float64) float64 {
	if hi-lo == 0 || math.IsNaN(v) {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// heatColor interpolates the fire palette at t in [0, 1]
func heatColor(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(firePalette)-1)
	i := int(pos)
	if i >= len(firePalette)-1 {
		return firePalette[len(firePalette)-1]
	}
	frac := pos - float64(i)

	a, b := firePalette[i], firePalette[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// captionFace loads the Go Regular font at size points
func captionFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// drawCaption draws text centred horizontally below the top margin and
// returns the y coordinate of its visual bottom edge
func drawCaption(img *image.RGBA, face font.Face, text string) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionColor),
		Face: face,
	}

	// Min.Y is negative (ascent), Max.Y positive (descent)
	bounds, _ := d.BoundString(text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	baseline := config.HeatmapMargin - bounds.Min.Y.Floor()

	x := max(config.HeatmapMargin, (img.Bounds().Dx()-textWidth)/2)
	d.Dot = freetype.Pt(x, baseline)
	d.DrawString(text)

	return baseline + bounds.Max.Y.Ceil()
}

// savePNG saves an image to a PNG file
func savePNG(img image.Image, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if err := png.Encode(outFile, img); err != nil {
		return err
	}
	return outFile.Close()
}
