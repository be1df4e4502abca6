package artifacts

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"dox/internal/chr"
)

const (
	plotWidth  = 800
	plotHeight = 600
	plotMargin = 40
)

var constellationPalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// WriteScatterPNG renders a 2-D PCA projection of the embeddings and final
// anchors. It is strictly best-effort: any degenerate geometry (too few
// points, zero variance) is returned as an error for the caller to log.
func WriteScatterPNG(path string, result *chr.Result) error {
	if result == nil || len(result.Embeddings) < 2 {
		return errors.New("scatter plot: not enough points to project")
	}

	combined := make([][]float64, 0, len(result.Embeddings)+len(result.Anchors))
	combined = append(combined, result.Embeddings...)
	combined = append(combined, result.Anchors...)

	projected, err := pca2D(combined)
	if err != nil {
		return fmt.Errorf("scatter plot: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, plotWidth, plotHeight))
	for y := 0; y < plotHeight; y++ {
		for x := 0; x < plotWidth; x++ {
			img.Set(x, y, color.White)
		}
	}

	minX, maxX := projected[0][0], projected[0][0]
	minY, maxY := projected[0][1], projected[0][1]
	for _, p := range projected {
		minX = math.Min(minX, p[0])
		maxX = math.Max(maxX, p[0])
		minY = math.Min(minY, p[1])
		maxY = math.Max(maxY, p[1])
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX < 1e-12 {
		spanX = 1
	}
	if spanY < 1e-12 {
		spanY = 1
	}

	toPixel := func(p [2]float64) (int, int) {
		x := plotMargin + int((p[0]-minX)/spanX*float64(plotWidth-2*plotMargin))
		y := plotHeight - plotMargin - int((p[1]-minY)/spanY*float64(plotHeight-2*plotMargin))
		return x, y
	}

	unitCount := len(result.Embeddings)
	for i, p := range projected[:unitCount] {
		shade := constellationPalette[0]
		if i < len(result.Labels) {
			shade = constellationPalette[result.Labels[i]%len(constellationPalette)]
		}
		x, y := toPixel(p)
		fillCircle(img, x, y, 3, shade)
	}
	for _, p := range projected[unitCount:] {
		x, y := toPixel(p)
		fillSquare(img, x, y, 5, color.RGBA{A: 0xff})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scatter plot: create file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("scatter plot: encode png: %w", err)
	}
	return nil
}

// pca2D projects rows onto their top two principal components using power
// iteration with deflation.
func pca2D(rows [][]float64) ([][2]float64, error) {
	n := len(rows)
	if n < 2 {
		return nil, errors.New("need at least two rows")
	}
	dim := len(rows[0])
	if dim < 2 {
		return nil, errors.New("need at least two dimensions")
	}

	mean := make([]float64, dim)
	for _, row := range rows {
		for d, x := range row {
			mean[d] += x
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}

	centered := make([][]float64, n)
	for i, row := range rows {
		centered[i] = make([]float64, dim)
		for d, x := range row {
			centered[i][d] = x - mean[d]
		}
	}

	first, err := powerComponent(centered)
	if err != nil {
		return nil, err
	}
	deflated := deflate(centered, first)
	second, err := powerComponent(deflated)
	if err != nil {
		return nil, err
	}

	out := make([][2]float64, n)
	for i, row := range centered {
		out[i] = [2]float64{dotVec(row, first), dotVec(row, second)}
	}
	return out, nil
}

func powerComponent(centered [][]float64) ([]float64, error) {
	dim := len(centered[0])
	component := make([]float64, dim)
	// Deterministic start vector; the direction only needs to overlap the
	// dominant component.
	for d := range component {
		component[d] = 1 / math.Sqrt(float64(dim))
	}

	next := make([]float64, dim)
	for iter := 0; iter < 50; iter++ {
		for d := range next {
			next[d] = 0
		}
		for _, row := range centered {
			weight := dotVec(row, component)
			for d, x := range row {
				next[d] += weight * x
			}
		}
		length := math.Sqrt(dotVec(next, next))
		if length < 1e-12 {
			return nil, errors.New("degenerate variance")
		}
		for d := range component {
			component[d] = next[d] / length
		}
	}
	return component, nil
}

func deflate(centered [][]float64, component []float64) [][]float64 {
	out := make([][]float64, len(centered))
	for i, row := range centered {
		weight := dotVec(row, component)
		deflated := make([]float64, len(row))
		for d, x := range row {
			deflated[d] = x - weight*component[d]
		}
		out[i] = deflated
	}
	return out
}

func dotVec(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func fillCircle(img *image.RGBA, cx, cy, r int, shade color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(cx+dx, cy+dy, shade)
			}
		}
	}
}

func fillSquare(img *image.RGBA, cx, cy, half int, shade color.RGBA) {
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			img.Set(cx+dx, cy+dy, shade)
		}
	}
}
