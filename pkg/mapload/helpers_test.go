package mapload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

// writeFile writes data to name inside a fresh temp dir and returns the path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return writeFile(t, "map.png", buf.Bytes())
}

// randomMono returns a w×h image of 0/255 pixels, roughly a third blocked.
func randomMono(rng *rand.Rand, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if rng.Intn(3) != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}

func randomGray(rng *rand.Rand, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// flippedIndex is the grid index of image pixel (x, y).
func flippedIndex(w, h, x, y int) int {
	return w*(h-y-1) + x
}

// expectedBlocked lists the flipped indices of zero pixels in image scan order.
// It is empty, not nil, for an image without zero pixels, matching a grid
// whose registration is an empty set.
func expectedBlocked(img *image.Gray) []int {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := []int{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.GrayAt(x, y).Y == 0 {
				out = append(out, flippedIndex(w, h, x, y))
			}
		}
	}
	return out
}

func occupancies(g *ndgrid.Grid[*ndgrid.Cell]) []bool {
	out := make([]bool, g.Len())
	for i := range out {
		out[i] = g.At(i).Occupancy()
	}
	return out
}

func velocities(g *ndgrid.Grid[*ndgrid.Cell]) []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = g.At(i).Velocity()
	}
	return out
}

// occupancyImage rebuilds an image from grid occupancy, undoing the flip.
func occupancyImage(g *ndgrid.Grid[*ndgrid.Cell]) *image.Gray {
	dims := g.Dims()
	w, h := dims[0], dims[1]
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := 0; i < g.Len(); i++ {
		col, row := i%w, i/w
		if g.At(i).Occupancy() {
			img.SetGray(col, ndgrid.FlipY(h, row), color.Gray{Y: 255})
		}
	}
	return img
}

// sized returns a 2D grid already resized to w×h with leaf size 0.5.
func sized(t *testing.T, w, h int) *ndgrid.Grid[*ndgrid.Cell] {
	t.Helper()
	g := ndgrid.New(2)
	require.NoError(t, g.Resize([]int{w, h}))
	g.SetLeafSize(0.5)
	return g
}
