package mapload

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gridmap/internal/logger"
	"github.com/Faultbox/gridmap/pkg/ndgrid"
	"github.com/Faultbox/gridmap/pkg/raster"
)

// VelocityScale is the raw sample value that maps to velocity 1.
const VelocityScale = 255.0

// LoadMapFromImage loads a monochrome image into the occupancy of a 2D
// grid. Non-zero pixels are free, zero pixels are blocked and registered as
// occupied cells. The leaf size is not touched.
func LoadMapFromImage[C ndgrid.OccupancySettable](path string, g Target[C]) error {
	img, err := openImage(path, g.NDims())
	if err != nil {
		return err
	}

	w, h := img.Width(), img.Height()
	if err := resizePlanar(g, w, h); err != nil {
		return err
	}

	var blocked []int
	err = forEachFlipped(w, h, func(x, y, idx int) {
		free := img.Bit(x, y)
		g.At(idx).SetOccupancy(free)
		if !free {
			blocked = append(blocked, idx)
		}
	})
	if err != nil {
		return err
	}
	g.SetOccupiedCells(blocked)

	logger.Debug("occupancy map loaded",
		zap.String("path", path),
		zap.String("format", img.Format()),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("blocked", len(blocked)))
	return nil
}

// LoadVelocitiesFromImage loads a grayscale image into the velocities of a
// 2D grid, scaling samples from [0, 255] to [0, 1]. For colour images the
// first (red) channel is used. Occupancy is not touched.
func LoadVelocitiesFromImage[C ndgrid.VelocitySettable](path string, g Target[C]) error {
	img, err := openImage(path, g.NDims())
	if err != nil {
		return err
	}

	w, h := img.Width(), img.Height()
	if err := resizePlanar(g, w, h); err != nil {
		return err
	}

	err = forEachFlipped(w, h, func(x, y, idx int) {
		g.At(idx).SetVelocity(img.Sample(x, y) / VelocityScale)
	})
	if err != nil {
		return err
	}

	logger.Debug("velocity map loaded",
		zap.String("path", path),
		zap.String("format", img.Format()),
		zap.Int("width", w),
		zap.Int("height", h))
	return nil
}

func openImage(path string, ndims int) (*raster.Image, error) {
	if err := checkPlanar(ndims); err != nil {
		return nil, err
	}
	img, err := raster.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	return img, nil
}

// forEachFlipped visits image pixels top row first and passes the linear
// grid index of the vertically flipped position.
func forEachFlipped(w, h int, fn func(x, y, idx int)) error {
	sizes := []int{w, h}
	coords := make([]int, 2)
	for y := 0; y < h; y++ {
		coords[1] = ndgrid.FlipY(h, y)
		for x := 0; x < w; x++ {
			coords[0] = x
			idx, err := ndgrid.ToLinearIndex(sizes, coords)
			if err != nil {
				return err
			}
			fn(x, y, idx)
		}
	}
	return nil
}
