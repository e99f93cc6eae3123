package mapload

import (
	"encoding/binary"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gridmap/internal/logger"
	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

// GAT (ground altitude table) layout: "GRAT", minor and major version
// bytes, little-endian uint32 width and height, then width*height cells of
// four float32 corner heights and a uint32 cell type. Cells are stored
// bottom row first.
const (
	gatMagic      = "GRAT"
	gatHeaderSize = 14
	gatCellSize   = 20
	gatMaxSide    = 4096
)

// GATCellType is the terrain type of a GAT cell.
type GATCellType uint32

// GAT cell types.
const (
	GATWalkable      GATCellType = 0
	GATBlocked       GATCellType = 1
	GATWater         GATCellType = 2
	GATWalkableWater GATCellType = 3
	GATSnipeable     GATCellType = 4
	GATBlockedSnipe  GATCellType = 5
)

// Free reports whether a unit can walk on cells of this type.
func (t GATCellType) Free() bool {
	return t == GATWalkable || t == GATWalkableWater
}

// LoadMapFromGAT loads the walkability of a GAT file into the occupancy of
// a 2D grid. Walkable and shallow-water cells are free; every other type is
// blocked and registered as an occupied cell.
func LoadMapFromGAT[C ndgrid.OccupancySettable](path string, g Target[C]) error {
	if err := checkPlanar(g.NDims()); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	w, h, types, err := parseGAT(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := resizePlanar(g, w, h); err != nil {
		return err
	}

	var blocked []int
	for i, t := range types {
		free := t.Free()
		g.At(i).SetOccupancy(free)
		if !free {
			blocked = append(blocked, i)
		}
	}
	g.SetOccupiedCells(blocked)

	logger.Debug("GAT map loaded",
		zap.String("path", path),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("blocked", len(blocked)))
	return nil
}

// parseGAT validates a GAT file and returns its size and cell types.
// Corner heights are skipped.
func parseGAT(data []byte) (width, height int, types []GATCellType, err error) {
	if len(data) < gatHeaderSize {
		return 0, 0, nil, fmt.Errorf("%w: GAT header truncated", ErrMalformedInput)
	}
	if string(data[0:4]) != gatMagic {
		return 0, 0, nil, fmt.Errorf("%w: bad GAT magic %q", ErrMalformedInput, data[0:4])
	}
	major, minor := data[5], data[4]
	if major < 1 || major > 3 {
		return 0, 0, nil, fmt.Errorf("%w: unsupported GAT version %d.%d", ErrMalformedInput, major, minor)
	}

	w := binary.LittleEndian.Uint32(data[6:10])
	h := binary.LittleEndian.Uint32(data[10:14])
	if w == 0 || h == 0 || w > gatMaxSide || h > gatMaxSide {
		return 0, 0, nil, fmt.Errorf("%w: invalid GAT dimensions %dx%d", ErrMalformedInput, w, h)
	}

	n := int(w) * int(h)
	if need := gatHeaderSize + n*gatCellSize; len(data) < need {
		return 0, 0, nil, fmt.Errorf("%w: GAT cells truncated, have %d bytes, need %d", ErrMalformedInput, len(data), need)
	}

	types = make([]GATCellType, n)
	for i := range types {
		// The type follows the four corner heights.
		off := gatHeaderSize + i*gatCellSize + 16
		types[i] = GATCellType(binary.LittleEndian.Uint32(data[off : off+4]))
	}
	return int(w), int(h), types, nil
}
