package mapload

import (
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/unicode"

	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

func TestLoadMapFromText_Example(t *testing.T) {
	path := writeFile(t, "map.txt", []byte("comment\n1.0\n2\n2\n2\n1 0 1 1\n"))

	g := ndgrid.New(2)
	require.NoError(t, LoadMapFromText(path, g, TextOptions{}))

	assert.Equal(t, []int{2, 2}, g.Dims())
	assert.Equal(t, 1.0, g.LeafSize())
	assert.Equal(t, []bool{true, false, true, true}, occupancies(g))
	assert.Equal(t, []int{1}, g.OccupiedCells())
}

func TestLoadMapFromText_NoFlip(t *testing.T) {
	// 3 wide, 2 high: tokens are written in file order, bottom row first.
	path := writeFile(t, "map.txt", []byte("# 3x2\n0.25 2 3 2\n0 1 1\n1 1 0\n"))

	g := ndgrid.New(2)
	require.NoError(t, LoadMapFromText(path, g, TextOptions{}))

	assert.Equal(t, 0.25, g.LeafSize())
	c, err := g.Cell(0, 0)
	require.NoError(t, err)
	assert.False(t, c.Occupancy())
	c, err = g.Cell(2, 1)
	require.NoError(t, err)
	assert.False(t, c.Occupancy())
	assert.Equal(t, []int{0, 5}, g.OccupiedCells())
}

func TestLoadMapFromText_NotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	g := sized(t, 3, 3)
	g.SetOccupiedCells([]int{2})

	path := filepath.Join(t.TempDir(), "missing.txt")
	err := LoadMapFromText(path, g, TextOptions{})
	assert.ErrorIs(t, err, ErrFileNotFound)

	assert.Equal(t, []int{3, 3}, g.Dims())
	assert.Equal(t, 0.5, g.LeafSize())
	assert.Equal(t, []int{2}, g.OccupiedCells(), "no registration on failure")

	entries := logs.FilterMessage("map file not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
}

func TestLoadMapFromText_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", ""},
		{"HeaderOnly", "comment\n"},
		{"HeaderWithoutNewline", "comment"},
		{"BadLeafSize", "c\nabc 2 2 2\n1 1 1 1\n"},
		{"NaNLeafSize", "c\nNaN 2 2 2\n1 1 1 1\n"},
		{"InfLeafSize", "c\n+Inf 2 2 2\n1 1 1 1\n"},
		{"NegativeLeafSize", "c\n-0.5 2 2 2\n1 1 1 1\n"},
		{"ZeroLeafSize", "c\n0 2 2 2\n1 1 1 1\n"},
		{"NegativeWidth", "c\n1.0 2 -2 2\n1 1 1 1\n"},
		{"FractionalHeight", "c\n1.0 2 2 1.5\n1 1 1 1\n"},
		{"NonNumericDims", "c\n1.0 two 2 2\n1 1 1 1\n"},
		{"MissingHeight", "c\n1.0 2 2\n"},
		{"ShortBody", "c\n1.0 2 2 2\n1 0 1\n"},
		{"TokenTwo", "c\n1.0 2 2 2\n1 0 2 1\n"},
		{"TokenWord", "c\n1.0 2 2 2\n1 0 true 1\n"},
		{"Overflow", "c\n1.0 2 9223372036854775807 9223372036854775807\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := sized(t, 3, 3)
			g.At(4).SetOccupancy(false)
			g.SetOccupiedCells([]int{4})

			err := LoadMapFromText(writeFile(t, "map.txt", []byte(tc.content)), g, TextOptions{})
			assert.ErrorIs(t, err, ErrMalformedInput)

			assert.Equal(t, []int{3, 3}, g.Dims(), "grid must be untouched")
			assert.Equal(t, 0.5, g.LeafSize())
			assert.False(t, g.At(4).Occupancy())
			assert.Equal(t, []int{4}, g.OccupiedCells())
		})
	}
}

func TestLoadMapFromText_ErrorNamesToken(t *testing.T) {
	err := LoadMapFromText(writeFile(t, "map.txt", []byte("c\n1 2 2 2\n1 1 x 1\n")), ndgrid.New(2), TextOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occupancy 2")
}

func TestLoadMapFromText_StrictDims(t *testing.T) {
	content := []byte("c\n1.0 3 2 1\n1 0\n")

	t.Run("Lenient", func(t *testing.T) {
		g := ndgrid.New(2)
		require.NoError(t, LoadMapFromText(writeFile(t, "map.txt", content), g, TextOptions{}))
		assert.Equal(t, []int{2, 1}, g.Dims())
		assert.Equal(t, []int{1}, g.OccupiedCells())
	})

	t.Run("Strict", func(t *testing.T) {
		g := sized(t, 1, 1)
		err := LoadMapFromText(writeFile(t, "map.txt", content), g, TextOptions{StrictDims: true})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, []int{1, 1}, g.Dims())
	})

	t.Run("StrictMatching", func(t *testing.T) {
		g := ndgrid.New(2)
		ok := []byte("c\n1.0 2 2 1\n1 0\n")
		require.NoError(t, LoadMapFromText(writeFile(t, "map.txt", ok), g, TextOptions{StrictDims: true}))
	})
}

func TestLoadMapFromText_GridNot2D(t *testing.T) {
	g := ndgrid.New(3)
	path := writeFile(t, "map.txt", []byte("c\n1 2 1 1\n1\n"))
	assert.ErrorIs(t, LoadMapFromText(path, g, TextOptions{}), ErrDimensionMismatch)
	assert.Equal(t, []int{0, 0, 0}, g.Dims())
}

func TestLoadMapFromText_Layouts(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"OneTokenPerLine", []byte("header\n2\n2\n2\n2\n1\n0\n1\n0\n")},
		{"CRLF", []byte("header\r\n2\r\n2\r\n2\r\n2\r\n1 0\r\n1 0\r\n")},
		{"TrailingTokensIgnored", []byte("header\n2 2 2 2\n1 0 1 0 9 9 garbage\n")},
		{"Tabs", []byte("header line with words\n2\t2\t2\t2\n1\t0\n1\t0")},
		{"UTF8BOM", append([]byte("\xEF\xBB\xBF"), []byte("header\n2 2 2 2\n1 0 1 0\n")...)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := ndgrid.New(2)
			require.NoError(t, LoadMapFromText(writeFile(t, "map.txt", tc.content), g, TextOptions{}))
			assert.Equal(t, []int{2, 2}, g.Dims())
			assert.Equal(t, 2.0, g.LeafSize())
			assert.Equal(t, []int{1, 3}, g.OccupiedCells())
		})
	}
}

func TestLoadMapFromText_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("header\n1.5 2 1 2\n0\n1\n"))
	require.NoError(t, err)

	g := ndgrid.New(2)
	require.NoError(t, LoadMapFromText(writeFile(t, "map.txt", data), g, TextOptions{}))
	assert.Equal(t, []int{1, 2}, g.Dims())
	assert.Equal(t, 1.5, g.LeafSize())
	assert.Equal(t, []int{0}, g.OccupiedCells())
}

func TestLoadMapFromText_ZeroCells(t *testing.T) {
	g := ndgrid.New(2)
	require.NoError(t, LoadMapFromText(writeFile(t, "map.txt", []byte("h\n1 2 0 3\n")), g, TextOptions{}))
	assert.Equal(t, []int{0, 3}, g.Dims())
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, []int{}, g.OccupiedCells())
}

func TestSaveMapToText_Format(t *testing.T) {
	g := ndgrid.New(2)
	require.NoError(t, g.Resize([]int{3, 2}))
	g.SetLeafSize(0.1)
	g.At(1).SetOccupancy(false)
	g.At(5).SetOccupancy(false)

	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, SaveMapToText(path, g))

	got := readFile(t, path)
	assert.Equal(t, "Grid\n0.1\n2\n3\n2\n1 0 1\n1 1 0\n", got)
}

func TestSaveMapToText_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for _, sz := range imageSizes {
		t.Run(sz.name, func(t *testing.T) {
			src := ndgrid.New(2)
			require.NoError(t, LoadMapFromImage(writePNG(t, randomMono(rng, sz.w, sz.h)), src))
			src.SetLeafSize(0.05)

			path := filepath.Join(t.TempDir(), "map.txt")
			require.NoError(t, SaveMapToText(path, src))

			dst := ndgrid.New(2)
			require.NoError(t, LoadMapFromText(path, dst, TextOptions{StrictDims: true}))

			assert.Equal(t, src.Dims(), dst.Dims())
			assert.Equal(t, 0.05, dst.LeafSize())
			assert.Equal(t, occupancies(src), occupancies(dst))

			// The text loader reports blocked cells in index order.
			want := src.OccupiedCells()
			slices.Sort(want)
			if want == nil {
				want = []int{}
			}
			assert.Equal(t, want, dst.OccupiedCells())
		})
	}
}

func TestSaveMapToText_Errors(t *testing.T) {
	g3 := ndgrid.New(3)
	require.NoError(t, g3.Resize([]int{1, 1, 1}))
	assert.ErrorIs(t, SaveMapToText(filepath.Join(t.TempDir(), "out.txt"), g3), ErrDimensionMismatch)

	g := sized(t, 1, 1)
	err := SaveMapToText(filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt"), g)
	assert.Error(t, err)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
