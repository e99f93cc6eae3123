package mapload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Faultbox/gridmap/internal/logger"
	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

// TextHeader is the first line SaveMapToText writes.
const TextHeader = "Grid"

// TextOptions controls LoadMapFromText.
type TextOptions struct {
	// StrictDims rejects files whose declared number of dimensions differs
	// from the grid's. When false the declared value is read and ignored.
	StrictDims bool
}

// textMap is a fully parsed and validated text map.
type textMap struct {
	leafSize float64
	ndims    int
	width    int
	height   int
	free     []bool
}

// LoadMapFromText loads a text map file into a 2D grid: it sets the grid
// size and leaf size from the file header and the occupancy of every cell
// from the body, then registers the blocked cells.
//
// If the file cannot be opened the error is logged and ErrFileNotFound is
// returned. Malformed content yields ErrMalformedInput. In both cases the
// grid is left unchanged.
func LoadMapFromText[C ndgrid.OccupancySettable](path string, g Target[C], opts TextOptions) error {
	if err := checkPlanar(g.NDims()); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error("map file not found", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	}
	defer f.Close()

	m, err := parseText(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if opts.StrictDims && m.ndims != g.NDims() {
		return fmt.Errorf("%w: %s declares %d dimensions, grid has %d", ErrDimensionMismatch, path, m.ndims, g.NDims())
	}

	if err := resizePlanar(g, m.width, m.height); err != nil {
		return err
	}
	g.SetLeafSize(m.leafSize)

	var blocked []int
	for i, free := range m.free {
		g.At(i).SetOccupancy(free)
		if !free {
			blocked = append(blocked, i)
		}
	}
	g.SetOccupiedCells(blocked)

	logger.Debug("text map loaded",
		zap.String("path", path),
		zap.Float64("leaf_size", m.leafSize),
		zap.Int("width", m.width),
		zap.Int("height", m.height),
		zap.Int("blocked", len(blocked)))
	return nil
}

// parseText reads a whole text map. A leading UTF-8 or UTF-16 byte order
// mark is honoured.
func parseText(r io.Reader) (*textMap, error) {
	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	if _, err := br.ReadString('\n'); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing map body after header line", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: reading header: %w", ErrSourceUnreadable, err)
	}

	tok := newTokenizer(br)
	m := &textMap{}
	var err error

	if m.leafSize, err = tok.leafSize(); err != nil {
		return nil, err
	}
	if m.ndims, err = tok.count("dimension count"); err != nil {
		return nil, err
	}
	if m.width, err = tok.count("width"); err != nil {
		return nil, err
	}
	if m.height, err = tok.count("height"); err != nil {
		return nil, err
	}
	if m.width > 0 && m.height > math.MaxInt/m.width {
		return nil, fmt.Errorf("%w: %dx%d cells overflow", ErrMalformedInput, m.width, m.height)
	}

	n := m.width * m.height
	m.free = make([]bool, 0, min(n, 1<<20))
	for i := 0; i < n; i++ {
		free, err := tok.occupancy(i)
		if err != nil {
			return nil, err
		}
		m.free = append(m.free, free)
	}
	return m, nil
}

type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next(what string) (string, error) {
	if t.sc.Scan() {
		return t.sc.Text(), nil
	}
	if err := t.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return "", fmt.Errorf("%w: reading %s: %w", ErrMalformedInput, what, err)
		}
		return "", fmt.Errorf("%w: reading %s: %w", ErrSourceUnreadable, what, err)
	}
	return "", fmt.Errorf("%w: unexpected end of input reading %s", ErrMalformedInput, what)
}

func (t *tokenizer) float(what string) (float64, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrMalformedInput, what, s)
	}
	return v, nil
}

// leafSize reads the cell edge length, which must be finite and positive.
func (t *tokenizer) leafSize() (float64, error) {
	v, err := t.float("leaf size")
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: leaf size %v must be finite and positive", ErrMalformedInput, v)
	}
	return v, nil
}

func (t *tokenizer) count(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an unsigned integer", ErrMalformedInput, what, s)
	}
	return int(v), nil
}

func (t *tokenizer) occupancy(i int) (bool, error) {
	what := "occupancy " + strconv.Itoa(i)
	s, err := t.next(what)
	if err != nil {
		return false, err
	}
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: %s is %q, expected 0 or 1", ErrMalformedInput, what, s)
}

// SaveMapToText writes the occupancy of a 2D grid in the format read by
// LoadMapFromText, one grid row per line.
func SaveMapToText[C ndgrid.OccupancyReader](path string, g Source[C]) error {
	dims := g.Dims()
	if err := checkPlanar(len(dims)); err != nil {
		return err
	}
	w, h := dims[0], dims[1]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}

	bw := bufio.NewWriter(f)
	fmt.Fprintln(bw, TextHeader)
	fmt.Fprintln(bw, strconv.FormatFloat(g.LeafSize(), 'g', -1, 64))
	fmt.Fprintln(bw, len(dims))
	fmt.Fprintln(bw, w)
	fmt.Fprintln(bw, h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if col > 0 {
				bw.WriteByte(' ')
			}
			if g.At(row*w + col).Occupancy() {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing map file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing map file: %w", err)
	}

	logger.Debug("text map saved", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return nil
}
