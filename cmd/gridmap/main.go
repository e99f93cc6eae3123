// gridmap is a CLI utility for inspecting and converting planning maps.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/gridmap/internal/config"
	"github.com/Faultbox/gridmap/internal/logger"
	"github.com/Faultbox/gridmap/pkg/mapload"
	"github.com/Faultbox/gridmap/pkg/ndgrid"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `gridmap - planning map utility

Usage:
  gridmap <command> [options] <args>

Commands:
  info <map>              Show size, leaf size and blocked cells
  convert <map> <out.txt> Write a map in the text format
  velocity <image>        Show velocity statistics of an image

Options (all commands):
  -config <file>   Config file (default: $GRIDMAP_CONFIG, ./gridmap.yaml)
  -format <name>   Map format: auto, image, text or gat
  -strict-dims     Reject text maps declaring a different dimension count
  -debug           Enable debug logging
  -log-file <file> Also write logs to this file

Examples:
  gridmap info maps/room.png
  gridmap convert -format gat prontera.gat prontera.txt
  gridmap velocity maps/speed.png`

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	command, rest := args[0], args[1:]
	var cmd func(*config.Config, []string, io.Writer) error
	var nargs int
	switch command {
	case "info":
		cmd, nargs = cmdInfo, 1
	case "convert":
		cmd, nargs = cmdConvert, 2
	case "velocity":
		cmd, nargs = cmdVelocity, 1
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		fmt.Fprintln(stderr, usage)
		return 2
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	if fs.NArg() != nargs {
		fmt.Fprintf(stderr, "%s expects %d argument(s), got %d\n", command, nargs, fs.NArg())
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.Logging.InitLogger(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Reset()

	if err := cmd(cfg, fs.Args(), stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, mapload.ErrFileNotFound) || errors.Is(err, mapload.ErrSourceUnreadable) {
			return 3
		}
		return 1
	}
	return 0
}

// loadOccupancy loads path into a fresh 2D grid with the loader the
// config selects for it.
func loadOccupancy(cfg *config.Config, path string) (*ndgrid.Grid[*ndgrid.Cell], error) {
	g := ndgrid.New(2)
	var err error
	switch format := cfg.Loader.ResolveFormat(path); format {
	case config.FormatText:
		err = mapload.LoadMapFromText(path, g, cfg.Loader.TextOptions())
	case config.FormatGAT:
		err = mapload.LoadMapFromGAT(path, g)
	case config.FormatImage:
		err = mapload.LoadMapFromImage(path, g)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func cmdInfo(cfg *config.Config, args []string, out io.Writer) error {
	g, err := loadOccupancy(cfg, args[0])
	if err != nil {
		return err
	}

	dims := g.Dims()
	blocked := len(g.OccupiedCells())
	fmt.Fprintf(out, "Map:       %s\n", args[0])
	fmt.Fprintf(out, "Format:    %s\n", cfg.Loader.ResolveFormat(args[0]))
	fmt.Fprintf(out, "Size:      %d x %d\n", dims[0], dims[1])
	fmt.Fprintf(out, "Leaf size: %g\n", g.LeafSize())
	fmt.Fprintf(out, "Blocked:   %d / %d\n", blocked, g.Len())
	return nil
}

func cmdConvert(cfg *config.Config, args []string, out io.Writer) error {
	g, err := loadOccupancy(cfg, args[0])
	if err != nil {
		return err
	}
	if err := mapload.SaveMapToText(args[1], g); err != nil {
		return err
	}

	dims := g.Dims()
	fmt.Fprintf(out, "Wrote %s (%d x %d)\n", args[1], dims[0], dims[1])
	return nil
}

func cmdVelocity(_ *config.Config, args []string, out io.Writer) error {
	g := ndgrid.New(2)
	if err := mapload.LoadVelocitiesFromImage(args[0], g); err != nil {
		return err
	}
	m, err := ndgrid.VelocityMatrix(g)
	if err != nil {
		return err
	}

	v := m.RawMatrix().Data
	rows, cols := m.Dims()
	fmt.Fprintf(out, "Image: %s\n", args[0])
	fmt.Fprintf(out, "Size:  %d x %d\n", cols, rows)
	fmt.Fprintf(out, "Min:   %.4f\n", floats.Min(v))
	fmt.Fprintf(out, "Mean:  %.4f\n", floats.Sum(v)/float64(len(v)))
	fmt.Fprintf(out, "Max:   %.4f\n", floats.Max(v))
	return nil
}
