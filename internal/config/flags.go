package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     string
	Debug      bool
	Format     string
	StrictDims bool
	LogFile    string
}

// RegisterFlags defines the config flags on fs. The caller parses fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Format, "format", "", "Map format: auto, image, text or gat")
	fs.BoolVar(&f.StrictDims, "strict-dims", false, "Reject text maps whose dimension count does not match the grid")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Format != "" {
		cfg.Loader.Format = f.Format
	}
	if f.StrictDims {
		cfg.Loader.StrictDims = true
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
