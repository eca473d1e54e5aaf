// Package config gathers capture settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"webshot/pkg/offscreen"
	"webshot/pkg/surface"
	"webshot/pkg/text"
)

// DefaultOutput is the PNG written when no output is configured.
const DefaultOutput = "foo.png"

// Config holds capture settings. A zero Width or Height means the page's
// intrinsic size.
type Config struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Output   string        `yaml:"output"`
	Delay    time.Duration `yaml:"delay"`
	Timeout  time.Duration `yaml:"timeout"`
	Alpha    bool          `yaml:"alpha"`
	Scripts  bool          `yaml:"scripts"`
	Font     string        `yaml:"font"`
	FontBold string        `yaml:"font_bold"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:  DefaultOutput,
		Timeout: offscreen.DefaultTimeout,
	}
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads path into the process environment when it exists.
// Variables already set are kept.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays WEBSHOT_* variables found through lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("WEBSHOT_WIDTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WEBSHOT_WIDTH: %w", err)
		}
		cfg.Width = n
	}
	if v, ok := lookup("WEBSHOT_HEIGHT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WEBSHOT_HEIGHT: %w", err)
		}
		cfg.Height = n
	}
	if v, ok := lookup("WEBSHOT_OUTPUT"); ok && v != "" {
		cfg.Output = v
	}
	if v, ok := lookup("WEBSHOT_FONT"); ok && v != "" {
		cfg.Font = v
	}
	return nil
}

// Validate checks cfg for values no capture could use.
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 || c.Width > surface.MaxDimension || c.Height > surface.MaxDimension {
		return fmt.Errorf("size %dx%d out of range 0..%d", c.Width, c.Height, surface.MaxDimension)
	}
	if c.Output == "" {
		return errors.New("output path is empty")
	}
	if c.Delay < 0 {
		return errors.New("delay must not be negative")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// Options returns capture options for url.
func (c Config) Options(url string) offscreen.Options {
	return offscreen.Options{
		URL:     url,
		Width:   c.Width,
		Height:  c.Height,
		Delay:   c.Delay,
		Timeout: c.Timeout,
		Alpha:   c.Alpha,
		Scripts: c.Scripts,
		Fonts:   text.FontConfig{Regular: c.Font, Bold: c.FontBold},
	}
}

// Command is a parsed command line.
type Command struct {
	Config

	URL        string
	ConfigPath string
	Watch      bool
	Verbose    bool
}

// Parse builds a Command from args (without the program name). Settings
// are layered as defaults, then the -config file, then the environment
// seen through lookup, then flags given explicitly.
func Parse(name string, args []string, lookup func(string) (string, bool), stderr io.Writer) (*Command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags Config
	cmd := &Command{}
	fs.IntVar(&flags.Width, "w", 0, "window width in pixels (0 = page width)")
	fs.IntVar(&flags.Height, "h", 0, "window height in pixels (0 = page height)")
	fs.StringVar(&flags.Output, "o", DefaultOutput, "output PNG file path")
	fs.DurationVar(&flags.Delay, "delay", 0, "time to let the page settle before capture")
	fs.DurationVar(&flags.Timeout, "timeout", offscreen.DefaultTimeout, "page load timeout (0 = none)")
	fs.BoolVar(&flags.Alpha, "alpha", false, "capture with an alpha channel")
	fs.BoolVar(&flags.Scripts, "scripts", false, "run inline JavaScript")
	fs.StringVar(&flags.Font, "font", "", "TrueType font file for body text")
	fs.StringVar(&cmd.ConfigPath, "config", "", "YAML config file")
	fs.BoolVar(&cmd.Watch, "watch", false, "capture again whenever a local input file changes")
	fs.BoolVar(&cmd.Verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <url-or-file>\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one URL or file")
	}
	cmd.URL = fs.Arg(0)

	cmd.Config = Default()
	if cmd.ConfigPath != "" {
		if err := LoadFile(cmd.ConfigPath, &cmd.Config); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(&cmd.Config, lookup); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cmd.Width = flags.Width
		case "h":
			cmd.Height = flags.Height
		case "o":
			cmd.Output = flags.Output
		case "delay":
			cmd.Delay = flags.Delay
		case "timeout":
			cmd.Timeout = flags.Timeout
		case "alpha":
			cmd.Alpha = flags.Alpha
		case "scripts":
			cmd.Scripts = flags.Scripts
		case "font":
			cmd.Font = flags.Font
		}
	})

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
