package offscreen

import (
	"errors"
	"fmt"
	"time"

	"webshot/pkg/surface"
	"webshot/pkg/text"
)

// Options configure one capture.
type Options struct {
	// URL is the page to load: http(s), file or data URI, or a local path.
	URL string

	// Width and Height force the window size. Zero uses the page's
	// intrinsic size in that dimension.
	Width  int
	Height int

	// Delay is how long the page settles after layout before capture.
	Delay time.Duration

	// Timeout bounds loading. Zero means no limit.
	Timeout time.Duration

	// Alpha captures 4 channels and produces an ARGB32 surface; otherwise
	// the capture is opaque RGB24.
	Alpha bool

	// Scripts enables inline JavaScript.
	Scripts bool

	Fonts text.FontConfig
}

// DefaultTimeout bounds page loading when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout}
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	if o.URL == "" {
		return errors.New("no URL to capture")
	}
	if o.Width < 0 || o.Height < 0 || o.Width > surface.MaxDimension || o.Height > surface.MaxDimension {
		return fmt.Errorf("window size %dx%d out of range", o.Width, o.Height)
	}
	if o.Delay < 0 || o.Timeout < 0 {
		return errors.New("delay and timeout must not be negative")
	}
	return nil
}
