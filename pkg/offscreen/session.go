package offscreen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"webshot/pkg/resource"
	"webshot/pkg/surface"
)

var (
	// ErrCancelled is returned when the caller cancels a session before
	// it captures.
	ErrCancelled = errors.New("capture cancelled")

	// ErrLoadTimeout is returned when loading exceeds Options.Timeout.
	ErrLoadTimeout = errors.New("page load timed out")

	// ErrSessionUsed is returned by Run on a session that has already run.
	ErrSessionUsed = errors.New("session already ran")
)

// State is a session's position in its lifecycle.
type State int

const (
	StateLoading State = iota
	StateSettling
	StateCapturing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSettling:
		return "settling"
	case StateCapturing:
		return "capturing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session captures one page: Loading -> Settling -> Capturing -> Done, or
// Failed from any state. A session runs once; later calls to Run return
// ErrSessionUsed.
type Session struct {
	ID uuid.UUID

	// OnStateChange, when set, is called on every transition from the
	// goroutine running the session.
	OnStateChange func(State)

	opts     Options
	renderer *resource.Renderer
	window   *Window
	log      *slog.Logger

	mu    sync.Mutex
	ran   bool
	state State
	err   error
	title string
}

// NewSession creates a session for opts.
func NewSession(opts Options) *Session {
	id := uuid.New()
	return &Session{
		ID:       id,
		opts:     opts,
		renderer: resource.NewRenderer(opts.Fonts, opts.Scripts),
		window:   NewWindow(opts.Alpha),
		log:      slog.With("session", id.String()),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that failed the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Title returns the loaded page's title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Window returns the session's offscreen window.
func (s *Session) Window() *Window {
	return s.window
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.log.Debug("offscreen: state", "state", st)
	if s.OnStateChange != nil {
		s.OnStateChange(st)
	}
}

func (s *Session) fail(err error) (*surface.Surface, error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.log.Warn("offscreen: capture failed", "err", err)
	s.setState(StateFailed)
	return nil, err
}

// Run loads, lays out, settles and captures the page, returning the
// converted surface. Cancelling ctx before capture fails the session with
// ErrCancelled.
func (s *Session) Run(ctx context.Context) (*surface.Surface, error) {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return nil, ErrSessionUsed
	}
	s.ran = true
	s.mu.Unlock()

	if err := s.opts.Validate(); err != nil {
		return s.fail(err)
	}
	start := time.Now()
	s.setState(StateLoading)

	loadCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeoutCause(ctx, s.opts.Timeout, ErrLoadTimeout)
		defer cancel()
	}
	page, err := s.renderer.Load(loadCtx, s.opts.URL)
	if loadCtx.Err() != nil {
		return s.fail(interrupted(loadCtx))
	}
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	s.title = page.Title()
	s.mu.Unlock()

	s.setState(StateSettling)
	cw, ch := page.Layout(float64(s.opts.Width), float64(s.opts.Height))
	width, height := s.opts.Width, s.opts.Height
	if width == 0 {
		width = int(math.Ceil(cw))
	}
	if height == 0 {
		height = int(math.Ceil(ch))
	}
	width, height = max(width, 1), max(height, 1)
	if err := s.window.Allocate(width, height); err != nil {
		return s.fail(err)
	}
	s.window.SetContent(page.Paint(width, height, s.opts.Alpha))

	if s.opts.Delay > 0 {
		t := time.NewTimer(s.opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return s.fail(interrupted(ctx))
		case <-t.C:
		}
	}
	if ctx.Err() != nil {
		return s.fail(interrupted(ctx))
	}

	s.setState(StateCapturing)
	pb, err := s.window.Pixbuf()
	if err != nil {
		return s.fail(fmt.Errorf("capturing window: %w", err))
	}
	surf, err := surface.Convert(pb)
	if err != nil {
		return s.fail(fmt.Errorf("converting capture: %w", err))
	}

	s.log.Info("offscreen: captured", "url", s.opts.URL, "width", surf.Width, "height", surf.Height,
		"format", surf.Format, "elapsed", time.Since(start))
	s.setState(StateDone)
	return surf, nil
}

// interrupted maps a done context to ErrLoadTimeout or ErrCancelled.
func interrupted(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrLoadTimeout) {
		return ErrLoadTimeout
	}
	return fmt.Errorf("%w: %v", ErrCancelled, cause)
}
