package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is the redraw period.
const spinnerInterval = 80 * time.Millisecond

// Spinner draws a progress line on a terminal while the pipeline runs. The
// label can change mid-run, which animate uses to report the current tick.
type Spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	halted chan struct{}
	once   sync.Once
	active atomic.Bool

	mu    sync.Mutex
	label string
	width int // widest line drawn so far, for clearing
}

// newSpinner returns a stderr spinner bound to ctx.
func newSpinner(ctx context.Context, label string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, label)
}

func newSpinnerTo(ctx context.Context, w io.Writer, label string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:      w,
		ctx:    sctx,
		cancel: cancel,
		halted: make(chan struct{}),
		label:  label,
	}
}

// Start launches the redraw loop.
func (s *Spinner) Start() {
	s.active.Store(true)
	go func() {
		defer close(s.halted)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Update replaces the label shown next to the spinner.
func (s *Spinner) Update(format string, args ...any) {
	s.mu.Lock()
	s.label = fmt.Sprintf(format, args...)
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	if n := len(s.label) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop halts the redraw loop and clears the line. Repeated calls, and calls
// on a spinner that never started, are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.active.Load() {
			return
		}
		<-s.halted
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.mu.Unlock()
	})
}

// StopWithError stops the spinner and prints msg as a failure.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}
