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

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/itemshuffle/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on a terminal. On anything else it stays
// silent. The message may change while it runs.
type spinner struct {
	w       io.Writer
	animate bool
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	message string
	width   int

	startOnce sync.Once
	stopOnce  sync.Once
	stopped   chan struct{}
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		animate: isTerminal(w),
		parent:  ctx,
		ctx:     spinCtx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// SetMessage replaces the text shown next to the spinner.
func (s *spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Start begins the animation. It stops by itself when ctx is done.
func (s *spinner) Start() {
	s.startOnce.Do(func() {
		if !s.animate {
			close(s.stopped)
			return
		}
		go s.loop()
	})
}

func (s *spinner) loop() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-ticker.C:
			s.mu.Lock()
			line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
			s.width = max(s.width, len(s.message)+2)
			fmt.Fprintf(s.w, "\r%s", line)
			s.mu.Unlock()
		}
	}
}

// Stop ends the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		s.Start()
		s.cancel()
		<-s.stopped
	})
}

// StopWithError stops the spinner and prints message as an error.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the caller's context ended.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// attemptHooks reports failed placement attempts on a spinner.
type attemptHooks struct {
	observability.NoopShuffleHooks
	spinner *spinner
	base    string
	failed  atomic.Int64
}

func (h *attemptHooks) OnAttempt(_ context.Context, _ int, ok bool, _ time.Duration) {
	if ok {
		return
	}
	n := h.failed.Add(1)
	h.spinner.SetMessage(fmt.Sprintf("%s (%d failed attempts)", h.base, n))
}
