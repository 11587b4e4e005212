package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "Placing items...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if buf.String() != "" {
		t.Errorf("non-terminal output = %q, want empty", buf.String())
	}
}

func TestSpinnerAnimates(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(context.Background(), &buf, "Placing items...")
	s.animate = true
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Almost there")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Placing items...") || !strings.Contains(out, "Almost there") {
		t.Errorf("output = %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("line should be cleared on stop")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Testing")
	s.animate = true
	s.Start()

	if s.Cancelled() {
		t.Error("spinner should not report cancellation before ctx ends")
	}
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("spinner should report cancellation after ctx ends")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing")
	s.animate = true
	s.Start()
	s.Stop()
	s.Stop()

	// Stopping a spinner that never started must not block.
	newSpinner(context.Background(), &syncBuffer{}, "idle").Stop()
}

func TestAttemptHooksCountFailures(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Placing items...")
	h := &attemptHooks{spinner: s, base: "Placing items..."}

	h.OnAttempt(context.Background(), 1, false, 0)
	h.OnAttempt(context.Background(), 2, false, 0)
	h.OnAttempt(context.Background(), 3, true, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Placing items... (2 failed attempts)" {
		t.Errorf("message = %q", s.message)
	}
}
