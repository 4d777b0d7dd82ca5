package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestSpinner_DrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, true, "Loading history")
	s.Start()
	time.Sleep(300 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Loading history") {
		t.Errorf("spinner output missing message: %q", out)
	}
	if !strings.Contains(out, "●") {
		t.Errorf("spinner output missing the train: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should end by clearing its line: %q", out)
	}
}

func TestSpinner_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, false, "Loading history")
	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}

func TestSpinner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := newSpinnerTo(ctx, &buf, true, "Loading")
	s.Start()

	cancel()
	time.Sleep(50 * time.Millisecond)
	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its context")
	}
	s.Stop()
	if s.Cancelled() {
		t.Error("a stopped spinner is not cancelled")
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		start bool
	}{
		{"after start", true},
		{"without start", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSpinnerTo(context.Background(), &bytes.Buffer{}, true, "x")
			if tt.start {
				s.Start()
			}
			s.Stop()
			s.Stop()
		})
	}
}

func TestNewSpinnerWithContext_FollowsStderr(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "x")
	if s.enabled != isTerminal(os.Stderr) {
		t.Errorf("enabled = %v, stderr terminal = %v", s.enabled, isTerminal(os.Stderr))
	}
	s.Start()
	s.Stop()
}
