package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = old })
	return &buf
}

func TestSpinnerStop(t *testing.T) {
	captureUI(t)

	s := newSpinnerWithContext(context.Background(), "Rendering svg")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	captureUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Rendering svg")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its parent context")
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	buf := captureUI(t)

	s := newSpinnerWithContext(context.Background(), "Rendering png")
	s.Start()
	s.StopWithError("Render failed")

	if !strings.Contains(buf.String(), "Render failed") {
		t.Errorf("StopWithError should print the message, got %q", buf.String())
	}
}
