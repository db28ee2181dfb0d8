package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Computing flow layout...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Computing flow layout...") {
		t.Errorf("spinner output %q lacks the message", out)
	}
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("spinner output %q lacks a frame", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("stopped spinner should clear its line")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Rendering frames...")
	s.Stop()
	s.Stop()
	if s.Cancelled() {
		t.Error("a normal stop is not a cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "Rendering frames...")
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("spinner should report the cancelled stage")
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	out := captureOutput(t)
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Computing layout...")
	s.StopWithSuccess("Layout complete")

	if !strings.Contains(out.String(), "Layout complete") || !strings.Contains(out.String(), "s)") {
		t.Errorf("success line = %q, want message and elapsed time", out.String())
	}
}

func TestSpinnerStopWithError(t *testing.T) {
	out := captureOutput(t)
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Rendering frames...")
	s.StopWithError("Rendering failed")

	if !strings.Contains(out.String(), iconError+" Rendering failed") {
		t.Errorf("error line = %q", out.String())
	}
}
