package logger

import (
	"bytes"
	"os"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetRunID("")
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestVerboseOnlyLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	Section("Hidden")
	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}

	SetVerbose(true)
	Debug("kept %d of %d", 3, 5)
	Info("backup written")
	want := "[DEBUG] kept 3 of 5\n[INFO] backup written\n"
	if buf.String() != want {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWarnAndError_AlwaysShown(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("index %s is not enumerable", "plain")
	Error("write failed")

	want := "[WARN] index plain is not enumerable\n[ERROR] write failed\n"
	if buf.String() != want {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Filter")

	if buf.String() != "\n=== Filter ===\n" {
		t.Errorf("unexpected section output: %q", buf.String())
	}
}

func TestSetRunID(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetRunID("0f8fad5b-d9cb-469f-a165-70867728950e")

	Warn("degraded")
	if buf.String() != "[WARN] [run 0f8fad5b] degraded\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	SetRunID("abc")
	Error("short")
	if buf.String() != "[ERROR] [run abc] short\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	SetRunID("")
	Error("plain")
	if buf.String() != "[ERROR] plain\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
