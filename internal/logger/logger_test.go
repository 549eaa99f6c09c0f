package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func reset() {
	SetVerbose(false)
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

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer reset()

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("rebuilt %d records", 3) }, "[DEBUG] rebuilt 3 records\n"},
		{"info", func() { Info("loaded %s", "prompts.json") }, "[INFO] loaded prompts.json\n"},
		{"warn", func() { Warn("skipped %q", "bad") }, "[WARN] skipped \"bad\"\n"},
		{"section", func() { Section("Match") }, "\n=== Match ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(true)

			tt.log()

			if buf.String() != tt.want {
				t.Errorf("unexpected output: %q", buf.String())
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("debug")
	Info("info")
	Warn("warn")
	Section("section")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("submit failed: %v", "boom")

	if buf.String() != "[ERROR] submit failed: boom\n" {
		t.Errorf("unexpected error output: %q", buf.String())
	}
}

func TestUseFile(t *testing.T) {
	defer reset()

	path := filepath.Join(t.TempDir(), "logs", "promptdeck.log")
	restore, err := UseFile(path)
	if err != nil {
		t.Fatalf("UseFile: %v", err)
	}

	// File output is written even without verbose.
	SetVerbose(false)
	Debug("session %s opened", "abc")
	Warn("skipped record")

	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[DEBUG] session abc opened") {
		t.Errorf("missing debug line in %q", content)
	}
	if !strings.Contains(content, "[WARN] skipped record") {
		t.Errorf("missing warn line in %q", content)
	}

	// After restore, nothing more goes to the file.
	var buf bytes.Buffer
	SetOutput(&buf)
	Debug("not written")
	after, _ := os.ReadFile(path)
	if string(after) != content {
		t.Error("log file changed after restore")
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
