package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, "warn")

	l.Info().Msg("hidden")
	l.Warn().Str("sig", "abc").Msg("shown")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message written at warn level: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["sig"] != "abc" || entry["message"] != "shown" {
		t.Errorf("entry = %v", entry)
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scilla.log")
	if err := Init("debug", true, path); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer Init("warn", false, "")

	Stake.Debug().Msg("file entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"component":"stake"`) {
		t.Errorf("log file missing component field: %s", data)
	}
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "disabled"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false", lvl)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true")
	}
}
