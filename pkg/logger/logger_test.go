package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Service: "identity", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("username", "alice").Msg("authenticated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "identity" || entry["username"] != "alice" || entry["message"] != "authenticated" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestInitGetReset(t *testing.T) {
	Reset()
	defer Reset()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Get to panic before Init")
		}
	}()

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	Init(Options{Output: nil, Level: "error"})
	log := Get()
	log.Info().Msg("first init wins")
	if buf.Len() == 0 {
		t.Fatalf("expected output from the first Init")
	}

	Reset()
	Get()
}
