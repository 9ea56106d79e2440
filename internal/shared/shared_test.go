package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestGenerateState(t *testing.T) {
	t.Run("returns 32 hex characters", func(t *testing.T) {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(state) != 32 {
			t.Errorf("expected 32 characters, got %d (%s)", len(state), state)
		}
		if strings.Contains(state, "-") {
			t.Errorf("expected dashes to be stripped, got %s", state)
		}
	})

	t.Run("values differ between calls", func(t *testing.T) {
		a, _ := GenerateState()
		b, _ := GenerateState()
		if a == b {
			t.Error("expected distinct state values")
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"nonsense", log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("abc"); got != "***" {
		t.Errorf("expected short secrets to be fully masked, got %s", got)
	}
	if got := MaskSecret("BQDxyz123456"); got != "BQDx********" {
		t.Errorf("expected prefix to be kept, got %s", got)
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "oauth")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=oauth") {
			t.Errorf("expected component field in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})
}

func TestBrowserCommand(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	for _, rt := range []string{"darwin", "linux", "windows"} {
		t.Run(rt, func(t *testing.T) {
			getRuntime = func() string { return rt }
			cmd, err := BrowserCommand("https://example.com")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := cmd.Args[len(cmd.Args)-1]; got != "https://example.com" {
				t.Errorf("expected url as last argument, got %s", got)
			}
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}

func TestSpotifyConfigValidate(t *testing.T) {
	if err := (SpotifyConfig{ClientID: "id"}).Validate(); !errors.Is(err, ErrEmptyCredentials) {
		t.Errorf("expected ErrEmptyCredentials, got %v", err)
	}
	if err := (SpotifyConfig{ClientID: "id", ClientSecret: "secret"}).Validate(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
