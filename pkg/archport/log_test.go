package archport_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/archport/pkg/archport"
	"github.com/arthur-debert/archport/pkg/archport/core"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := archport.NewLogger(&buf, zerolog.InfoLevel)

	logger.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected log output to contain 'test message', got: %s", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "lib=archport") {
		t.Errorf("Expected log output to end with 'lib=archport', got: %s", output)
	}
}

func TestLogLevelFromString(t *testing.T) {
	testCases := []struct {
		levelStr string
		expected zerolog.Level
		wantErr  bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{" info ", zerolog.InfoLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"invalid", zerolog.NoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.levelStr, func(t *testing.T) {
			level, err := archport.LogLevelFromString(tc.levelStr)

			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for invalid level %q", tc.levelStr)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if level != tc.expected {
				t.Errorf("Expected level %v, got %v", tc.expected, level)
			}
		})
	}
}

func TestLevelForVerbosity(t *testing.T) {
	testCases := []struct {
		verbose  int
		expected zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("verbose_%d", tc.verbose), func(t *testing.T) {
			if got := archport.LevelForVerbosity(tc.verbose); got != tc.expected {
				t.Errorf("Expected level %v for verbose %d, got %v", tc.expected, tc.verbose, got)
			}
		})
	}
}

func TestLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := archport.NewLogger(&buf, zerolog.DebugLevel)
	adapter := archport.NewLoggerAdapter(&logger)

	adapter.Info().
		Str("source", "a.zip").
		Int("entries", 3).
		Bool("overwrite", true).
		Err(errors.New("boom")).
		Stringer("format", core.ArchiveFormatTarGzip).
		Int64("bytes", 2048).
		Msg("adapted")
	adapter.Trace().Msg("hidden")

	output := buf.String()
	for _, want := range []string{"adapted", "source=a.zip", "entries=3", "overwrite=true", "boom", "format=tar.gz", "bytes=2048"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got: %s", want, output)
		}
	}
	if strings.Contains(output, "hidden") {
		t.Errorf("Expected trace event to be filtered at debug level")
	}
}

func TestSetLogger(t *testing.T) {
	original := *archport.Logger()
	defer archport.SetLogger(original)

	var buf bytes.Buffer
	archport.SetLogger(archport.NewLogger(&buf, zerolog.InfoLevel))
	archport.Logger().Info().Msg("through package logger")

	if !strings.Contains(buf.String(), "through package logger") {
		t.Errorf("Expected package logger to be replaced, got: %s", buf.String())
	}
}
