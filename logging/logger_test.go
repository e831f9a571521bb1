package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	defer Reset()
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}
	if NewLogger("test-component") != logger {
		t.Error("Expected loggers to be cached per component")
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "registry rebuilt",
				Data: logrus.Fields{
					"component": "padnav.navigator",
					"size":      4,
					"reason":    "mutation",
				},
			},
			want: []string{"[INFO]", "padnav.navigator", "registry rebuilt", "reason=mutation size=4"},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "layout reload failed",
				Data: logrus.Fields{
					"component": "padnav.layout",
				},
			},
			want:    []string{"[WARN]", "layout reload failed"},
			notWant: []string{"padnav.layout"},
		},
		{
			name:   "caller information with function name",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.DebugLevel,
					Message: "fsnotify event",
					Data:    logrus.Fields{"component": "padnav.jsdev"},
					Caller: &runtime.Frame{
						File:     "/src/pkg/jsdev/source.go",
						Line:     42,
						Function: "github.com/grovetools/padnav/pkg/jsdev.(*Source).Run",
					},
				}
			}(),
			want: []string{"[DEBUG]", "[source.go:42 jsdev.(*Source).Run]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			output, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			outputStr := string(output)
			for _, want := range tt.want {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Expected output to contain '%s', got: %s", want, outputStr)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(outputStr, notWant) {
					t.Errorf("Expected output NOT to contain '%s', got: %s", notWant, outputStr)
				}
			}
		})
	}
}

func TestEnvironmentVariables(t *testing.T) {
	defer Reset()
	Reset()
	t.Setenv("PADNAV_LOG_LEVEL", "debug")
	t.Setenv("PADNAV_LOG_CALLER", "true")

	logger := NewLogger("env-test")
	if logger.Logger.Level != logrus.DebugLevel {
		t.Errorf("Expected debug level from env var, got %v", logger.Logger.Level)
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting to be enabled from env var")
	}
}

func TestSetLevel(t *testing.T) {
	defer Reset()
	Reset()
	t.Setenv("PADNAV_LOG_LEVEL", "warn")

	before := NewLogger("level-before")
	SetLevel(logrus.DebugLevel)
	after := NewLogger("level-after")

	if before.Logger.Level != logrus.DebugLevel || after.Logger.Level != logrus.DebugLevel {
		t.Errorf("levels = %v, %v; want debug", before.Logger.Level, after.Logger.Level)
	}
}

func TestStderrModes(t *testing.T) {
	if !shouldLogToStderr("always", logrus.InfoLevel) {
		t.Error("always must log")
	}
	if shouldLogToStderr("never", logrus.DebugLevel) {
		t.Error("never must not log")
	}
	if !shouldLogToStderr("auto", logrus.DebugLevel) {
		t.Error("auto logs when debugging")
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "padnav.log")
	logger := newLogger("file-test", Config{
		Level: "info",
		File:  FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{
			Preset:             "simple",
			StructuredToStderr: "never",
		},
	})
	logger.WithField("component", "file-test").Info("Joystick connected")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] Joystick connected") {
		t.Errorf("unexpected log file content: %q", data)
	}
}

func TestGlobalOutputRedirect(t *testing.T) {
	defer SetGlobalOutput(os.Stderr)
	var buf bytes.Buffer
	SetGlobalOutput(&buf)

	logger := newLogger("redirect-test", Config{Format: FormatConfig{StructuredToStderr: "always"}})
	logger.Warn("redirected")
	if !strings.Contains(buf.String(), "redirected") {
		t.Errorf("expected output in the redirected writer, got %q", buf.String())
	}
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)
	p.Field("devices", 2)
	p.ErrorPretty("open failed", errors.New("permission denied"))

	out := buf.String()
	for _, want := range []string{"devices", "2", "open failed", "permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
