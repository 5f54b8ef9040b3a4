package pkg

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLogLevel(LogLevelWarn)

	SetLogLevel(LogLevelWarn)
	Info("snapshot started")
	Warn("lshw not available")
	Error("no interfaces")

	output := buf.String()
	if strings.Contains(output, "snapshot started") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "lshw not available") {
		t.Error("warning message not found in output")
	}
	if !strings.Contains(output, "no interfaces") {
		t.Error("error message not found in output")
	}
}

func TestStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	ForInterface("eth0").WithError(errors.New("operation not supported")).Warn("driver query failed")
	WithField("pci", "02:00.0").Warn("device not in registry")

	output := buf.String()
	if !strings.Contains(output, "interface=eth0") {
		t.Error("interface field not found in structured log")
	}
	if !strings.Contains(output, `error="operation not supported"`) {
		t.Error("error field not found in structured log")
	}
	if !strings.Contains(output, `pci="02:00.0"`) {
		t.Error("pci field not found in structured log")
	}
}

func TestSetLogLevelFromString(t *testing.T) {
	defer SetLogLevel(LogLevelWarn)

	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantErr   bool
	}{
		{name: "debug", level: "debug", wantDebug: true},
		{name: "upper case", level: "DEBUG", wantDebug: true},
		{name: "warning alias", level: "warning", wantDebug: false},
		{name: "error", level: "error", wantDebug: false},
		{name: "invalid", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogLevel(LogLevelWarn)
			err := SetLogLevelFromString(tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetLogLevelFromString(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			var buf bytes.Buffer
			SetOutput(&buf)
			defer SetOutput(os.Stderr)
			Debug("falling back to lshw")
			if got := strings.Contains(buf.String(), "falling back to lshw"); got != tt.wantDebug {
				t.Errorf("debug message logged = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
