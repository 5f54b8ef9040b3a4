package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifshow.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
sysfs_root: /host/sys
command_timeout: 2s
parallelism: 4
pci_ids_paths:
  - /opt/pci.ids
commands:
  lshw: /usr/sbin/lshw
watch:
  debounce: 1s
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", config.LogLevel)
	}
	if config.SysfsRoot != "/host/sys" {
		t.Errorf("Expected sysfs root '/host/sys', got '%s'", config.SysfsRoot)
	}
	if config.ProcRoot != "/proc" {
		t.Errorf("Expected default proc root, got '%s'", config.ProcRoot)
	}
	if config.CommandTimeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %s", config.CommandTimeout)
	}
	if config.Parallelism != 4 {
		t.Errorf("Expected parallelism 4, got %d", config.Parallelism)
	}
	if !reflect.DeepEqual(config.PCIIDsPaths, []string{"/opt/pci.ids"}) {
		t.Errorf("Unexpected pci.ids paths %v", config.PCIIDsPaths)
	}
	if config.Commands.Lshw != "/usr/sbin/lshw" {
		t.Errorf("Expected lshw path override, got '%s'", config.Commands.Lshw)
	}
	if config.Commands.Ethtool != "ethtool" {
		t.Errorf("Expected default ethtool, got '%s'", config.Commands.Ethtool)
	}
	if config.Watch.Debounce != time.Second {
		t.Errorf("Expected 1s debounce, got %s", config.Watch.Debounce)
	}
	if !reflect.DeepEqual(config.Watch.Paths, []string{"/sys/class/net"}) {
		t.Errorf("Expected default watch paths, got %v", config.Watch.Paths)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfig("nonexistent-file.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
pci_ids_paths: ["/opt/pci.ids"
log_level: debug
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected error when loading invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"zero timeout", func(c *Config) { c.CommandTimeout = 0 }, true},
		{"negative parallelism", func(c *Config) { c.Parallelism = -1 }, true},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, true},
		{"empty sysfs root", func(c *Config) { c.SysfsRoot = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--log-level=info", "--parallelism=8", "--pci-ids=/a,/b"}); err != nil {
		t.Fatal(err)
	}

	c := Default()
	c.SysfsRoot = "/from/file"
	if err := c.ApplyFlags(fs); err != nil {
		t.Fatalf("ApplyFlags() error = %v", err)
	}

	if c.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got '%s'", c.LogLevel)
	}
	if c.Parallelism != 8 {
		t.Errorf("Expected parallelism 8, got %d", c.Parallelism)
	}
	if !reflect.DeepEqual(c.PCIIDsPaths, []string{"/a", "/b"}) {
		t.Errorf("Unexpected pci.ids paths %v", c.PCIIDsPaths)
	}
	// unset flags must not clobber file values
	if c.SysfsRoot != "/from/file" {
		t.Errorf("Expected sysfs root from file, got '%s'", c.SysfsRoot)
	}
}

func TestApplyFlagsInvalid(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--command-timeout=0s"}); err != nil {
		t.Fatal(err)
	}
	if err := Default().ApplyFlags(fs); err == nil {
		t.Error("Expected error for zero timeout")
	}
}

func TestHostOptions(t *testing.T) {
	c := Default()
	c.ProcRoot = "/host/proc"
	opts := c.HostOptions()
	if opts.ProcRoot != "/host/proc" || opts.Commands.Lshw != "lshw" || opts.CommandTimeout != 5*time.Second {
		t.Errorf("Unexpected options %+v", opts)
	}
}
