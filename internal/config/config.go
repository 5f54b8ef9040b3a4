// Package config loads ifshow settings from YAML with command line
// overrides.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/netif"
	"example.com/ifshow/pkg/pci"
)

// Config represents the ifshow configuration
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	SysfsRoot      string        `yaml:"sysfs_root"`
	ProcRoot       string        `yaml:"proc_root"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	Parallelism    int           `yaml:"parallelism"`
	PCIIDsPaths    []string      `yaml:"pci_ids_paths"`
	Commands       Commands      `yaml:"commands"`
	Watch          Watch         `yaml:"watch"`
}

// Commands holds the paths of the external utilities
type Commands struct {
	Lshw           string `yaml:"lshw"`
	Ethtool        string `yaml:"ethtool"`
	SystemProfiler string `yaml:"system_profiler"`
	Ioreg          string `yaml:"ioreg"`
}

// Watch configures `ifshow watch`
type Watch struct {
	Paths    []string      `yaml:"paths"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       "warn",
		SysfsRoot:      "/sys",
		ProcRoot:       "/proc",
		CommandTimeout: 5 * time.Second,
		Parallelism:    0,
		PCIIDsPaths:    append([]string(nil), pci.DefaultIDPaths...),
		Commands: Commands{
			Lshw:           "lshw",
			Ethtool:        "ethtool",
			SystemProfiler: "system_profiler",
			Ioreg:          "ioreg",
		},
		Watch: Watch{
			Paths:    []string{"/sys/class/net"},
			Debounce: 500 * time.Millisecond,
		},
	}
}

// LoadConfig reads path over the defaults. Keys absent from the file keep
// their default value.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := pkg.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.CommandTimeout <= 0 {
		return errors.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if c.Parallelism < 0 {
		return errors.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	if c.Watch.Debounce < 0 {
		return errors.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if c.SysfsRoot == "" || c.ProcRoot == "" {
		return errors.New("sysfs_root and proc_root must be set")
	}
	return nil
}

// Flag names
const (
	FlagLogLevel       = "log-level"
	FlagSysfsRoot      = "sysfs-root"
	FlagProcRoot       = "proc-root"
	FlagCommandTimeout = "command-timeout"
	FlagParallelism    = "parallelism"
	FlagPCIIDs         = "pci-ids"
)

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagLogLevel, d.LogLevel, "log level (debug, info, warn, error)")
	fs.String(FlagSysfsRoot, d.SysfsRoot, "sysfs mount point")
	fs.String(FlagProcRoot, d.ProcRoot, "procfs mount point")
	fs.Duration(FlagCommandTimeout, d.CommandTimeout, "timeout for external utilities")
	fs.Int(FlagParallelism, d.Parallelism, "interfaces queried concurrently (0 = one per CPU)")
	fs.StringSlice(FlagPCIIDs, d.PCIIDsPaths, "pci.ids locations, first readable wins")
}

// ApplyFlags copies the flags set on the command line into c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagLogLevel:
			c.LogLevel, err = fs.GetString(f.Name)
		case FlagSysfsRoot:
			c.SysfsRoot, err = fs.GetString(f.Name)
		case FlagProcRoot:
			c.ProcRoot, err = fs.GetString(f.Name)
		case FlagCommandTimeout:
			c.CommandTimeout, err = fs.GetDuration(f.Name)
		case FlagParallelism:
			c.Parallelism, err = fs.GetInt(f.Name)
		case FlagPCIIDs:
			c.PCIIDsPaths, err = fs.GetStringSlice(f.Name)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

// HostOptions maps the configuration onto the interface query options.
func (c *Config) HostOptions() netif.Options {
	return netif.Options{
		SysfsRoot:      c.SysfsRoot,
		ProcRoot:       c.ProcRoot,
		CommandTimeout: c.CommandTimeout,
		PCIIDPaths:     c.PCIIDsPaths,
		Commands: netif.Commands{
			Lshw:           c.Commands.Lshw,
			Ethtool:        c.Commands.Ethtool,
			SystemProfiler: c.Commands.SystemProfiler,
			Ioreg:          c.Commands.Ioreg,
		},
	}
}
