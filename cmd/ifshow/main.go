package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"example.com/ifshow/internal/config"
	"example.com/ifshow/pkg"
)

var (
	showAll     bool
	showDrivers []string
	showVerbose bool
	showFormat  string
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "ifshow [interfaces...]",
	Short: "Show network interface information",
	Long: `ifshow reports link state, addresses, flags, MTU, driver, PCI identity
and traffic counters of the network interfaces of this host.

Interfaces that are down are hidden unless --all is given or they are
named on the command line.

Examples:
  ifshow                      # Interfaces that are up
  ifshow -a                   # Every interface
  ifshow eth0 wlan0           # Named interfaces only
  ifshow -d igb -d mlx5       # Interfaces whose driver matches
  ifshow -v --format json     # Detailed JSON output
  ifshow watch                # Redisplay on interface changes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShow,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&showAll, "all", "a", false, "display all interfaces, even if down")
	flags.StringSliceVarP(&showDrivers, "driver", "d", nil, "only show interfaces whose driver contains this string")
	flags.BoolVarP(&showVerbose, "verbose", "v", false, "include PCI, queue, wireless, interrupt and ethtool details")
	flags.StringVar(&showFormat, "format", "text", "output format: text, json, table")
	flags.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	config.RegisterFlags(flags)
}

// loadConfig merges the configuration file and the command line, then
// applies the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	pkg.SetOutput(cmd.ErrOrStderr())
	if err := pkg.SetLogLevelFromString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level: %v", err)
	}

	switch strings.ToLower(showFormat) {
	case "text", "json", "table":
	default:
		return nil, fmt.Errorf("invalid format: %s. Use: text, json, or table", showFormat)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
