package netif

import (
	"context"
	"time"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/fallback"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

// Commands names the external utilities used by the text fallbacks.
type Commands struct {
	Lshw           string
	Ethtool        string
	SystemProfiler string
	Ioreg          string
}

// Options configures a Host. Zero fields take the values of
// DefaultOptions.
type Options struct {
	SysfsRoot      string
	ProcRoot       string
	CommandTimeout time.Duration
	PCIIDPaths     []string
	Commands       Commands

	// Runner overrides command execution, mostly for tests.
	Runner fallback.Runner
}

// DefaultOptions returns the stock locations of every source.
func DefaultOptions() Options {
	return Options{
		SysfsRoot:      "/sys",
		ProcRoot:       "/proc",
		CommandTimeout: 5 * time.Second,
		PCIIDPaths:     pci.DefaultIDPaths,
		Commands: Commands{
			Lshw:           "lshw",
			Ethtool:        "ethtool",
			SystemProfiler: "system_profiler",
			Ioreg:          "ioreg",
		},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SysfsRoot == "" {
		o.SysfsRoot = d.SysfsRoot
	}
	if o.ProcRoot == "" {
		o.ProcRoot = d.ProcRoot
	}
	if o.CommandTimeout == 0 {
		o.CommandTimeout = d.CommandTimeout
	}
	if o.PCIIDPaths == nil {
		o.PCIIDPaths = d.PCIIDPaths
	}
	if o.Commands.Lshw == "" {
		o.Commands.Lshw = d.Commands.Lshw
	}
	if o.Commands.Ethtool == "" {
		o.Commands.Ethtool = d.Commands.Ethtool
	}
	if o.Commands.SystemProfiler == "" {
		o.Commands.SystemProfiler = d.Commands.SystemProfiler
	}
	if o.Commands.Ioreg == "" {
		o.Commands.Ioreg = d.Commands.Ioreg
	}
	if o.Runner == nil {
		o.Runner = fallback.ExecRunner(o.CommandTimeout)
	}
	return o
}

// Platform supplies what the ioctl path cannot: text fallbacks, counters
// and OS specific sources. Methods return ErrUnsupported when nothing on
// the platform can answer.
type Platform interface {
	// Prime loads the memoized inventory ahead of concurrent queries.
	Prime(ctx context.Context)
	DriverInfo(ctx context.Context, ifname string) (types.DriverInfo, error)
	Link(ctx context.Context, ifname string) (bool, error)
	Stats(ctx context.Context, ifname string) (types.Stats, error)
	Device(ctx context.Context, ifname, busInfo string) (pci.DeviceInfo, bool)
	Inet6(ifname string) ([]types.Inet6Addr, error)
	Wireless(ifname string) (types.WirelessStats, error)
	Interrupts(irq int) ([]uint64, error)
	Ethtool(ctx context.Context, ifname string) (types.EthtoolInfo, error)
}

// unsupported answers ErrUnsupported for every optional source. Platform
// implementations embed it and override what they provide.
type unsupported struct{}

func (unsupported) Prime(context.Context) {}

func (unsupported) DriverInfo(context.Context, string) (types.DriverInfo, error) {
	return types.DriverInfo{}, ErrUnsupported
}

func (unsupported) Link(context.Context, string) (bool, error) {
	return false, ErrUnsupported
}

func (unsupported) Stats(context.Context, string) (types.Stats, error) {
	return types.Stats{}, nil
}

func (unsupported) Device(context.Context, string, string) (pci.DeviceInfo, bool) {
	return pci.DeviceInfo{}, false
}

func (unsupported) Inet6(string) ([]types.Inet6Addr, error) {
	return nil, nil
}

func (unsupported) Wireless(string) (types.WirelessStats, error) {
	return types.WirelessStats{}, ErrUnsupported
}

func (unsupported) Interrupts(int) ([]uint64, error) {
	return nil, ErrUnsupported
}

func (unsupported) Ethtool(context.Context, string) (types.EthtoolInfo, error) {
	return types.EthtoolInfo{}, ErrUnsupported
}

// loadNames builds the vendor/device resolver, with the first pci.ids
// found when there is one.
func loadNames(paths []string) *pci.Names {
	db, err := pci.LoadIDDatabase(paths)
	if err != nil {
		pkg.WithError(err).Debug("ignoring unreadable pci.ids")
	}
	return pci.NewNames(db)
}
