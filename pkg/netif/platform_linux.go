//go:build linux

package netif

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vishvananda/netlink"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/fallback"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

type linuxPlatform struct {
	opts      Options
	proc      fallback.ProcFS
	tool      fallback.Ethtool
	inventory *fallback.Inventory
	locator   pci.SysfsLocator

	registryOnce sync.Once
	registry     *pci.Registry

	eth ethtoolClient
}

func newPlatform(opts Options) Platform {
	return &linuxPlatform{
		opts:      opts,
		proc:      fallback.ProcFS{Root: opts.ProcRoot},
		tool:      fallback.Ethtool{Run: opts.Runner, Path: opts.Commands.Ethtool},
		inventory: fallback.LshwInventory(opts.Runner, opts.Commands.Lshw),
		locator:   pci.SysfsLocator{Root: opts.SysfsRoot},
	}
}

func (p *linuxPlatform) Prime(ctx context.Context) {
	_ = p.inventory.Init(ctx)
}

// DriverInfo asks `ethtool -i`, then the lshw inventory.
func (p *linuxPlatform) DriverInfo(ctx context.Context, ifname string) (types.DriverInfo, error) {
	info, err := p.tool.DriverInfo(ctx, ifname)
	if err == nil && info.Driver != "" {
		return info, nil
	}
	if err != nil {
		pkg.ForInterface(ifname).WithError(err).Debug("ethtool -i failed")
	}

	if e, ok := p.inventory.Lookup(ctx, ifname); ok && e.Driver.Driver != "" {
		return e.Driver, nil
	}
	return types.DriverInfo{}, ErrUnsupported
}

// Link reads the carrier attribute, which the kernel only exposes while
// the interface is up.
func (p *linuxPlatform) Link(_ context.Context, ifname string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(p.opts.SysfsRoot, "class", "net", ifname, "carrier"))
	if err != nil {
		return false, ErrUnsupported
	}
	switch strings.TrimSpace(string(data)) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, ErrUnsupported
}

// Stats reads /proc/net/dev and falls back to the rtnetlink link
// statistics. Absent counters give the zero record.
func (p *linuxPlatform) Stats(_ context.Context, ifname string) (types.Stats, error) {
	stats, found, err := p.proc.NetDevStats(ifname)
	if err != nil {
		pkg.ForInterface(ifname).WithError(err).Debug("net/dev unreadable")
	}
	if found {
		return stats, nil
	}

	h, err := netlink.NewHandle()
	if err != nil {
		return types.Stats{}, nil
	}
	defer h.Delete()

	link, err := h.LinkByName(ifname)
	if err != nil {
		return types.Stats{}, nil
	}
	if s := link.Attrs().Statistics; s != nil {
		return types.Stats{
			RxBytes:   s.RxBytes,
			RxPackets: s.RxPackets,
			TxBytes:   s.TxBytes,
			TxPackets: s.TxPackets,
		}, nil
	}
	return types.Stats{}, nil
}

func (p *linuxPlatform) Device(_ context.Context, ifname, busInfo string) (pci.DeviceInfo, bool) {
	return pci.FindPCIInfo(ifname, busInfo, p.pciRegistry(), p.locator)
}

// pciRegistry scans sysfs on first use.
func (p *linuxPlatform) pciRegistry() *pci.Registry {
	p.registryOnce.Do(func() {
		scanner := &pci.SysfsScanner{Root: p.opts.SysfsRoot, Names: loadNames(p.opts.PCIIDPaths)}
		reg, err := scanner.BuildRegistry()
		if err != nil {
			pkg.WithError(err).Debug("PCI registry unavailable")
			return
		}
		p.registry = reg
	})
	return p.registry
}

func (p *linuxPlatform) Inet6(ifname string) ([]types.Inet6Addr, error) {
	return p.proc.Inet6(ifname)
}

func (p *linuxPlatform) Wireless(ifname string) (types.WirelessStats, error) {
	w, ok, err := p.proc.Wireless(ifname)
	if err != nil {
		return types.WirelessStats{}, err
	}
	if !ok {
		return types.WirelessStats{}, ErrUnsupported
	}
	return w, nil
}

func (p *linuxPlatform) Interrupts(irq int) ([]uint64, error) {
	return p.proc.Interrupts(irq)
}

// Ethtool uses the ethtool netlink/ioctl client, then the ethtool
// utility's text output.
func (p *linuxPlatform) Ethtool(ctx context.Context, ifname string) (types.EthtoolInfo, error) {
	if info, ok := p.eth.Info(ifname); ok {
		return info, nil
	}
	return p.tool.Info(ctx, ifname)
}

// Close releases the shared ethtool socket.
func (p *linuxPlatform) Close() error {
	p.eth.Close()
	return nil
}
