//go:build darwin

package netif

import (
	"context"
	"sync"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/fallback"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

type darwinPlatform struct {
	unsupported

	opts      Options
	inventory *fallback.Inventory

	namesOnce sync.Once
	names     *pci.Names
}

func newPlatform(opts Options) Platform {
	return &darwinPlatform{
		opts:      opts,
		inventory: fallback.ProfilerInventory(opts.Runner, opts.Commands.SystemProfiler),
	}
}

func (p *darwinPlatform) Prime(ctx context.Context) {
	_ = p.inventory.Init(ctx)
}

// DriverInfo reports the system_profiler hardware type, or the IOName of
// the registry entry when the interface is not a network service.
func (p *darwinPlatform) DriverInfo(ctx context.Context, ifname string) (types.DriverInfo, error) {
	if e, ok := p.inventory.Lookup(ctx, ifname); ok {
		return e.Driver, nil
	}
	rec, err := p.ioreg(ctx, ifname)
	if err != nil || rec.Name == nil {
		return types.DriverInfo{}, ErrUnsupported
	}
	return types.DriverInfo{Driver: *rec.Name, Version: "N/A", BusInfo: "N/A"}, nil
}

func (p *darwinPlatform) Stats(_ context.Context, ifname string) (types.Stats, error) {
	stats, _, err := fallback.DarwinStats(ifname)
	if err != nil {
		pkg.ForInterface(ifname).WithError(err).Debug("interface counters unavailable")
	}
	return stats, nil
}

// Device builds the PCI identity from the I/O Registry. The bus number is
// not exposed there, so the record has no canonical address.
func (p *darwinPlatform) Device(ctx context.Context, ifname, _ string) (pci.DeviceInfo, bool) {
	rec, err := p.ioreg(ctx, ifname)
	if err != nil || rec.VendorID == nil || rec.DeviceID == nil {
		return pci.DeviceInfo{}, false
	}
	d := pci.DeviceInfo{
		VendorID:        *rec.VendorID,
		DeviceID:        *rec.DeviceID,
		SubsystemVendor: rec.SubsystemVendorID,
		SubsystemDevice: rec.SubsystemID,
		Class:           rec.Class,
		Subclass:        rec.Subclass,
		Revision:        rec.Revision,
		Device:          rec.Device,
		Function:        rec.Function,
	}
	p.namesOnce.Do(func() { p.names = loadNames(p.opts.PCIIDPaths) })
	p.names.Resolve(&d)
	return d, true
}

func (p *darwinPlatform) ioreg(ctx context.Context, ifname string) (fallback.RegistryRecord, error) {
	rec, err := fallback.QueryIORegistry(ctx, p.opts.Runner, p.opts.Commands.Ioreg, ifname)
	if err != nil {
		pkg.ForInterface(ifname).WithError(err).Debug("ioreg failed")
	}
	return rec, err
}
