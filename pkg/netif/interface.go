package netif

import (
	"context"
	"net"

	"github.com/pkg/errors"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/ifreq"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

// Interface is a query handle on one network interface.
type Interface struct {
	name  string
	entry Entry
	found bool
	ch    channel
	plat  Platform
}

func (i *Interface) Name() string {
	return i.name
}

// Close releases the control channel.
func (i *Interface) Close() error {
	return i.ch.Close()
}

// Flags returns the enumeration flags.
func (i *Interface) Flags() (ifreq.Flags, error) {
	if !i.found {
		return 0, errors.Wrap(ErrNotFound, i.name)
	}
	return ifreq.Flags(uint16(i.entry.Flags)), nil
}

func (i *Interface) IsUp() bool {
	f, err := i.Flags()
	return err == nil && f.Has(ifreq.FlagUp)
}

func (i *Interface) IsRunning() bool {
	f, err := i.Flags()
	return err == nil && f.Has(ifreq.FlagRunning)
}

// FlagsString renders the flags, or "" when they are unknown.
func (i *Interface) FlagsString() string {
	f, err := i.Flags()
	if err != nil {
		return ""
	}
	return f.String()
}

// MAC returns the hardware address as lowercase colon separated hex, or ""
// when the interface has none.
func (i *Interface) MAC() string {
	req := ifreq.NewHardwareAddress(i.name)
	if err := i.ch.Issue(req); err == nil {
		return req.HardwareAddr().String()
	}
	if len(i.entry.HardwareAddr) == 0 {
		return ""
	}
	return i.entry.HardwareAddr.String()
}

func (i *Interface) MTU() (int, error) {
	req := ifreq.NewMTU(i.name)
	if err := i.ch.Issue(req); err != nil {
		return 0, err
	}
	return req.MTU(), nil
}

// Metric reports the routing metric. The kernel stores 0 for the default
// metric, which is displayed as 1.
func (i *Interface) Metric() (int, error) {
	req := ifreq.NewMetric(i.name)
	if err := i.ch.Issue(req); err != nil {
		return 0, err
	}
	return normalizeMetric(req.Metric()), nil
}

func normalizeMetric(m int) int {
	if m == 0 {
		return 1
	}
	return m
}

func (i *Interface) TxQueueLen() (int, error) {
	req := ifreq.NewTxQueueLen(i.name)
	if err := i.ch.Issue(req); err != nil {
		return 0, err
	}
	return req.TxQueueLen(), nil
}

func (i *Interface) Map() (types.IfMap, error) {
	req := ifreq.NewMap(i.name)
	if err := i.ch.Issue(req); err != nil {
		return types.IfMap{}, err
	}
	return req.Map(), nil
}

// InetAddrs returns the IPv4 addresses from enumeration.
func (i *Interface) InetAddrs() []types.Inet4Addr {
	var out []types.Inet4Addr
	for _, a := range i.entry.Addrs {
		if a.IP.To4() == nil {
			continue
		}
		out = append(out, types.NewInet4Addr(a.IP, a.Mask))
	}
	return out
}

// Inet6Addrs returns the IPv6 addresses from enumeration, or those of the
// platform source when enumeration has none.
func (i *Interface) Inet6Addrs() []types.Inet6Addr {
	var out []types.Inet6Addr
	for _, a := range i.entry.Addrs {
		if a.IP.To4() != nil || len(a.IP) != net.IPv6len {
			continue
		}
		out = append(out, types.NewInet6Addr(a.IP, a.Mask))
	}
	if len(out) > 0 {
		return out
	}

	addrs, err := i.plat.Inet6(i.name)
	if err != nil {
		pkg.ForInterface(i.name).WithError(err).Debug("IPv6 source unavailable")
		return nil
	}
	return addrs
}

// DriverInfo queries ETHTOOL_GDRVINFO, then the platform text sources.
func (i *Interface) DriverInfo(ctx context.Context) (types.DriverInfo, error) {
	req := ifreq.NewDriverData(i.name)
	err := i.ch.Issue(req)
	if err == nil {
		return req.DriverInfo(), nil
	}
	pkg.ForInterface(i.name).WithError(err).Debug("driver query failed, trying fallbacks")
	return i.plat.DriverInfo(ctx, i.name)
}

// Link reports whether the interface has a carrier.
func (i *Interface) Link(ctx context.Context) (bool, error) {
	req := ifreq.NewLinkValue(i.name)
	err := i.ch.Issue(req)
	if err == nil {
		return req.LinkUp(), nil
	}
	pkg.ForInterface(i.name).WithError(err).Debug("link query failed, trying fallbacks")
	return i.plat.Link(ctx, i.name)
}

// Stats returns the traffic counters, zero when none are available.
func (i *Interface) Stats(ctx context.Context) types.Stats {
	s, err := i.plat.Stats(ctx, i.name)
	if err != nil {
		pkg.ForInterface(i.name).WithError(err).Debug("statistics unavailable")
		return types.Stats{}
	}
	return s
}

// Device returns the PCI function behind the interface.
func (i *Interface) Device(ctx context.Context) (pci.DeviceInfo, bool) {
	info, _ := i.DriverInfo(ctx)
	return i.plat.Device(ctx, i.name, info.BusInfo)
}

func (i *Interface) Wireless() (types.WirelessStats, error) {
	return i.plat.Wireless(i.name)
}

// Interrupts returns the per-CPU counters of the device map irq.
func (i *Interface) Interrupts() ([]uint64, error) {
	m, err := i.Map()
	if err != nil {
		return nil, err
	}
	if m.IRQ == 0 {
		return nil, ErrUnsupported
	}
	return i.plat.Interrupts(int(m.IRQ))
}

func (i *Interface) Ethtool(ctx context.Context) (types.EthtoolInfo, error) {
	return i.plat.Ethtool(ctx, i.name)
}
