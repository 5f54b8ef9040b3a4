package netif

import (
	"context"
	"encoding/binary"
	"net"
	"sync"
	"sync/atomic"
	"unsafe"

	"example.com/ifshow/pkg/ifreq"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

// fakeChannel answers ioctls from canned values keyed by interface. Kinds
// without an answer fail with err, or ErrUnsupported when err is nil.
type fakeChannel struct {
	mac    map[string]net.HardwareAddr
	mtu    map[string]int
	metric map[string]int
	qlen   map[string]int
	irq    map[string]uint8
	err    error
	closed atomic.Int32
}

func (c *fakeChannel) Issue(r *ifreq.Request) error {
	blk := r.Raw()
	name := r.Name()
	switch r.Kind() {
	case ifreq.KindHardwareAddress:
		if mac, ok := c.mac[name]; ok {
			copy(blk.Union[2:8], mac)
			return nil
		}
	case ifreq.KindMTU:
		if v, ok := c.mtu[name]; ok {
			binary.NativeEndian.PutUint32(blk.Union[0:4], uint32(v))
			return nil
		}
	case ifreq.KindMetric:
		if v, ok := c.metric[name]; ok {
			binary.NativeEndian.PutUint32(blk.Union[0:4], uint32(v))
			return nil
		}
	case ifreq.KindTxQueueLen:
		if v, ok := c.qlen[name]; ok {
			binary.NativeEndian.PutUint32(blk.Union[0:4], uint32(v))
			return nil
		}
	case ifreq.KindMap:
		if v, ok := c.irq[name]; ok && mapSupported() {
			blk.Union[irqOffset] = v
			return nil
		}
	}
	if c.err != nil {
		return c.err
	}
	return ErrUnsupported
}

func (c *fakeChannel) Close() error {
	c.closed.Add(1)
	return nil
}

// irqOffset locates ifmap.irq: two unsigned longs and a short precede it.
var irqOffset = 2*int(unsafe.Sizeof(uintptr(0))) + 2

func mapSupported() bool {
	return len(ifreq.Block{}.Union) >= irqOffset+3
}

type fakePlatform struct {
	mu     sync.Mutex
	primed int

	driver     map[string]types.DriverInfo
	link       map[string]bool
	stats      map[string]types.Stats
	devices    map[string]pci.DeviceInfo
	busInfo    map[string]string
	inet6      map[string][]types.Inet6Addr
	wireless   map[string]types.WirelessStats
	interrupts map[int][]uint64
	ethtool    map[string]types.EthtoolInfo
}

func (p *fakePlatform) Prime(context.Context) {
	p.mu.Lock()
	p.primed++
	p.mu.Unlock()
}

func (p *fakePlatform) DriverInfo(_ context.Context, ifname string) (types.DriverInfo, error) {
	if d, ok := p.driver[ifname]; ok {
		return d, nil
	}
	return types.DriverInfo{}, ErrUnsupported
}

func (p *fakePlatform) Link(_ context.Context, ifname string) (bool, error) {
	if l, ok := p.link[ifname]; ok {
		return l, nil
	}
	return false, ErrUnsupported
}

func (p *fakePlatform) Stats(_ context.Context, ifname string) (types.Stats, error) {
	return p.stats[ifname], nil
}

func (p *fakePlatform) Device(_ context.Context, ifname, busInfo string) (pci.DeviceInfo, bool) {
	p.mu.Lock()
	if p.busInfo == nil {
		p.busInfo = make(map[string]string)
	}
	p.busInfo[ifname] = busInfo
	p.mu.Unlock()
	d, ok := p.devices[ifname]
	return d, ok
}

func (p *fakePlatform) Inet6(ifname string) ([]types.Inet6Addr, error) {
	return p.inet6[ifname], nil
}

func (p *fakePlatform) Wireless(ifname string) (types.WirelessStats, error) {
	if w, ok := p.wireless[ifname]; ok {
		return w, nil
	}
	return types.WirelessStats{}, ErrUnsupported
}

func (p *fakePlatform) Interrupts(irq int) ([]uint64, error) {
	if c, ok := p.interrupts[irq]; ok {
		return c, nil
	}
	return nil, ErrUnsupported
}

func (p *fakePlatform) Ethtool(_ context.Context, ifname string) (types.EthtoolInfo, error) {
	if e, ok := p.ethtool[ifname]; ok {
		return e, nil
	}
	return types.EthtoolInfo{}, ErrUnsupported
}

func newTestHost(entries []Entry, ch *fakeChannel, plat *fakePlatform) *Host {
	return &Host{
		enum: EnumeratorFunc(func(context.Context) ([]Entry, error) { return entries, nil }),
		plat: plat,
		open: func() (channel, error) { return ch, nil },
	}
}

func mustCIDR(s string) *net.IPNet {
	ip, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		panic(err)
	}
	ipnet.IP = ip
	return ipnet
}
