package netif

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ifshow/pkg/ifreq"
	"example.com/ifshow/pkg/types"
)

var testEntries = []Entry{
	{
		Name:  "lo",
		Index: 1,
		Flags: uint32(ifreq.FlagUp | ifreq.FlagLoopback | ifreq.FlagRunning),
		Addrs: []*net.IPNet{mustCIDR("127.0.0.1/8"), mustCIDR("::1/128")},
	},
	{
		Name:         "eth0",
		Index:        2,
		Flags:        uint32(ifreq.FlagUp | ifreq.FlagBroadcast | ifreq.FlagRunning | ifreq.FlagMulticast),
		HardwareAddr: net.HardwareAddr{0x52, 0x54, 0x00, 0x12, 0x34, 0x56},
		Addrs:        []*net.IPNet{mustCIDR("192.168.1.10/24"), {IP: net.ParseIP("10.0.0.1").To4()}},
	},
	{
		Name:  "tun0",
		Index: 3,
		Flags: uint32(ifreq.FlagUp | ifreq.FlagPointToPoint | ifreq.FlagNoARP),
	},
}

func openTest(t *testing.T, h *Host, name string) *Interface {
	t.Helper()
	ifc, err := h.Open(context.Background(), name)
	require.NoError(t, err)
	return ifc
}

func TestInterfaceFlags(t *testing.T) {
	h := newTestHost(testEntries, &fakeChannel{}, &fakePlatform{})

	eth0 := openTest(t, h, "eth0")
	f, err := eth0.Flags()
	require.NoError(t, err)
	assert.True(t, f.Has(ifreq.FlagMulticast))
	assert.True(t, eth0.IsUp())
	assert.True(t, eth0.IsRunning())
	assert.Equal(t, "UP BROADCAST RUNNING MULTICAST", eth0.FlagsString())

	tun := openTest(t, h, "tun0")
	assert.True(t, tun.IsUp())
	assert.False(t, tun.IsRunning())
	assert.Equal(t, "UP PTP NOARP", tun.FlagsString())

	missing := openTest(t, h, "nope0")
	_, err = missing.Flags()
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, missing.IsUp())
	assert.False(t, missing.IsRunning())
	assert.Empty(t, missing.FlagsString())
}

func TestInterfaceMAC(t *testing.T) {
	ch := &fakeChannel{mac: map[string]net.HardwareAddr{
		"lo": {0, 0, 0, 0, 0, 0},
	}}
	h := newTestHost(testEntries, ch, &fakePlatform{})

	assert.Equal(t, "00:00:00:00:00:00", openTest(t, h, "lo").MAC())
	// no ioctl answer: the enumeration address is used
	assert.Equal(t, "52:54:00:12:34:56", openTest(t, h, "eth0").MAC())
	assert.Empty(t, openTest(t, h, "tun0").MAC())
}

func TestInterfaceScalars(t *testing.T) {
	ch := &fakeChannel{
		mtu:    map[string]int{"eth0": 9000},
		metric: map[string]int{"eth0": 0, "lo": 5},
		qlen:   map[string]int{"eth0": 1000},
	}
	h := newTestHost(testEntries, ch, &fakePlatform{})
	eth0 := openTest(t, h, "eth0")

	mtu, err := eth0.MTU()
	require.NoError(t, err)
	assert.Equal(t, 9000, mtu)

	metric, err := eth0.Metric()
	require.NoError(t, err)
	assert.Equal(t, 1, metric)

	metric, err = openTest(t, h, "lo").Metric()
	require.NoError(t, err)
	assert.Equal(t, 5, metric)

	qlen, err := eth0.TxQueueLen()
	require.NoError(t, err)
	assert.Equal(t, 1000, qlen)
}

func TestInterfaceIoctlErrorPassesThrough(t *testing.T) {
	boom := errors.New("no such device")
	h := newTestHost(testEntries, &fakeChannel{err: boom}, &fakePlatform{})

	_, err := openTest(t, h, "eth0").MTU()
	assert.Same(t, boom, err)
	_, err = openTest(t, h, "eth0").Map()
	assert.Same(t, boom, err)
}

func TestInterfaceAddrs(t *testing.T) {
	plat := &fakePlatform{inet6: map[string][]types.Inet6Addr{
		"eth0": {{Address: "fe80::1", PrefixLen: 64, Scope: types.ScopeLink}},
		"lo":   {{Address: "should-not-be-used"}},
	}}
	h := newTestHost(testEntries, &fakeChannel{}, plat)

	eth0 := openTest(t, h, "eth0")
	assert.Equal(t, []types.Inet4Addr{
		{Address: "192.168.1.10", Netmask: "255.255.255.0", PrefixLen: 24},
		{Address: "10.0.0.1", PrefixLen: 0},
	}, eth0.InetAddrs())
	assert.Equal(t, plat.inet6["eth0"], eth0.Inet6Addrs())

	lo := openTest(t, h, "lo")
	assert.Equal(t, []types.Inet6Addr{{Address: "::1", PrefixLen: 128, Scope: types.ScopeHost}}, lo.Inet6Addrs())

	assert.Empty(t, openTest(t, h, "tun0").InetAddrs())
}

func TestInterfaceFallbacks(t *testing.T) {
	plat := &fakePlatform{
		driver: map[string]types.DriverInfo{"eth0": {Driver: "virtio_net", BusInfo: "0000:00:03.0"}},
		link:   map[string]bool{"eth0": true},
		stats:  map[string]types.Stats{"eth0": {RxBytes: 1000, RxPackets: 10, TxBytes: 2000, TxPackets: 20}},
	}
	h := newTestHost(testEntries, &fakeChannel{}, plat)
	ctx := context.Background()

	eth0 := openTest(t, h, "eth0")
	info, err := eth0.DriverInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "virtio_net", info.Driver)

	up, err := eth0.Link(ctx)
	require.NoError(t, err)
	assert.True(t, up)

	assert.Equal(t, uint64(2000), eth0.Stats(ctx).TxBytes)

	tun := openTest(t, h, "tun0")
	_, err = tun.DriverInfo(ctx)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = tun.Link(ctx)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.True(t, tun.Stats(ctx).IsZero())

	_, ok := eth0.Device(ctx)
	assert.False(t, ok)
	assert.Equal(t, "0000:00:03.0", plat.busInfo["eth0"])
}

func TestInterfaceInterrupts(t *testing.T) {
	if !mapSupported() {
		t.Skip("device map not available on this platform")
	}
	ch := &fakeChannel{irq: map[string]uint8{"eth0": 16, "lo": 0}}
	plat := &fakePlatform{interrupts: map[int][]uint64{16: {100, 200}}}
	h := newTestHost(testEntries, ch, plat)

	counters, err := openTest(t, h, "eth0").Interrupts()
	require.NoError(t, err)
	assert.Equal(t, []uint64{100, 200}, counters)

	_, err = openTest(t, h, "lo").Interrupts()
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = openTest(t, h, "tun0").Interrupts()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestInterfaceClose(t *testing.T) {
	ch := &fakeChannel{}
	h := newTestHost(testEntries, ch, &fakePlatform{})
	require.NoError(t, openTest(t, h, "eth0").Close())
	assert.Equal(t, int32(1), ch.closed.Load())
}

func TestHostEntries(t *testing.T) {
	h := newTestHost(testEntries, &fakeChannel{}, &fakePlatform{})
	entries, err := h.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "lo", entries[0].Name)
	assert.Equal(t, "tun0", entries[2].Name)
}

func TestHostEnumerationError(t *testing.T) {
	boom := errors.New("netlink: permission denied")
	h := &Host{
		enum: EnumeratorFunc(func(context.Context) ([]Entry, error) { return nil, boom }),
		plat: &fakePlatform{},
		open: func() (channel, error) { return &fakeChannel{}, nil },
	}
	_, err := h.Open(context.Background(), "eth0")
	assert.ErrorIs(t, err, boom)
	_, err = h.Entries(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNormalizeMetric(t *testing.T) {
	assert.Equal(t, 1, normalizeMetric(0))
	assert.Equal(t, 1, normalizeMetric(1))
	assert.Equal(t, 100, normalizeMetric(100))
}

func TestInterfaceRepeatedQueries(t *testing.T) {
	ch := &fakeChannel{
		mac: map[string]net.HardwareAddr{"eth0": {0x52, 0x54, 0x00, 0xab, 0xcd, 0xef}},
		mtu: map[string]int{"eth0": 9000},
	}
	plat := &fakePlatform{
		stats: map[string]types.Stats{"eth0": {RxBytes: 1000, RxPackets: 10, TxBytes: 2000, TxPackets: 20}},
	}
	h := newTestHost(testEntries, ch, plat)
	ctx := context.Background()

	eth0 := openTest(t, h, "eth0")
	defer eth0.Close()

	flags := eth0.FlagsString()
	mac := eth0.MAC()
	mtu, err := eth0.MTU()
	require.NoError(t, err)
	stats := eth0.Stats(ctx)

	assert.Equal(t, flags, eth0.FlagsString())
	assert.Equal(t, mac, eth0.MAC())
	mtu2, err := eth0.MTU()
	require.NoError(t, err)
	assert.Equal(t, mtu, mtu2)
	assert.Equal(t, stats, eth0.Stats(ctx))

	assert.Equal(t, "UP BROADCAST RUNNING MULTICAST", flags)
	assert.Equal(t, "52:54:00:ab:cd:ef", mac)
	assert.Equal(t, 9000, mtu)
	assert.Equal(t, uint64(1000), stats.RxBytes)
}
