//go:build darwin

package netif

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"golang.org/x/net/route"
	"golang.org/x/sys/unix"

	"example.com/ifshow/pkg/ifreq"
)

// routeEnumerator parses the NET_RT_IFLIST routing socket dump.
type routeEnumerator struct{}

func newEnumerator() Enumerator {
	return routeEnumerator{}
}

func (routeEnumerator) Enumerate(ctx context.Context) ([]Entry, error) {
	rib, err := route.FetchRIB(unix.AF_UNSPEC, route.RIBTypeInterface, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch interface RIB")
	}
	msgs, err := route.ParseRIB(route.RIBTypeInterface, rib)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse interface RIB")
	}

	var entries []Entry
	pos := make(map[int]int)
	for _, msg := range msgs {
		switch m := msg.(type) {
		case *route.InterfaceMessage:
			e := Entry{Name: m.Name, Index: m.Index, Flags: bsdFlags(m.Flags)}
			if len(m.Addrs) > unix.RTAX_IFP {
				if la, ok := m.Addrs[unix.RTAX_IFP].(*route.LinkAddr); ok {
					if e.Name == "" {
						e.Name = la.Name
					}
					if len(la.Addr) > 0 {
						e.HardwareAddr = net.HardwareAddr(la.Addr)
					}
				}
			}
			pos[m.Index] = len(entries)
			entries = append(entries, e)
		case *route.InterfaceAddrMessage:
			i, ok := pos[m.Index]
			if !ok || len(m.Addrs) <= unix.RTAX_IFA {
				continue
			}
			if ipnet := routeIPNet(m.Addrs[unix.RTAX_IFA], m.Addrs[unix.RTAX_NETMASK]); ipnet != nil {
				entries[i].Addrs = append(entries[i].Addrs, ipnet)
			}
		}
	}
	return entries, nil
}

func routeIPNet(addr, mask route.Addr) *net.IPNet {
	switch a := addr.(type) {
	case *route.Inet4Addr:
		ipnet := &net.IPNet{IP: net.IP(a.IP[:]).To4()}
		if m, ok := mask.(*route.Inet4Addr); ok {
			ipnet.Mask = net.IPMask(m.IP[:])
		}
		return ipnet
	case *route.Inet6Addr:
		ipnet := &net.IPNet{IP: append(net.IP(nil), a.IP[:]...)}
		if m, ok := mask.(*route.Inet6Addr); ok {
			ipnet.Mask = net.IPMask(m.IP[:])
		}
		return ipnet
	}
	return nil
}

// bsdFlags moves BSD interface flags onto the Linux bit layout. The low
// ten bits agree; MULTICAST sits at 0x8000 on BSD.
func bsdFlags(f int) uint32 {
	out := uint32(f) & 0x3ff
	if f&unix.IFF_MULTICAST != 0 {
		out |= uint32(ifreq.FlagMulticast)
	}
	return out
}
