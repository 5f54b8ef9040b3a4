//go:build !linux && !darwin

package netif

import (
	"context"
	"net"

	"github.com/pkg/errors"
	psnet "github.com/shirou/gopsutil/v3/net"

	"example.com/ifshow/pkg/ifreq"
)

// psutilEnumerator lists interfaces through gopsutil.
type psutilEnumerator struct{}

func newEnumerator() Enumerator {
	return psutilEnumerator{}
}

var psutilFlags = map[string]ifreq.Flags{
	"up":           ifreq.FlagUp,
	"broadcast":    ifreq.FlagBroadcast,
	"loopback":     ifreq.FlagLoopback,
	"pointtopoint": ifreq.FlagPointToPoint,
	"multicast":    ifreq.FlagMulticast,
	"running":      ifreq.FlagRunning,
}

func (psutilEnumerator) Enumerate(ctx context.Context) ([]Entry, error) {
	stats, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list interfaces")
	}

	entries := make([]Entry, 0, len(stats))
	for _, s := range stats {
		e := Entry{Name: s.Name, Index: s.Index}
		for _, f := range s.Flags {
			e.Flags |= uint32(psutilFlags[f])
		}
		if mac, err := net.ParseMAC(s.HardwareAddr); err == nil {
			e.HardwareAddr = mac
		}
		for _, a := range s.Addrs {
			ip, ipnet, err := net.ParseCIDR(a.Addr)
			if err != nil {
				continue
			}
			e.Addrs = append(e.Addrs, &net.IPNet{IP: ip, Mask: ipnet.Mask})
		}
		entries = append(entries, e)
	}
	return entries, nil
}
