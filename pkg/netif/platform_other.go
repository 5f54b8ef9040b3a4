//go:build !linux && !darwin

package netif

import (
	"context"

	psnet "github.com/shirou/gopsutil/v3/net"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/types"
)

type genericPlatform struct {
	unsupported
}

func newPlatform(Options) Platform {
	return genericPlatform{}
}

// Stats reads the per-NIC counters gopsutil exposes.
func (genericPlatform) Stats(ctx context.Context, ifname string) (types.Stats, error) {
	counters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		pkg.ForInterface(ifname).WithError(err).Debug("interface counters unavailable")
		return types.Stats{}, nil
	}
	for _, c := range counters {
		if c.Name == ifname {
			return types.Stats{
				RxBytes:   c.BytesRecv,
				RxPackets: c.PacketsRecv,
				TxBytes:   c.BytesSent,
				TxPackets: c.PacketsSent,
			}, nil
		}
	}
	return types.Stats{}, nil
}
