package fallback

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"example.com/ifshow/pkg/types"
)

const netRTIfList2 = 6

// DarwinStats reads the 64-bit interface counters through the
// net.route.0.0.NET_RT_IFLIST2 sysctl.
func DarwinStats(ifname string) (types.Stats, bool, error) {
	buf, err := unix.SysctlRaw("net.route", 0, 0, netRTIfList2, 0)
	if err != nil {
		return types.Stats{}, false, errors.Wrap(err, "sysctl NET_RT_IFLIST2")
	}
	stats, ok := parseIfList2(buf, ifname)
	return stats, ok, nil
}
