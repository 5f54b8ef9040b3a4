package fallback

import (
	"bufio"
	"encoding/hex"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"

	"example.com/ifshow/pkg/types"
)

// ProcFS reads the network pseudo-files under Root (normally /proc).
type ProcFS struct {
	Root string
}

func (p ProcFS) open(rel string) (*os.File, error) {
	return os.Open(filepath.Join(p.Root, rel))
}

// NetDevStats returns the /proc/net/dev counters of ifname. A missing file
// or interface yields the zero record; found reports which happened.
func (p ProcFS) NetDevStats(ifname string) (stats types.Stats, found bool, err error) {
	f, err := p.open("net/dev")
	if err != nil {
		if os.IsNotExist(err) {
			return types.Stats{}, false, nil
		}
		return types.Stats{}, false, errors.Wrap(err, "failed to open net/dev")
	}
	defer f.Close()
	stats, found = ParseNetDev(f, ifname)
	return stats, found, nil
}

// ParseNetDev reads /proc/net/dev: two header lines, then the name
// followed by rx bytes/packets in columns 1/2 and tx bytes/packets in
// columns 9/10. Unparseable counters read as zero.
func ParseNetDev(r io.Reader, ifname string) (types.Stats, bool) {
	var stats types.Stats
	found := false
	eachRow(r, 2, func(fields []string) bool {
		name, values := ifaceRow(fields)
		if name != ifname {
			return true
		}
		if len(values) < 10 {
			return false
		}
		found = true
		stats = types.Stats{
			RxBytes:   parseU64(values[0]),
			RxPackets: parseU64(values[1]),
			TxBytes:   parseU64(values[8]),
			TxPackets: parseU64(values[9]),
		}
		return false
	})
	return stats, found
}

// Wireless returns the /proc/net/wireless row of ifname.
func (p ProcFS) Wireless(ifname string) (types.WirelessStats, bool, error) {
	fs, err := procfs.NewFS(p.Root)
	if err != nil {
		return types.WirelessStats{}, false, errors.Wrap(err, "failed to open procfs")
	}
	rows, err := fs.Wireless()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.WirelessStats{}, false, nil
		}
		return types.WirelessStats{}, false, errors.Wrap(err, "failed to read net/wireless")
	}
	w, ok := FindWireless(rows, ifname)
	return w, ok, nil
}

// FindWireless picks the row of ifname. Status is the hex status word.
func FindWireless(rows []*procfs.Wireless, ifname string) (types.WirelessStats, bool) {
	for _, w := range rows {
		if w == nil || w.Name != ifname {
			continue
		}
		return types.WirelessStats{
			Status: float64(w.Status),
			Link:   float64(w.QualityLink),
			Level:  float64(w.QualityLevel),
			Noise:  float64(w.QualityNoise),
		}, true
	}
	return types.WirelessStats{}, false
}

// Interrupts returns the per-CPU counters of irq from /proc/interrupts.
// procfs only exposes the per-process <pid>/interrupts path, which the
// kernel does not provide, so the system table is scanned here.
func (p ProcFS) Interrupts(irq int) ([]uint64, error) {
	f, err := p.open("interrupts")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open interrupts")
	}
	defer f.Close()
	return ParseInterrupts(f, irq), nil
}

// ParseInterrupts returns the leading numeric columns of the row for irq.
func ParseInterrupts(r io.Reader, irq int) []uint64 {
	var counters []uint64
	eachRow(r, 1, func(fields []string) bool {
		n, err := strconv.Atoi(strings.TrimSuffix(fields[0], ":"))
		if err != nil || n != irq {
			return true
		}
		for _, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				break
			}
			counters = append(counters, v)
		}
		return false
	})
	return counters
}

// Inet6 returns the IPv6 addresses of ifname from /proc/net/if_inet6.
func (p ProcFS) Inet6(ifname string) ([]types.Inet6Addr, error) {
	f, err := p.open("net/if_inet6")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to open net/if_inet6")
	}
	defer f.Close()
	return ParseIfInet6(f, ifname), nil
}

// ParseIfInet6 reads rows of "address ifindex prefixlen scope flags name",
// all hex except the name.
func ParseIfInet6(r io.Reader, ifname string) []types.Inet6Addr {
	var addrs []types.Inet6Addr
	eachRow(r, 0, func(fields []string) bool {
		if len(fields) < 6 || fields[5] != ifname {
			return true
		}
		raw, err := hex.DecodeString(fields[0])
		if err != nil || len(raw) != net.IPv6len {
			return true
		}
		plen, err := strconv.ParseUint(fields[2], 16, 8)
		if err != nil || plen > 128 {
			return true
		}
		addrs = append(addrs, types.NewInet6Addr(net.IP(raw), net.CIDRMask(int(plen), 128)))
		return true
	})
	return addrs
}

// eachRow splits every line after skip header lines into fields and calls
// fn until it returns false. Blank lines are ignored.
func eachRow(r io.Reader, skip int, fn func(fields []string) bool) {
	scanner := bufio.NewScanner(r)
	for i := 0; scanner.Scan(); i++ {
		if i < skip {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if !fn(fields) {
			return
		}
	}
}

// ifaceRow splits "name:" off a row. Large counters can run into the
// colon, as in "eth0:123456".
func ifaceRow(fields []string) (string, []string) {
	name, rest, _ := strings.Cut(fields[0], ":")
	if rest != "" {
		return name, append([]string{rest}, fields[1:]...)
	}
	return name, fields[1:]
}

func parseU64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
