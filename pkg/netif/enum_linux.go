//go:build linux

package netif

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

// netlinkEnumerator lists links and addresses over rtnetlink. RawFlags
// carries the kernel IFF_* word unchanged.
type netlinkEnumerator struct{}

func newEnumerator() Enumerator {
	return netlinkEnumerator{}
}

func (netlinkEnumerator) Enumerate(ctx context.Context) ([]Entry, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list links")
	}
	addrs, err := netlink.AddrList(nil, netlink.FAMILY_ALL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	byIndex := make(map[int][]*net.IPNet)
	for _, a := range addrs {
		if a.IPNet != nil {
			byIndex[a.LinkIndex] = append(byIndex[a.LinkIndex], a.IPNet)
		}
	}

	entries := make([]Entry, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		entries = append(entries, Entry{
			Name:         attrs.Name,
			Index:        attrs.Index,
			Flags:        attrs.RawFlags,
			HardwareAddr: attrs.HardwareAddr,
			Addrs:        byIndex[attrs.Index],
		})
	}
	return entries, nil
}
