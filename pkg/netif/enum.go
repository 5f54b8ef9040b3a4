// Package netif answers per-interface queries by combining the ioctl
// codec, the platform enumeration and the text fallbacks.
package netif

import (
	"context"
	"net"
)

// Entry is one interface as listed by the platform enumeration.
type Entry struct {
	Name         string
	Index        int
	Flags        uint32
	HardwareAddr net.HardwareAddr
	Addrs        []*net.IPNet
}

// Enumerator lists the interfaces of the host with their addresses.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Entry, error)
}

// EnumeratorFunc adapts a function to Enumerator.
type EnumeratorFunc func(ctx context.Context) ([]Entry, error)

func (f EnumeratorFunc) Enumerate(ctx context.Context) ([]Entry, error) {
	return f(ctx)
}

func findEntry(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
