package types

import (
	"math/bits"
	"net"
)

// IPv6 scope tags
const (
	ScopeHost      = "host"
	ScopeLink      = "link"
	ScopeSite      = "site"
	ScopeMulticast = "multicast"
	ScopeGlobal    = "global"
)

// PrefixLen counts the set bits of a netmask. A nil mask yields 0.
func PrefixLen(mask net.IPMask) int {
	n := 0
	for _, b := range mask {
		n += bits.OnesCount8(b)
	}
	return n
}

// NewInet4Addr builds an IPv4 record; mask may be nil.
func NewInet4Addr(ip net.IP, mask net.IPMask) Inet4Addr {
	a := Inet4Addr{Address: ip.To4().String()}
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if len(mask) == net.IPv4len {
		a.Netmask = net.IP(mask).String()
		a.PrefixLen = PrefixLen(mask)
	}
	return a
}

// NewInet6Addr builds an IPv6 record; mask may be nil.
func NewInet6Addr(ip net.IP, mask net.IPMask) Inet6Addr {
	return Inet6Addr{
		Address:   ip.String(),
		PrefixLen: PrefixLen(mask),
		Scope:     ScopeOf(ip),
	}
}

// ScopeOf classifies an IPv6 address. The checks run in a fixed order:
// loopback, link-local unicast, fec0::/10, multicast, then global.
func ScopeOf(ip net.IP) string {
	ip = ip.To16()
	switch {
	case ip == nil:
		return ScopeGlobal
	case ip.IsLoopback():
		return ScopeHost
	case ip.IsLinkLocalUnicast():
		return ScopeLink
	case ip[0] == 0xfe && ip[1]&0xc0 == 0xc0:
		return ScopeSite
	case ip.IsMulticast():
		return ScopeMulticast
	}
	return ScopeGlobal
}
