package types

import (
	"net"
	"testing"
)

func TestScopeOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"::1", ScopeHost},
		{"fe80::1", ScopeLink},
		{"fec0::1", ScopeSite},
		{"feff::1", ScopeSite},
		{"ff02::1", ScopeMulticast},
		{"2001:db8::1", ScopeGlobal},
		{"fd00::1", ScopeGlobal},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := ScopeOf(net.ParseIP(tt.addr)); got != tt.want {
				t.Errorf("ScopeOf(%s) = %s, want %s", tt.addr, got, tt.want)
			}
		})
	}
}

func TestNewInet4Addr(t *testing.T) {
	tests := []struct {
		name        string
		ip          net.IP
		mask        net.IPMask
		wantMask    string
		wantPrefix  int
		wantAddress string
	}{
		{
			name:        "class c",
			ip:          net.ParseIP("192.168.1.10"),
			mask:        net.CIDRMask(24, 32),
			wantMask:    "255.255.255.0",
			wantPrefix:  24,
			wantAddress: "192.168.1.10",
		},
		{
			name:        "host route",
			ip:          net.ParseIP("10.0.0.1"),
			mask:        net.CIDRMask(32, 32),
			wantMask:    "255.255.255.255",
			wantPrefix:  32,
			wantAddress: "10.0.0.1",
		},
		{
			name:        "missing netmask",
			ip:          net.ParseIP("10.0.0.1"),
			wantAddress: "10.0.0.1",
		},
		{
			name:        "sixteen byte mask",
			ip:          net.ParseIP("172.16.0.1"),
			mask:        net.CIDRMask(112, 128),
			wantMask:    "255.255.0.0",
			wantPrefix:  16,
			wantAddress: "172.16.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewInet4Addr(tt.ip, tt.mask)
			if got.Address != tt.wantAddress || got.Netmask != tt.wantMask || got.PrefixLen != tt.wantPrefix {
				t.Errorf("NewInet4Addr() = %+v, want %s %s /%d", got, tt.wantAddress, tt.wantMask, tt.wantPrefix)
			}
		})
	}
}

func TestNewInet6AddrPrefix(t *testing.T) {
	got := NewInet6Addr(net.ParseIP("fe80::1"), net.CIDRMask(64, 128))
	if got.PrefixLen != 64 || got.Scope != ScopeLink {
		t.Errorf("NewInet6Addr() = %+v", got)
	}
	if got := NewInet6Addr(net.ParseIP("2001:db8::1"), nil); got.PrefixLen != 0 {
		t.Errorf("prefix without mask = %d, want 0", got.PrefixLen)
	}
}
