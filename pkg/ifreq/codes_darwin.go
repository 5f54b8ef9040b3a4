//go:build darwin

package ifreq

import "golang.org/x/sys/unix"

// struct sockaddr is the largest union member.
const unionSize = 16

// No SIOCGIFHWADDR, SIOCGIFMAP or SIOCETHTOOL on darwin.
var requestCodes = map[Kind]uint{
	KindFlags:  unix.SIOCGIFFLAGS,
	KindMTU:    unix.SIOCGIFMTU,
	KindMetric: unix.SIOCGIFMETRIC,
}
