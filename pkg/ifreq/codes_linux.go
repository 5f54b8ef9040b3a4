//go:build linux

package ifreq

import "golang.org/x/sys/unix"

// The largest union member is struct ifmap: two unsigned longs, a short
// and three chars, padded to word size.
const unionSize = 8 + 2*wordSize

var requestCodes = map[Kind]uint{
	KindFlags:           unix.SIOCGIFFLAGS,
	KindHardwareAddress: unix.SIOCGIFHWADDR,
	KindMTU:             unix.SIOCGIFMTU,
	KindMetric:          unix.SIOCGIFMETRIC,
	KindMap:             unix.SIOCGIFMAP,
	KindTxQueueLen:      unix.SIOCGIFTXQLEN,
	KindDriverData:      unix.SIOCETHTOOL,
	KindLinkValue:       unix.SIOCETHTOOL,
}
