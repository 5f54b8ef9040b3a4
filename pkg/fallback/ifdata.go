package fallback

import (
	"encoding/binary"

	"example.com/ifshow/pkg/types"
)

// Offsets into a Darwin NET_RT_IFLIST2 record: an if_msghdr2 carrying an
// if_data64, followed by the sockaddr_dl of the interface.
const (
	rtmIfInfo2 = 0x12
	rtaIFP     = 0x10
	afLink     = 18

	ifmTypeOff  = 3
	ifmAddrsOff = 4
	ifmDataOff  = 32

	ifdIPackets = ifmDataOff + 24
	ifdOPackets = ifmDataOff + 40
	ifdIBytes   = ifmDataOff + 64
	ifdOBytes   = ifmDataOff + 72

	sdlOff       = 160
	sdlFamilyOff = sdlOff + 1
	sdlNLenOff   = sdlOff + 5
	sdlDataOff   = sdlOff + 8
)

// parseIfList2 walks a NET_RT_IFLIST2 sysctl buffer and returns the
// counters of the first RTM_IFINFO2 record whose link name is ifname.
func parseIfList2(buf []byte, ifname string) (types.Stats, bool) {
	order := binary.NativeEndian
	for len(buf) >= 4 {
		msglen := int(order.Uint16(buf[0:2]))
		if msglen == 0 || msglen > len(buf) {
			break
		}
		msg := buf[:msglen]
		buf = buf[msglen:]

		if msg[ifmTypeOff] != rtmIfInfo2 || len(msg) < sdlDataOff {
			continue
		}
		if order.Uint32(msg[ifmAddrsOff:])&rtaIFP == 0 || msg[sdlFamilyOff] != afLink {
			continue
		}
		nlen := int(msg[sdlNLenOff])
		if sdlDataOff+nlen > len(msg) || string(msg[sdlDataOff:sdlDataOff+nlen]) != ifname {
			continue
		}
		return types.Stats{
			RxPackets: order.Uint64(msg[ifdIPackets:]),
			TxPackets: order.Uint64(msg[ifdOPackets:]),
			RxBytes:   order.Uint64(msg[ifdIBytes:]),
			TxBytes:   order.Uint64(msg[ifdOBytes:]),
		}, true
	}
	return types.Stats{}, false
}
