// Package ifreq builds and decodes the interface request block passed to
// the SIOCGIF* and SIOCETHTOOL ioctls.
package ifreq

import (
	"bytes"
	"encoding/binary"
	"net"
	"unsafe"

	"github.com/pkg/errors"

	"example.com/ifshow/pkg/types"
)

// NameSize is IFNAMSIZ, terminator included.
const NameSize = 16

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// ErrUnsupported is returned for request kinds the running platform has no
// request code for.
var ErrUnsupported = errors.New("operation not supported on this platform")

// Block mirrors struct ifreq: the interface name followed by the union.
type Block struct {
	Name  [NameSize]byte
	Union [unionSize]byte
}

// Encode returns a zeroed block carrying name. Names longer than
// NameSize-1 bytes are truncated.
func Encode(name string) Block {
	var b Block
	copy(b.Name[:NameSize-1], name)
	return b
}

// InterfaceName returns the name stored in the block.
func (b *Block) InterfaceName() string {
	return cstring(b.Name[:])
}

// Kind selects the request code and the valid union member.
type Kind int

const (
	KindFlags Kind = iota
	KindHardwareAddress
	KindMTU
	KindMetric
	KindMap
	KindTxQueueLen
	KindDriverData
	KindLinkValue
)

var kindNames = map[Kind]string{
	KindFlags:           "flags",
	KindHardwareAddress: "hardware address",
	KindMTU:             "mtu",
	KindMetric:          "metric",
	KindMap:             "device map",
	KindTxQueueLen:      "tx queue length",
	KindDriverData:      "driver info",
	KindLinkValue:       "link state",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ethtool sub-commands carried in the first word of the pointed-to record
const (
	ethtoolGDrvInfo = 0x00000003
	ethtoolGLink    = 0x0000000a
)

// ethtoolDrvInfo is struct ethtool_drvinfo.
type ethtoolDrvInfo struct {
	Cmd         uint32
	Driver      [32]byte
	Version     [32]byte
	FwVersion   [32]byte
	BusInfo     [32]byte
	EromVersion [32]byte
	Reserved2   [12]byte
	NPrivFlags  uint32
	NStats      uint32
	TestInfoLen uint32
	EedumpLen   uint32
	RegdumpLen  uint32
}

// ethtoolValue is struct ethtool_value.
type ethtoolValue struct {
	Cmd  uint32
	Data uint32
}

// Request is one query: a block plus, for ethtool kinds, the record the
// union points at.
type Request struct {
	kind Kind
	blk  Block
	drv  *ethtoolDrvInfo
	val  *ethtoolValue
}

func newRequest(kind Kind, name string) *Request {
	return &Request{kind: kind, blk: Encode(name)}
}

func NewFlags(name string) *Request           { return newRequest(KindFlags, name) }
func NewHardwareAddress(name string) *Request { return newRequest(KindHardwareAddress, name) }
func NewMTU(name string) *Request             { return newRequest(KindMTU, name) }
func NewMetric(name string) *Request          { return newRequest(KindMetric, name) }
func NewMap(name string) *Request             { return newRequest(KindMap, name) }
func NewTxQueueLen(name string) *Request      { return newRequest(KindTxQueueLen, name) }

// NewDriverData queries ETHTOOL_GDRVINFO.
func NewDriverData(name string) *Request {
	r := newRequest(KindDriverData, name)
	r.drv = &ethtoolDrvInfo{Cmd: ethtoolGDrvInfo}
	return r
}

// NewLinkValue queries ETHTOOL_GLINK.
func NewLinkValue(name string) *Request {
	r := newRequest(KindLinkValue, name)
	r.val = &ethtoolValue{Cmd: ethtoolGLink}
	return r
}

func (r *Request) Kind() Kind { return r.kind }

// Raw exposes the request block the ioctl reads the name from and writes
// the response into.
func (r *Request) Raw() *Block { return &r.blk }

// Name returns the interface name the request was encoded for.
func (r *Request) Name() string { return r.blk.InterfaceName() }

// Code returns the platform request code for the kind.
func (r *Request) Code() (uint, bool) {
	code, ok := requestCodes[r.kind]
	return code, ok
}

// Flags decodes ifr_flags.
func (r *Request) Flags() Flags {
	if r.kind != KindFlags {
		return 0
	}
	return FlagsFromRaw(int16(binary.NativeEndian.Uint16(r.blk.Union[0:2])))
}

// HardwareAddr decodes the first six bytes of ifr_hwaddr.sa_data.
func (r *Request) HardwareAddr() net.HardwareAddr {
	if r.kind != KindHardwareAddress {
		return nil
	}
	mac := make(net.HardwareAddr, 6)
	copy(mac, r.blk.Union[2:8])
	return mac
}

func (r *Request) MTU() int {
	if r.kind != KindMTU {
		return 0
	}
	return r.int32At0()
}

// Metric returns ifr_metric as reported; zero is not normalised here.
func (r *Request) Metric() int {
	if r.kind != KindMetric {
		return 0
	}
	return r.int32At0()
}

func (r *Request) TxQueueLen() int {
	if r.kind != KindTxQueueLen {
		return 0
	}
	return r.int32At0()
}

// Map decodes struct ifmap. mem_start and mem_end are unsigned longs.
func (r *Request) Map() types.IfMap {
	u := r.blk.Union[:]
	if r.kind != KindMap || len(u) < 2*wordSize+5 {
		return types.IfMap{}
	}
	m := types.IfMap{
		MemStart: readWord(u[0:wordSize]),
		MemEnd:   readWord(u[wordSize : 2*wordSize]),
	}
	o := 2 * wordSize
	m.BaseAddr = binary.NativeEndian.Uint16(u[o : o+2])
	m.IRQ = u[o+2]
	m.DMA = u[o+3]
	m.Port = u[o+4]
	return m
}

// DriverInfo decodes the ethtool_drvinfo record.
func (r *Request) DriverInfo() types.DriverInfo {
	if r.kind != KindDriverData || r.drv == nil {
		return types.DriverInfo{}
	}
	return types.DriverInfo{
		Driver:          cstring(r.drv.Driver[:]),
		Version:         cstring(r.drv.Version[:]),
		FirmwareVersion: cstring(r.drv.FwVersion[:]),
		BusInfo:         cstring(r.drv.BusInfo[:]),
	}
}

// LinkUp decodes the ETHTOOL_GLINK result.
func (r *Request) LinkUp() bool {
	if r.kind != KindLinkValue || r.val == nil {
		return false
	}
	return r.val.Data != 0
}

func (r *Request) int32At0() int {
	return int(int32(binary.NativeEndian.Uint32(r.blk.Union[0:4])))
}

func readWord(b []byte) uint64 {
	if len(b) == 8 {
		return binary.NativeEndian.Uint64(b)
	}
	return uint64(binary.NativeEndian.Uint32(b))
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
