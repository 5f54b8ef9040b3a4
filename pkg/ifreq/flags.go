package ifreq

import (
	"strings"

	"github.com/pkg/errors"
)

// Flags is the 16-bit interface flag word.
type Flags uint16

const (
	FlagUp Flags = 1 << iota
	FlagBroadcast
	FlagDebug
	FlagLoopback
	FlagPointToPoint
	FlagNoTrailers
	FlagRunning
	FlagNoARP
	FlagPromisc
	FlagAllMulti
	FlagMaster
	FlagSlave
	FlagMulticast
	FlagPortSel
	FlagAutoMedia
	FlagDynamic
)

// flagNames is indexed by bit position.
var flagNames = [16]string{
	"UP",
	"BROADCAST",
	"DEBUG",
	"LOOPBACK",
	"PTP",
	"NOTRAILERS",
	"RUNNING",
	"NOARP",
	"PROMISC",
	"ALLMULTI",
	"MASTER",
	"SLAVE",
	"MULTICAST",
	"PORTSEL",
	"AUTOMEDIA",
	"DYNAMIC",
}

// FlagsFromRaw converts the signed short found in ifr_flags. DYNAMIC lives
// in the sign bit so the value is widened as unsigned.
func FlagsFromRaw(raw int16) Flags {
	return Flags(uint16(raw))
}

// Has reports whether every bit of x is set
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Names lists the set bits in canonical order.
func (f Flags) Names() []string {
	var names []string
	for i, name := range flagNames {
		if f&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return names
}

func (f Flags) String() string {
	return strings.Join(f.Names(), " ")
}

// ParseFlags is the inverse of Flags.String.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, tok := range strings.Fields(s) {
		bit := -1
		for i, name := range flagNames {
			if name == tok {
				bit = i
				break
			}
		}
		if bit < 0 {
			return 0, errors.Errorf("unknown interface flag %q", tok)
		}
		f |= 1 << uint(bit)
	}
	return f, nil
}
