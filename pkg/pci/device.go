// Package pci correlates network interfaces with the PCI devices behind
// them.
package pci

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceInfo describes one PCI function. Optional attributes are nil when
// the source did not provide them.
type DeviceInfo struct {
	VendorID        uint16  `json:"vendor_id"`
	DeviceID        uint16  `json:"device_id"`
	VendorName      *string `json:"vendor_name,omitempty"`
	DeviceName      *string `json:"device_name,omitempty"`
	SubsystemVendor *uint16 `json:"subsystem_vendor,omitempty"`
	SubsystemDevice *uint16 `json:"subsystem_device,omitempty"`
	Class           *uint8  `json:"class,omitempty"`
	Subclass        *uint8  `json:"subclass,omitempty"`
	Revision        *uint8  `json:"revision,omitempty"`
	Bus             *uint8  `json:"bus,omitempty"`
	Device          *uint8  `json:"device,omitempty"`
	Function        *uint8  `json:"function,omitempty"`
	Driver          *string `json:"driver,omitempty"`
	NUMANode        *int32  `json:"numa_node,omitempty"`
	IRQ             *uint32 `json:"irq,omitempty"`
}

// Address returns the canonical bb:dd.f form. It is defined only when bus,
// device and function are all known.
func (d DeviceInfo) Address() (string, bool) {
	if d.Bus == nil || d.Device == nil || d.Function == nil {
		return "", false
	}
	return FormatAddress(*d.Bus, *d.Device, *d.Function), true
}

// ClassName renders the class pair, or "Unknown" without a class.
func (d DeviceInfo) ClassName() string {
	if d.Class == nil {
		return "Unknown"
	}
	var sub uint8
	if d.Subclass != nil {
		sub = *d.Subclass
	}
	return FormatClass(*d.Class, sub)
}

// FormatAddress is the registry key format shared by every producer.
func FormatAddress(bus, dev, fn uint8) string {
	return fmt.Sprintf("%02x:%02x.%d", bus, dev, fn)
}

// ParseAddress extracts the canonical bus address from strings such as
// "0000:03:00.0" or "03:00.0". The last colon group must be dev.func and
// the one before it the bus.
func ParseAddress(s string) (string, bool) {
	bus, dev, fn, ok := splitAddress(s)
	if !ok {
		return "", false
	}
	return FormatAddress(bus, dev, fn), true
}

func splitAddress(s string) (bus, dev, fn uint8, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, 0, 0, false
	}
	devfn := strings.Split(parts[len(parts)-1], ".")
	if len(devfn) != 2 {
		return 0, 0, 0, false
	}
	b, err := strconv.ParseUint(parts[len(parts)-2], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	d, err := strconv.ParseUint(devfn[0], 16, 8)
	if err != nil {
		return 0, 0, 0, false
	}
	f, err := strconv.ParseUint(devfn[1], 10, 8)
	if err != nil || f > 7 {
		return 0, 0, 0, false
	}
	return uint8(b), uint8(d), uint8(f), true
}

// FormatClass maps a class/subclass pair to a label.
func FormatClass(class, subclass uint8) string {
	switch {
	case class == ClassNetwork && subclass == 0x00:
		return "Ethernet controller"
	case class == ClassNetwork && subclass == 0x80:
		return "Network controller"
	case class == ClassWireless && subclass == 0x11:
		return "802.1a controller"
	case class == ClassWireless && subclass == 0x20:
		return "802.11b controller"
	case class == ClassWireless && subclass == 0x80:
		return "Wireless controller"
	}
	return fmt.Sprintf("Class %02x:%02x", class, subclass)
}

// PCI base classes kept in the registry
const (
	ClassNetwork  uint8 = 0x02
	ClassWireless uint8 = 0x0d
)

// IsNetworkClass reports whether a base class belongs in the registry.
func IsNetworkClass(class uint8) bool {
	return class == ClassNetwork || class == ClassWireless
}

func ptr[T any](v T) *T {
	return &v
}
