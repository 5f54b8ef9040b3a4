package pci

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"example.com/ifshow/pkg"
)

// busInfoPrefix is prepended by lshw to PCI bus info
const busInfoPrefix = "pci@"

// Locator recovers the bus address of an interface when its bus-info
// string is not usable.
type Locator interface {
	Locate(ifname string) (string, bool)
}

// SysfsLocator reads <Root>/class/net/<if>/device.
type SysfsLocator struct {
	Root string
}

// Locate tries the PCI_SLOT_NAME line of the device uevent file, then the
// final element of the device symlink.
func (l SysfsLocator) Locate(ifname string) (string, bool) {
	devicePath := filepath.Join(l.Root, "class", "net", ifname, "device")

	if f, err := os.Open(filepath.Join(devicePath, "uevent")); err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if slot, ok := strings.CutPrefix(scanner.Text(), "PCI_SLOT_NAME="); ok {
				if addr, ok := ParseAddress(slot); ok {
					return addr, true
				}
			}
		}
	}

	if target, err := os.Readlink(devicePath); err == nil {
		if addr, ok := ParseAddress(filepath.Base(target)); ok {
			return addr, true
		}
	}

	return "", false
}

// FindPCIInfo returns the registry entry of the device behind ifname.
// An empty busInfo yields nothing without consulting the registry.
// locator may be nil.
func FindPCIInfo(ifname, busInfo string, registry Lookup, locator Locator) (DeviceInfo, bool) {
	if busInfo == "" {
		return DeviceInfo{}, false
	}

	addr, ok := ParseAddress(strings.TrimPrefix(busInfo, busInfoPrefix))
	if !ok && locator != nil {
		addr, ok = locator.Locate(ifname)
	}
	if !ok {
		pkg.ForInterface(ifname).Debugf("no PCI address in bus info %q", busInfo)
		return DeviceInfo{}, false
	}

	if registry == nil {
		return DeviceInfo{}, false
	}
	d, found := registry.Lookup(addr)
	if !found {
		pkg.ForInterface(ifname).WithField("pci", addr).Debug("device not in registry")
	}
	return d, found
}
