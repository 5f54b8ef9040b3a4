package pci

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"example.com/ifshow/pkg"
)

// SysfsScanner enumerates PCI functions under <Root>/bus/pci/devices.
type SysfsScanner struct {
	Root  string
	Names *Names
}

// Scan returns every network or wireless class function with names
// resolved.
func (s *SysfsScanner) Scan() ([]DeviceInfo, error) {
	devicesPath := filepath.Join(s.Root, "bus", "pci", "devices")
	entries, err := os.ReadDir(devicesPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sysfs PCI devices")
	}

	var devices []DeviceInfo
	for _, entry := range entries {
		if !isPciAddress(entry.Name()) {
			continue
		}

		device, err := s.parseDevice(filepath.Join(devicesPath, entry.Name()), entry.Name())
		if err != nil {
			pkg.WithFields(logrus.Fields{
				"device": entry.Name(),
				"error":  err.Error(),
			}).Debug("skipping PCI device")
			continue
		}
		if device.Class == nil || !IsNetworkClass(*device.Class) {
			continue
		}
		devices = append(devices, device)
	}

	return devices, nil
}

// BuildRegistry scans sysfs and indexes the result.
func (s *SysfsScanner) BuildRegistry() (*Registry, error) {
	devices, err := s.Scan()
	if err != nil {
		return nil, err
	}
	return NewRegistry(devices), nil
}

func (s *SysfsScanner) parseDevice(devicePath, addr string) (DeviceInfo, error) {
	var device DeviceInfo

	vendor, err := readHex(devicePath, "vendor", 16)
	if err != nil {
		return device, errors.Wrap(err, "failed to read vendor id")
	}
	product, err := readHex(devicePath, "device", 16)
	if err != nil {
		return device, errors.Wrap(err, "failed to read device id")
	}
	device.VendorID = uint16(vendor)
	device.DeviceID = uint16(product)

	// class is 0xCCSSPP
	class, err := readHex(devicePath, "class", 32)
	if err != nil {
		return device, errors.Wrap(err, "failed to read class")
	}
	device.Class = ptr(uint8(class >> 16))
	device.Subclass = ptr(uint8(class >> 8))

	if v, err := readHex(devicePath, "subsystem_vendor", 16); err == nil {
		device.SubsystemVendor = ptr(uint16(v))
	}
	if v, err := readHex(devicePath, "subsystem_device", 16); err == nil {
		device.SubsystemDevice = ptr(uint16(v))
	}
	if v, err := readHex(devicePath, "revision", 8); err == nil {
		device.Revision = ptr(uint8(v))
	}

	if bus, dev, fn, ok := splitAddress(addr); ok {
		device.Bus = ptr(bus)
		device.Device = ptr(dev)
		device.Function = ptr(fn)
	}

	if link, err := os.Readlink(filepath.Join(devicePath, "driver")); err == nil {
		device.Driver = ptr(filepath.Base(link))
	}

	if v, err := readInt(devicePath, "numa_node", 32); err == nil {
		device.NUMANode = ptr(int32(v))
	}
	if v, err := readInt(devicePath, "irq", 64); err == nil && v >= 0 {
		device.IRQ = ptr(uint32(v))
	}

	s.Names.Resolve(&device)
	return device, nil
}

// isPciAddress checks for the dddd:bb:dd.f form used by sysfs.
func isPciAddress(name string) bool {
	if len(name) != 12 {
		return false
	}
	if name[4] != ':' || name[7] != ':' || name[10] != '.' {
		return false
	}
	for i, c := range name {
		if i == 4 || i == 7 || i == 10 {
			continue
		}
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func readAttr(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readHex(dir, name string, bitSize int) (uint64, error) {
	s, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, bitSize)
}

func readInt(dir, name string, bitSize int) (int64, error) {
	s, err := readAttr(dir, name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, bitSize)
}
