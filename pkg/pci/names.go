package pci

import (
	"github.com/siderolabs/go-pcidb/pkg/pcidb"
)

var vendorNames = map[uint16]string{
	0x8086: "Intel Corporation",
	0x10ec: "Realtek Semiconductor Co., Ltd.",
	0x14e4: "Broadcom Inc.",
	0x1969: "Qualcomm Atheros",
	0x168c: "Qualcomm Atheros",
	0x10de: "NVIDIA Corporation",
	0x1022: "Advanced Micro Devices, Inc. [AMD]",
	0x1106: "VIA Technologies, Inc.",
	0x11ab: "Marvell Technology Group Ltd.",
	0x13f0: "Sundance Technology Inc. / IC Plus Corp",
	0x1737: "Linksys",
	0x1814: "Ralink corp.",
	0x1b21: "ASMedia Technology Inc.",
	0x8139: "Realtek",
	0x10b7: "3Com Corporation",
	0x1186: "D-Link System Inc",
	0x1fc9: "Tehuti Networks Ltd.",
	0x1d6a: "Aquantia Corp.",
	0x1425: "Chelsio Communications Inc",
	0x15b3: "Mellanox Technologies",
}

type deviceKey struct {
	vendor, device uint16
}

var deviceNames = map[deviceKey]string{
	{0x8086, 0x100e}: "82540EM Gigabit Ethernet Controller",
	{0x8086, 0x100f}: "82545EM Gigabit Ethernet Controller",
	{0x8086, 0x10d3}: "82574L Gigabit Network Connection",
	{0x8086, 0x1533}: "I210 Gigabit Network Connection",
	{0x8086, 0x1539}: "I211 Gigabit Network Connection",
	{0x8086, 0x15b7}: "Ethernet Connection",
	{0x8086, 0x15b8}: "Ethernet Connection",
	{0x10ec, 0x8168}: "RTL8111/8168/8411 PCI Express Gigabit Ethernet Controller",
	{0x10ec, 0x8169}: "RTL8169 PCI Gigabit Ethernet Controller",
	{0x10ec, 0x8136}: "RTL810xE PCI Express Fast Ethernet controller",
	{0x14e4, 0x1677}: "NetXtreme BCM5751 Gigabit Ethernet",
	{0x14e4, 0x165f}: "NetXtreme BCM5720 Gigabit Ethernet",
	{0x14e4, 0x4331}: "BCM4331 802.11a/b/g/n",
}

// Names resolves vendor and device names: built-in table first, then a
// pci.ids file when one was loaded, then the database embedded in pcidb.
type Names struct {
	db *IDDatabase
}

// NewNames returns a resolver; db may be nil.
func NewNames(db *IDDatabase) *Names {
	return &Names{db: db}
}

func (n *Names) Vendor(id uint16) (string, bool) {
	if name, ok := vendorNames[id]; ok {
		return name, true
	}
	if n != nil && n.db != nil {
		if name, ok := n.db.Vendor(id); ok {
			return name, true
		}
	}
	return pcidb.LookupVendor(id)
}

func (n *Names) Device(vendor, device uint16) (string, bool) {
	if name, ok := deviceNames[deviceKey{vendor, device}]; ok {
		return name, true
	}
	if n != nil && n.db != nil {
		if name, ok := n.db.Device(vendor, device); ok {
			return name, true
		}
	}
	return pcidb.LookupProduct(vendor, device)
}

// Resolve fills the name fields of d that are still empty.
func (n *Names) Resolve(d *DeviceInfo) {
	if d.VendorName == nil {
		if name, ok := n.Vendor(d.VendorID); ok {
			d.VendorName = ptr(name)
		}
	}
	if d.DeviceName == nil {
		if name, ok := n.Device(d.VendorID, d.DeviceID); ok {
			d.DeviceName = ptr(name)
		}
	}
}
