package pci

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleIDs = `#
#	List of PCI ID's
#
8086  Intel Corporation
	1572  Ethernet Controller X710 for 10GbE SFP+
		8086 0001  Ethernet Converged Network Adapter X710-4
	37d0  Ethernet Connection X722 for 10GbE SFP+
1d0f  Amazon.com, Inc.
	ec20  Elastic Network Adapter (ENA)
C 02  Network controller
	00  Ethernet controller
`

func TestParseIDDatabase(t *testing.T) {
	db, err := ParseIDDatabase(strings.NewReader(sampleIDs))
	if err != nil {
		t.Fatalf("ParseIDDatabase returned error: %v", err)
	}

	tests := []struct {
		vendor, device uint16
		want           string
		ok             bool
	}{
		{0x8086, 0x1572, "Ethernet Controller X710 for 10GbE SFP+", true},
		{0x8086, 0x37d0, "Ethernet Connection X722 for 10GbE SFP+", true},
		{0x1d0f, 0xec20, "Elastic Network Adapter (ENA)", true},
		{0x1d0f, 0x0001, "", false},
	}
	for _, tt := range tests {
		got, ok := db.Device(tt.vendor, tt.device)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Device(%04x, %04x) = %q, %v; want %q, %v", tt.vendor, tt.device, got, ok, tt.want, tt.ok)
		}
	}

	if name, _ := db.Vendor(0x1d0f); name != "Amazon.com, Inc." {
		t.Errorf("Vendor(1d0f) = %q", name)
	}
	if db.Len() != 2 {
		t.Errorf("expected 2 vendors, got %d", db.Len())
	}
}

func TestLoadIDDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pci.ids")
	if err := os.WriteFile(path, []byte(sampleIDs), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := LoadIDDatabase([]string{filepath.Join(dir, "missing.ids"), path})
	if err != nil {
		t.Fatalf("LoadIDDatabase returned error: %v", err)
	}
	if db == nil {
		t.Fatal("expected database to be loaded")
	}

	// the database sits behind the static table
	names := NewNames(db)
	if got, _ := names.Device(0x1d0f, 0xec20); got != "Elastic Network Adapter (ENA)" {
		t.Errorf("Device(1d0f, ec20) = %q", got)
	}
	if got, _ := names.Device(0x8086, 0x100e); got != "82540EM Gigabit Ethernet Controller" {
		t.Errorf("Device(8086, 100e) = %q", got)
	}

	db, err = LoadIDDatabase([]string{filepath.Join(dir, "missing.ids")})
	if err != nil || db != nil {
		t.Errorf("expected nil database without error, got %v, %v", db, err)
	}
}
