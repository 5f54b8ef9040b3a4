package fallback

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// RegistryRecord is what the I/O Registry says about the PCI function
// behind an interface. Keys that were absent or malformed stay nil.
type RegistryRecord struct {
	VendorID          *uint16
	DeviceID          *uint16
	SubsystemVendorID *uint16
	SubsystemID       *uint16
	Revision          *uint8
	Class             *uint8
	Subclass          *uint8
	Name              *string
	Device            *uint8
	Function          *uint8
}

// Empty reports whether no key was recovered
func (r RegistryRecord) Empty() bool {
	return r == RegistryRecord{}
}

// QueryIORegistry runs ioreg for the subtree of ifname, with the tree
// location so the parent PCI device properties are printed too.
func QueryIORegistry(ctx context.Context, run Runner, path, ifname string) (RegistryRecord, error) {
	out, err := run(ctx, path, "-l", "-w0", "-t", "-r", "-n", ifname)
	if err != nil {
		return RegistryRecord{}, err
	}
	return ParseIORegistry(bytes.NewReader(out)), nil
}

// ParseIORegistry scans `ioreg -l` text. Each key takes the first
// well-formed value found; data values such as <86800000> are little
// endian.
func ParseIORegistry(r io.Reader) RegistryRecord {
	var rec RegistryRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if rec.VendorID == nil {
			if v, ok := dataValue(line, "vendor-id"); ok {
				rec.VendorID = ptrTo(uint16(v))
			}
		}
		if rec.DeviceID == nil {
			if v, ok := dataValue(line, "device-id"); ok {
				rec.DeviceID = ptrTo(uint16(v))
			}
		}
		if rec.SubsystemVendorID == nil {
			if v, ok := dataValue(line, "subsystem-vendor-id"); ok {
				rec.SubsystemVendorID = ptrTo(uint16(v))
			}
		}
		if rec.SubsystemID == nil {
			if v, ok := dataValue(line, "subsystem-id"); ok {
				rec.SubsystemID = ptrTo(uint16(v))
			}
		}
		if rec.Revision == nil {
			if v, ok := dataValue(line, "revision-id"); ok {
				rec.Revision = ptrTo(uint8(v))
			}
		}
		if rec.Class == nil {
			// 0x00CCSSPP
			if v, ok := dataValue(line, "class-code"); ok {
				rec.Class = ptrTo(uint8(v >> 16))
				rec.Subclass = ptrTo(uint8(v >> 8))
			}
		}
		if rec.Name == nil {
			if s, ok := stringValue(line, "IOName"); ok {
				rec.Name = ptrTo(s)
			}
		}
		if rec.Device == nil {
			if s, ok := stringValue(line, "location"); ok {
				if dev, fn, ok := parseLocation(s); ok {
					rec.Device = ptrTo(dev)
					rec.Function = ptrTo(fn)
				}
			}
		}
	}
	return rec
}

// rawValue returns the text after `"key" =` on line.
func rawValue(line, key string) (string, bool) {
	i := strings.Index(line, `"`+key+`"`)
	if i < 0 {
		return "", false
	}
	rest := strings.TrimSpace(line[i+len(key)+2:])
	rest, ok := strings.CutPrefix(rest, "=")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func dataValue(line, key string) (uint32, bool) {
	v, ok := rawValue(line, key)
	if !ok || !strings.HasPrefix(v, "<") {
		return 0, false
	}
	end := strings.Index(v, ">")
	if end < 0 {
		return 0, false
	}
	b, err := hex.DecodeString(v[1:end])
	if err != nil || len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	var n uint32
	for i := len(b) - 1; i >= 0; i-- {
		n = n<<8 | uint32(b[i])
	}
	return n, true
}

func stringValue(line, key string) (string, bool) {
	v, ok := rawValue(line, key)
	if !ok || !strings.HasPrefix(v, `"`) {
		return "", false
	}
	end := strings.Index(v[1:], `"`)
	if end < 0 {
		return "", false
	}
	return v[1 : end+1], true
}

// parseLocation reads the "dev,func" hex pair of a PCI location.
func parseLocation(s string) (uint8, uint8, bool) {
	dev, fn, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, false
	}
	d, err := strconv.ParseUint(dev, 16, 8)
	if err != nil || d > 0x1f {
		return 0, 0, false
	}
	f, err := strconv.ParseUint(fn, 16, 8)
	if err != nil || f > 7 {
		return 0, 0, false
	}
	return uint8(d), uint8(f), true
}

func ptrTo[T any](v T) *T {
	return &v
}
