package pci

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"example.com/ifshow/pkg"
)

// DefaultIDPaths are the usual locations of the pci.ids database.
var DefaultIDPaths = []string{
	"/usr/share/hwdata/pci.ids",
	"/usr/share/pci.ids",
	"/usr/share/misc/pci.ids",
}

// IDDatabase holds vendor and device names parsed from pci.ids
type IDDatabase struct {
	vendors map[uint16]string
	devices map[deviceKey]string
}

func (db *IDDatabase) Vendor(id uint16) (string, bool) {
	name, ok := db.vendors[id]
	return name, ok
}

func (db *IDDatabase) Device(vendor, device uint16) (string, bool) {
	name, ok := db.devices[deviceKey{vendor, device}]
	return name, ok
}

// Len returns the number of vendors known to the database
func (db *IDDatabase) Len() int {
	return len(db.vendors)
}

// LoadIDDatabase parses the first pci.ids found in paths. It returns nil
// without error when none exists.
func LoadIDDatabase(paths []string) (*IDDatabase, error) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		db, err := ParseIDDatabase(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
		pkg.WithField("path", path).Debugf("loaded %d PCI vendors", db.Len())
		return db, nil
	}
	return nil, nil
}

// ParseIDDatabase reads the pci.ids format. Subsystem lines and the
// class section at the end of the file are skipped.
func ParseIDDatabase(r io.Reader) (*IDDatabase, error) {
	db := &IDDatabase{
		vendors: make(map[uint16]string),
		devices: make(map[deviceKey]string),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var vendor uint16
	inVendor := false

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "\t\t"):
			continue
		case strings.HasPrefix(line, "\t"):
			if !inVendor {
				continue
			}
			id, name, ok := splitIDLine(line[1:])
			if ok {
				db.devices[deviceKey{vendor, id}] = name
			}
		case strings.HasPrefix(line, "C "):
			// device classes follow; nothing more to read
			return db, nil
		default:
			id, name, ok := splitIDLine(line)
			inVendor = ok
			if ok {
				vendor = id
				db.vendors[id] = name
			}
		}
	}

	return db, scanner.Err()
}

func splitIDLine(line string) (uint16, string, bool) {
	if len(line) < 6 {
		return 0, "", false
	}
	id, err := strconv.ParseUint(line[:4], 16, 16)
	if err != nil {
		return 0, "", false
	}
	name := strings.TrimSpace(line[4:])
	if name == "" {
		return 0, "", false
	}
	return uint16(id), name, true
}
