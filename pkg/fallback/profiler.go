package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"example.com/ifshow/pkg/types"
)

type profilerOutput struct {
	Network []profilerInterface `json:"SPNetworkDataType"`
}

type profilerInterface struct {
	Name      string  `json:"_name"`
	Interface *string `json:"interface"`
	Hardware  *string `json:"hardware"`
	Type      *string `json:"type"`
}

// ProfilerInventory memoizes `system_profiler SPNetworkDataType -json`.
func ProfilerInventory(run Runner, path string) *Inventory {
	return NewInventory(func(ctx context.Context) (map[string]InventoryEntry, error) {
		out, err := run(ctx, path, "SPNetworkDataType", "-json")
		if err != nil {
			return nil, err
		}
		return ParseSystemProfiler(bytes.NewReader(out))
	})
}

// ParseSystemProfiler indexes network services by BSD interface name.
// system_profiler reports neither driver version nor bus location.
func ParseSystemProfiler(r io.Reader) (map[string]InventoryEntry, error) {
	var out profilerOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to parse system_profiler output")
	}

	entries := make(map[string]InventoryEntry)
	for _, iface := range out.Network {
		if iface.Interface == nil || *iface.Interface == "" {
			continue
		}
		driver := "Unknown"
		switch {
		case iface.Hardware != nil:
			driver = *iface.Hardware
		case iface.Type != nil:
			driver = *iface.Type
		}
		entries[*iface.Interface] = InventoryEntry{
			Name: *iface.Interface,
			Driver: types.DriverInfo{
				Driver:  driver,
				Version: "N/A",
				BusInfo: "N/A",
			},
			Product: iface.Name,
		}
	}
	return entries, nil
}
