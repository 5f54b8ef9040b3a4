package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"example.com/ifshow/pkg/types"
)

// lshwNode is one element of `lshw -class network -json`.
type lshwNode struct {
	BusInfo       string          `json:"businfo"`
	LogicalName   json.RawMessage `json:"logicalname"`
	Vendor        string          `json:"vendor"`
	Product       string          `json:"product"`
	Configuration map[string]any  `json:"configuration"`
}

// LshwInventory memoizes `lshw -class network -json`.
func LshwInventory(run Runner, path string) *Inventory {
	return NewInventory(func(ctx context.Context) (map[string]InventoryEntry, error) {
		out, err := run(ctx, path, "-class", "network", "-json")
		if err != nil {
			return nil, err
		}
		return ParseLshw(bytes.NewReader(out))
	})
}

// ParseLshw indexes lshw network nodes by logical name. Recent lshw prints
// a JSON array, older releases print bare objects one after another.
func ParseLshw(r io.Reader) (map[string]InventoryEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var nodes []lshwNode
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, errors.Wrap(err, "failed to parse lshw output")
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		for {
			var n lshwNode
			err := dec.Decode(&n)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse lshw output")
			}
			nodes = append(nodes, n)
		}
	}

	entries := make(map[string]InventoryEntry)
	for _, n := range nodes {
		for _, name := range logicalNames(n.LogicalName) {
			entries[name] = InventoryEntry{
				Name: name,
				Driver: types.DriverInfo{
					Driver:          n.config("driver"),
					Version:         n.config("driverversion"),
					FirmwareVersion: n.config("firmware"),
					BusInfo:         n.BusInfo,
				},
				Vendor:  n.Vendor,
				Product: n.Product,
			}
		}
	}
	return entries, nil
}

func (n lshwNode) config(key string) string {
	v, _ := n.Configuration[key].(string)
	return v
}

// logicalname is a string, or a list of strings for bridged devices.
func logicalNames(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}
