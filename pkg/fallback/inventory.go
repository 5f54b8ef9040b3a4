package fallback

import (
	"context"
	"sync"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/types"
)

// InventoryEntry is what a system inventory utility knows about one
// interface.
type InventoryEntry struct {
	Name    string
	Driver  types.DriverInfo
	Vendor  string
	Product string
}

// LoadFunc produces the name-indexed inventory.
type LoadFunc func(ctx context.Context) (map[string]InventoryEntry, error)

// Inventory memoizes a LoadFunc. The loader runs at most once per
// Inventory, a failed load included; later calls see the same result.
type Inventory struct {
	once    sync.Once
	load    LoadFunc
	entries map[string]InventoryEntry
	err     error
}

func NewInventory(load LoadFunc) *Inventory {
	return &Inventory{load: load}
}

// Init runs the loader if it has not run yet and returns its error.
func (inv *Inventory) Init(ctx context.Context) error {
	inv.once.Do(func() {
		inv.entries, inv.err = inv.load(ctx)
		if inv.err != nil {
			pkg.WithError(inv.err).Debug("inventory utility unavailable")
		}
	})
	return inv.err
}

// Lookup returns the entry for name.
func (inv *Inventory) Lookup(ctx context.Context, name string) (InventoryEntry, bool) {
	if inv == nil {
		return InventoryEntry{}, false
	}
	if err := inv.Init(ctx); err != nil {
		return InventoryEntry{}, false
	}
	e, ok := inv.entries[name]
	return e, ok
}
