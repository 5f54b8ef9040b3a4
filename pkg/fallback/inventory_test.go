package fallback

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryLoadsOnce(t *testing.T) {
	calls := 0
	inv := NewInventory(func(context.Context) (map[string]InventoryEntry, error) {
		calls++
		return map[string]InventoryEntry{"eth0": {Name: "eth0"}}, nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv.Lookup(ctx, "eth0")
		}()
	}
	wg.Wait()

	e, ok := inv.Lookup(ctx, "eth0")
	assert.True(t, ok)
	assert.Equal(t, "eth0", e.Name)
	_, ok = inv.Lookup(ctx, "eth1")
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestInventoryRemembersFailure(t *testing.T) {
	calls := 0
	boom := errors.New("lshw: not found")
	inv := NewInventory(func(context.Context) (map[string]InventoryEntry, error) {
		calls++
		return nil, boom
	})

	ctx := context.Background()
	assert.ErrorIs(t, inv.Init(ctx), boom)
	_, ok := inv.Lookup(ctx, "eth0")
	assert.False(t, ok)
	assert.ErrorIs(t, inv.Init(ctx), boom)
	assert.Equal(t, 1, calls)
}

func TestNilInventoryLookup(t *testing.T) {
	var inv *Inventory
	_, ok := inv.Lookup(context.Background(), "eth0")
	assert.False(t, ok)
}

func TestLshwInventory(t *testing.T) {
	fixture, err := os.ReadFile("testdata/lshw.json")
	require.NoError(t, err)

	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return fixture, nil
	}

	inv := LshwInventory(run, "lshw")
	e, ok := inv.Lookup(context.Background(), "enp9s0")
	require.True(t, ok)
	assert.Equal(t, []string{"lshw", "-class", "network", "-json"}, gotArgs)
	assert.Equal(t, "igb", e.Driver.Driver)
	assert.Equal(t, "pci@0000:09:00.0", e.Driver.BusInfo)
}
