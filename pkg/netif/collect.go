package netif

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/pci"
	"example.com/ifshow/pkg/types"
)

// Record is the reconciled snapshot of one interface. Optional parts are
// nil when no source could provide them.
type Record struct {
	Name       string               `json:"name"`
	Flags      []string             `json:"flags"`
	Up         bool                 `json:"up"`
	Running    bool                 `json:"running"`
	Link       *bool                `json:"link,omitempty"`
	MAC        string               `json:"mac,omitempty"`
	MTU        int                  `json:"mtu,omitempty"`
	Metric     int                  `json:"metric,omitempty"`
	TxQueueLen int                  `json:"tx_queue_len,omitempty"`
	Map        *types.IfMap         `json:"map,omitempty"`
	Inet       []types.Inet4Addr    `json:"inet,omitempty"`
	Inet6      []types.Inet6Addr    `json:"inet6,omitempty"`
	Driver     *types.DriverInfo    `json:"driver,omitempty"`
	Stats      types.Stats          `json:"stats"`
	Device     *pci.DeviceInfo      `json:"device,omitempty"`
	Wireless   *types.WirelessStats `json:"wireless,omitempty"`
	Interrupts []uint64             `json:"interrupts,omitempty"`
	Ethtool    *types.EthtoolInfo   `json:"ethtool,omitempty"`
}

// Collector snapshots interfaces concurrently.
type Collector struct {
	Host *Host
	// Parallelism bounds the number of interfaces queried at once; values
	// below 1 mean one per CPU.
	Parallelism int
	// Detailed adds wireless, interrupt and ethtool data.
	Detailed bool
}

// Collect snapshots names, or every interface when names is empty. The
// result follows the order of names, or of the enumeration. Unknown names
// and interfaces whose control channel cannot be opened are logged and
// skipped; only cancellation of ctx fails the run.
func (c *Collector) Collect(ctx context.Context, names []string) ([]Record, error) {
	entries, err := c.Host.Entries(ctx)
	if err != nil {
		return nil, err
	}

	selected := entries
	if len(names) > 0 {
		selected = make([]Entry, 0, len(names))
		for _, name := range names {
			e, ok := findEntry(entries, name)
			if !ok {
				pkg.ForInterface(name).Warn("no such interface")
				continue
			}
			selected = append(selected, e)
		}
	}

	c.Host.plat.Prime(ctx)

	limit := c.Parallelism
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	records := make([]Record, len(selected))
	opened := make([]bool, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, e := range selected {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ifc, err := c.Host.openEntry(e, true)
			if err != nil {
				// only this interface is lost
				pkg.ForInterface(e.Name).WithError(err).Debug("control channel unavailable")
				return nil
			}
			defer ifc.Close()
			records[i] = c.snapshot(gctx, ifc)
			opened[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := records[:0]
	for i, rec := range records {
		if opened[i] {
			out = append(out, rec)
		}
	}
	return out, nil
}

// snapshot reads every property of ifc. A failing property is left empty.
func (c *Collector) snapshot(ctx context.Context, ifc *Interface) Record {
	log := pkg.ForInterface(ifc.Name())
	rec := Record{
		Name:    ifc.Name(),
		Up:      ifc.IsUp(),
		Running: ifc.IsRunning(),
		MAC:     ifc.MAC(),
		Inet:    ifc.InetAddrs(),
		Inet6:   ifc.Inet6Addrs(),
		Stats:   ifc.Stats(ctx),
	}
	if f, err := ifc.Flags(); err == nil {
		rec.Flags = f.Names()
	}

	if link, err := ifc.Link(ctx); err == nil {
		rec.Link = &link
	} else if runtime.GOOS != "linux" {
		running := rec.Running
		rec.Link = &running
	}

	if mtu, err := ifc.MTU(); err == nil {
		rec.MTU = mtu
	} else {
		log.WithError(err).Debug("MTU unavailable")
	}
	if metric, err := ifc.Metric(); err == nil {
		rec.Metric = metric
	}
	if qlen, err := ifc.TxQueueLen(); err == nil {
		rec.TxQueueLen = qlen
	}
	if m, err := ifc.Map(); err == nil && m != (types.IfMap{}) {
		rec.Map = &m
	}

	info, err := ifc.DriverInfo(ctx)
	if err == nil {
		rec.Driver = &info
	}
	if dev, ok := ifc.plat.Device(ctx, ifc.Name(), info.BusInfo); ok {
		rec.Device = &dev
	}

	if !c.Detailed {
		return rec
	}
	if w, err := ifc.Wireless(); err == nil {
		rec.Wireless = &w
	}
	if rec.Map != nil {
		if counters, err := ifc.Interrupts(); err == nil {
			rec.Interrupts = counters
		}
	}
	if e, err := ifc.Ethtool(ctx); err == nil {
		rec.Ethtool = &e
	} else {
		log.WithError(err).Debug("ethtool data unavailable")
	}
	return rec
}
