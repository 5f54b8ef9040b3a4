package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"example.com/ifshow/internal/config"
	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/netif"
)

// selection holds the command line filters.
type selection struct {
	names   []string
	all     bool
	drivers []string
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	host := netif.NewHost(cfg.HostOptions())
	defer host.Close()

	sel := selection{names: args, all: showAll, drivers: showDrivers}
	records, err := snapshot(cmd.Context(), host, cfg, sel)
	if err != nil {
		return err
	}
	return render(os.Stdout, records, showFormat, showVerbose)
}

// snapshot collects and filters one view of the host.
func snapshot(ctx context.Context, host *netif.Host, cfg *config.Config, sel selection) ([]netif.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	collector := &netif.Collector{
		Host:        host,
		Parallelism: cfg.Parallelism,
		Detailed:    showVerbose,
	}
	records, err := collector.Collect(ctx, sel.names)
	if err != nil {
		return nil, err
	}
	pkg.Debug("Collected %d interfaces", len(records))
	records = sel.filter(records)
	pkg.Info("Showing %d interfaces", len(records))
	return records, nil
}

// filter drops interfaces that are down unless all is set or they were
// named, then applies the driver filter. The result is sorted by name
// without duplicates.
func (s selection) filter(records []netif.Record) []netif.Record {
	named := make(map[string]bool, len(s.names))
	for _, n := range s.names {
		named[n] = true
	}

	seen := make(map[string]bool)
	var out []netif.Record
	for _, r := range records {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true

		if !s.all && !r.Up && !named[r.Name] {
			continue
		}
		if !s.matchDriver(r) {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s selection) matchDriver(r netif.Record) bool {
	if len(s.drivers) == 0 {
		return true
	}
	if r.Driver == nil {
		return false
	}
	for _, d := range s.drivers {
		if strings.Contains(r.Driver.Driver, d) {
			return true
		}
	}
	return false
}

func render(w io.Writer, records []netif.Record, format string, verbose bool) error {
	switch strings.ToLower(format) {
	case "json":
		return formatJSON(w, records)
	case "table":
		formatTable(w, records)
		return nil
	case "text":
		formatText(w, records, verbose)
		return nil
	}
	return fmt.Errorf("invalid format: %s", format)
}
