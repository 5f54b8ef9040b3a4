package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"example.com/ifshow/pkg/netif"
	"example.com/ifshow/pkg/pci"
)

const indent = "    "

var (
	nameColor    = color.New(color.Bold, color.FgGreen)
	linkUpColor  = color.New(color.Bold, color.FgWhite, color.BgGreen)
	noLinkColor  = color.New(color.FgRed)
	macColor     = color.New(color.FgYellow)
	inetColor    = color.New(color.FgCyan)
	inet6Color   = color.New(color.FgBlue)
	driverColor  = color.New(color.Bold, color.FgWhite)
	flagsColor   = color.New(color.Faint)
	sectionColor = color.New(color.FgMagenta)
)

// formatText prints one block per interface.
func formatText(w io.Writer, records []netif.Record, verbose bool) {
	for _, r := range records {
		fmt.Fprint(w, nameColor.Sprint(r.Name))
		if r.Link != nil && *r.Link {
			fmt.Fprintf(w, " (%s)\n", linkUpColor.Sprint("LINK UP"))
		} else {
			fmt.Fprintf(w, " (%s)\n", noLinkColor.Sprint("NO LINK"))
		}

		if r.MAC != "" {
			fmt.Fprintf(w, "%sMAC:     %s\n", indent, macColor.Sprint(r.MAC))
		}
		for _, a := range r.Inet {
			fmt.Fprintf(w, "%sIPv4:    %s/%d\n", indent, inetColor.Sprint(a.Address), a.PrefixLen)
		}
		for _, a := range r.Inet6 {
			fmt.Fprintf(w, "%sIPv6:    %s/%d\n", indent, inet6Color.Sprint(a.Address), a.PrefixLen)
			if verbose {
				fmt.Fprintf(w, "%s         scope %s\n", indent, a.Scope)
			}
		}

		if r.Driver != nil {
			fmt.Fprintf(w, "%sDriver:  %s (v: %s)\n", indent, driverColor.Sprint(r.Driver.Driver), r.Driver.Version)
			if r.Driver.BusInfo != "" {
				fmt.Fprintf(w, "%sBus:     %s\n", indent, r.Driver.BusInfo)
			}
			if verbose && r.Driver.FirmwareVersion != "" {
				fmt.Fprintf(w, "%sFW:      %s\n", indent, r.Driver.FirmwareVersion)
			}
		}
		if r.Device != nil {
			fmt.Fprintf(w, "%sPCI:     %s\n", indent, describeDevice(*r.Device))
		}

		if len(r.Flags) > 0 {
			fmt.Fprintf(w, "%sFlags:   %s\n", indent, flagsColor.Sprint(strings.Join(r.Flags, " ")))
		}
		fmt.Fprintf(w, "%sMTU:     %d (Metric: %d)\n", indent, r.MTU, r.Metric)

		if !r.Stats.IsZero() {
			fmt.Fprintf(w, "%sStats:   RX: %d bytes (%d pkts), TX: %d bytes (%d pkts)\n", indent,
				r.Stats.RxBytes, r.Stats.RxPackets, r.Stats.TxBytes, r.Stats.TxPackets)
		}

		if verbose {
			formatDetails(w, r)
		}
		fmt.Fprintln(w)
	}
}

func formatDetails(w io.Writer, r netif.Record) {
	if r.TxQueueLen > 0 {
		fmt.Fprintf(w, "%sTxQLen:  %d\n", indent, r.TxQueueLen)
	}
	if r.Map != nil {
		fmt.Fprintf(w, "%sMap:     irq %d, base 0x%x, mem 0x%x-0x%x\n", indent,
			r.Map.IRQ, r.Map.BaseAddr, r.Map.MemStart, r.Map.MemEnd)
	}
	if len(r.Interrupts) > 0 {
		var total uint64
		parts := make([]string, len(r.Interrupts))
		for i, n := range r.Interrupts {
			total += n
			parts[i] = fmt.Sprintf("cpu%d=%d", i, n)
		}
		fmt.Fprintf(w, "%sIRQs:    %d (%s)\n", indent, total, strings.Join(parts, " "))
	}
	if r.Wireless != nil {
		fmt.Fprintf(w, "%sWiFi:    link %.0f, level %.0f dBm, noise %.0f dBm\n", indent,
			r.Wireless.Link, r.Wireless.Level, r.Wireless.Noise)
	}
	if r.Ethtool != nil {
		e := r.Ethtool
		fmt.Fprintf(w, "%s%s\n", indent, sectionColor.Sprint("Ethtool:"))
		fmt.Fprintf(w, "%s  Ring:     rx %d/%d, tx %d/%d\n", indent,
			e.Ring.RxPending, e.Ring.RxMaxPending, e.Ring.TxPending, e.Ring.TxMaxPending)
		fmt.Fprintf(w, "%s  Channels: combined %d/%d, rx %d/%d, tx %d/%d\n", indent,
			e.Channels.CombinedCount, e.Channels.MaxCombined,
			e.Channels.RxCount, e.Channels.MaxRx,
			e.Channels.TxCount, e.Channels.MaxTx)
		if len(e.Features) > 0 {
			fmt.Fprintf(w, "%s  Features: %s\n", indent, strings.Join(enabledFeatures(e.Features), " "))
		}
	}
}

func enabledFeatures(features map[string]bool) []string {
	var on []string
	for name, enabled := range features {
		if enabled {
			on = append(on, name)
		}
	}
	sort.Strings(on)
	return on
}

// describeDevice renders "Vendor Device [vvvv:dddd] (Class) @ bb:dd.f".
func describeDevice(d pci.DeviceInfo) string {
	var b strings.Builder
	if d.VendorName != nil {
		b.WriteString(*d.VendorName)
		b.WriteString(" ")
	}
	if d.DeviceName != nil {
		b.WriteString(*d.DeviceName)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "[%04x:%04x] (%s)", d.VendorID, d.DeviceID, d.ClassName())
	if addr, ok := d.Address(); ok {
		fmt.Fprintf(&b, " @ %s", addr)
	}
	return b.String()
}

func formatJSON(w io.Writer, records []netif.Record) error {
	if records == nil {
		records = []netif.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatTable(w io.Writer, records []netif.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Interface", "Link", "MAC", "IPv4", "MTU", "Driver", "PCI", "RX Bytes", "TX Bytes"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range records {
		link := "no"
		if r.Link != nil && *r.Link {
			link = "yes"
		}
		addrs := make([]string, len(r.Inet))
		for i, a := range r.Inet {
			addrs[i] = fmt.Sprintf("%s/%d", a.Address, a.PrefixLen)
		}
		driver := ""
		if r.Driver != nil {
			driver = r.Driver.Driver
		}
		device := ""
		if r.Device != nil {
			if addr, ok := r.Device.Address(); ok {
				device = addr
			} else {
				device = fmt.Sprintf("%04x:%04x", r.Device.VendorID, r.Device.DeviceID)
			}
		}
		table.Append([]string{
			r.Name,
			link,
			r.MAC,
			strings.Join(addrs, ","),
			strconv.Itoa(r.MTU),
			driver,
			device,
			strconv.FormatUint(r.Stats.RxBytes, 10),
			strconv.FormatUint(r.Stats.TxBytes, 10),
		})
	}
	table.Render()
}
