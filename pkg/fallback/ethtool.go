package fallback

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"example.com/ifshow/pkg/types"
)

// Ethtool runs the ethtool utility for the text fallbacks.
type Ethtool struct {
	Run  Runner
	Path string
}

// DriverInfo runs `ethtool -i`.
func (e Ethtool) DriverInfo(ctx context.Context, ifname string) (types.DriverInfo, error) {
	out, err := e.Run(ctx, e.Path, "-i", ifname)
	if err != nil {
		return types.DriverInfo{}, err
	}
	return ParseEthtoolDriverInfo(bytes.NewReader(out)), nil
}

// Info runs `ethtool -k`, `-g` and `-l`. A failing sub-command leaves its
// part empty; the first error is returned only when all three fail.
func (e Ethtool) Info(ctx context.Context, ifname string) (types.EthtoolInfo, error) {
	var info types.EthtoolInfo
	var firstErr error
	failed := 0

	if out, err := e.Run(ctx, e.Path, "-k", ifname); err == nil {
		info.Features = ParseEthtoolFeatures(bytes.NewReader(out))
	} else {
		firstErr, failed = err, failed+1
	}
	if out, err := e.Run(ctx, e.Path, "-g", ifname); err == nil {
		info.Ring = ParseEthtoolRing(bytes.NewReader(out))
	} else {
		if firstErr == nil {
			firstErr = err
		}
		failed++
	}
	if out, err := e.Run(ctx, e.Path, "-l", ifname); err == nil {
		info.Channels = ParseEthtoolChannels(bytes.NewReader(out))
	} else {
		if firstErr == nil {
			firstErr = err
		}
		failed++
	}

	if failed == 3 {
		return info, firstErr
	}
	return info, nil
}

// ParseEthtoolDriverInfo parses `ethtool -i` output.
func ParseEthtoolDriverInfo(r io.Reader) types.DriverInfo {
	var info types.DriverInfo
	scanKeyValues(r, func(_, key, value string) {
		switch key {
		case "driver":
			info.Driver = value
		case "version":
			info.Version = value
		case "firmware-version":
			info.FirmwareVersion = value
		case "bus-info":
			info.BusInfo = value
		}
	})
	return info
}

// ParseEthtoolFeatures parses `ethtool -k` output. "[fixed]" and
// "[requested on]" annotations are ignored.
func ParseEthtoolFeatures(r io.Reader) map[string]bool {
	features := make(map[string]bool)
	scanKeyValues(r, func(_, key, value string) {
		if strings.HasPrefix(key, "Features for") {
			return
		}
		state, _, _ := strings.Cut(value, " ")
		switch state {
		case "on":
			features[key] = true
		case "off":
			features[key] = false
		}
	})
	return features
}

// ParseEthtoolRing parses `ethtool -g` output.
func ParseEthtoolRing(r io.Reader) types.EthtoolRing {
	var ring types.EthtoolRing
	scanKeyValues(r, func(section, key, value string) {
		preset := section == "Pre-set maximums"
		n := parseCount(value)
		switch key {
		case "RX":
			if preset {
				ring.RxMaxPending = n
			} else {
				ring.RxPending = n
			}
		case "RX Mini":
			if preset {
				ring.RxMiniMaxPending = n
			} else {
				ring.RxMiniPending = n
			}
		case "RX Jumbo":
			if preset {
				ring.RxJumboMaxPending = n
			} else {
				ring.RxJumboPending = n
			}
		case "TX":
			if preset {
				ring.TxMaxPending = n
			} else {
				ring.TxPending = n
			}
		}
	})
	return ring
}

// ParseEthtoolChannels parses `ethtool -l` output.
func ParseEthtoolChannels(r io.Reader) types.EthtoolChannels {
	var ch types.EthtoolChannels
	scanKeyValues(r, func(section, key, value string) {
		preset := section == "Pre-set maximums"
		n := parseCount(value)
		switch key {
		case "RX":
			if preset {
				ch.MaxRx = n
			} else {
				ch.RxCount = n
			}
		case "TX":
			if preset {
				ch.MaxTx = n
			} else {
				ch.TxCount = n
			}
		case "Other":
			if preset {
				ch.MaxOther = n
			} else {
				ch.OtherCount = n
			}
		case "Combined":
			if preset {
				ch.MaxCombined = n
			} else {
				ch.CombinedCount = n
			}
		}
	})
	return ch
}

// scanKeyValues calls fn for each "key: value" line. A line ending in ':'
// with no value opens a section whose name is passed along.
func scanKeyValues(r io.Reader, fn func(section, key, value string)) {
	scanner := bufio.NewScanner(r)
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if value == "" {
			section = key
			continue
		}
		fn(section, key, value)
	}
}

func parseCount(s string) uint32 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}
