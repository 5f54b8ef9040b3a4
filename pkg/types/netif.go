package types

// DriverInfo identifies the kernel driver bound to an interface. Fields a
// source cannot provide are left empty.
type DriverInfo struct {
	Driver          string `json:"driver"`
	Version         string `json:"version,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	BusInfo         string `json:"bus_info,omitempty"`
}

// Stats holds the traffic counters of an interface
type Stats struct {
	RxBytes   uint64 `json:"rx_bytes"`
	RxPackets uint64 `json:"rx_packets"`
	TxBytes   uint64 `json:"tx_bytes"`
	TxPackets uint64 `json:"tx_packets"`
}

// IsZero reports whether no counter was found
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// Inet4Addr is an IPv4 address bound to an interface
type Inet4Addr struct {
	Address   string `json:"address"`
	Netmask   string `json:"netmask,omitempty"`
	PrefixLen int    `json:"prefix_len"`
}

// Inet6Addr is an IPv6 address bound to an interface
type Inet6Addr struct {
	Address   string `json:"address"`
	PrefixLen int    `json:"prefix_len"`
	Scope     string `json:"scope"`
}

// IfMap is the device map of an interface (SIOCGIFMAP)
type IfMap struct {
	MemStart uint64 `json:"mem_start"`
	MemEnd   uint64 `json:"mem_end"`
	BaseAddr uint16 `json:"base_addr"`
	IRQ      uint8  `json:"irq"`
	DMA      uint8  `json:"dma"`
	Port     uint8  `json:"port"`
}

// WirelessStats is a row of /proc/net/wireless
type WirelessStats struct {
	Status float64 `json:"status"`
	Link   float64 `json:"link"`
	Level  float64 `json:"level"`
	Noise  float64 `json:"noise"`
}

// EthtoolRing holds ring buffer sizes
type EthtoolRing struct {
	RxMaxPending      uint32 `json:"rx_max_pending"`
	RxMiniMaxPending  uint32 `json:"rx_mini_max_pending"`
	RxJumboMaxPending uint32 `json:"rx_jumbo_max_pending"`
	TxMaxPending      uint32 `json:"tx_max_pending"`
	RxPending         uint32 `json:"rx_pending"`
	RxMiniPending     uint32 `json:"rx_mini_pending"`
	RxJumboPending    uint32 `json:"rx_jumbo_pending"`
	TxPending         uint32 `json:"tx_pending"`
}

// EthtoolChannels holds queue channel counts
type EthtoolChannels struct {
	MaxRx         uint32 `json:"max_rx"`
	MaxTx         uint32 `json:"max_tx"`
	MaxOther      uint32 `json:"max_other"`
	MaxCombined   uint32 `json:"max_combined"`
	RxCount       uint32 `json:"rx_count"`
	TxCount       uint32 `json:"tx_count"`
	OtherCount    uint32 `json:"other_count"`
	CombinedCount uint32 `json:"combined_count"`
}

// EthtoolInfo groups the offload and queue settings reported by ethtool
type EthtoolInfo struct {
	Features map[string]bool `json:"features,omitempty"`
	Ring     EthtoolRing     `json:"ring"`
	Channels EthtoolChannels `json:"channels"`
}
