package pci

// Lookup finds a device by canonical address.
type Lookup interface {
	Lookup(addr string) (DeviceInfo, bool)
}

// Registry indexes network-class devices by canonical address. It is built
// once per run and only read afterwards.
type Registry struct {
	devices map[string]DeviceInfo
}

// NewRegistry indexes devs. Devices without a complete address are
// dropped.
func NewRegistry(devs []DeviceInfo) *Registry {
	r := &Registry{devices: make(map[string]DeviceInfo, len(devs))}
	for _, d := range devs {
		addr, ok := d.Address()
		if !ok {
			continue
		}
		r.devices[addr] = d
	}
	return r
}

func (r *Registry) Lookup(addr string) (DeviceInfo, bool) {
	if r == nil {
		return DeviceInfo{}, false
	}
	d, ok := r.devices[addr]
	return d, ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.devices)
}
