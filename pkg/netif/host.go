package netif

import (
	"context"
	"io"

	"example.com/ifshow/pkg/ifreq"
)

// channel is the ioctl transport an Interface issues requests on.
type channel interface {
	Issue(r *ifreq.Request) error
	Close() error
}

// Host answers queries about the interfaces of the running system.
type Host struct {
	enum Enumerator
	plat Platform
	open func() (channel, error)
}

// NewHost wires the enumeration and platform sources of the running OS.
func NewHost(opts Options) *Host {
	return &Host{
		enum: newEnumerator(),
		plat: newPlatform(opts.withDefaults()),
		open: openChannel,
	}
}

func openChannel() (channel, error) {
	ch, err := ifreq.OpenChannel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Entries returns the enumeration in platform order.
func (h *Host) Entries(ctx context.Context) ([]Entry, error) {
	return h.enum.Enumerate(ctx)
}

// Open returns a handle on name. The interface does not have to exist:
// enumeration based queries then fail with ErrNotFound. Close the handle
// to release its control channel.
func (h *Host) Open(ctx context.Context, name string) (*Interface, error) {
	entries, err := h.enum.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	e, found := findEntry(entries, name)
	if !found {
		e = Entry{Name: name}
	}
	return h.openEntry(e, found)
}

func (h *Host) openEntry(e Entry, found bool) (*Interface, error) {
	ch, err := h.open()
	if err != nil {
		return nil, err
	}
	return &Interface{name: e.Name, entry: e, found: found, ch: ch, plat: h.plat}, nil
}

// Close releases platform resources shared between interfaces.
func (h *Host) Close() error {
	if c, ok := h.plat.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
