//go:build !linux && !darwin

package ifreq

// Channel is a placeholder on platforms without interface ioctls.
type Channel struct{}

func OpenChannel() (*Channel, error) {
	return &Channel{}, nil
}

func (c *Channel) Close() error {
	return nil
}

func (c *Channel) Issue(r *Request) error {
	return ErrUnsupported
}
