//go:build linux || darwin

package ifreq

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Channel is the datagram socket ioctls are issued on.
type Channel struct {
	fd int
}

// OpenChannel opens a control channel. Close releases it.
func OpenChannel() (*Channel, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(fd)
	return &Channel{fd: fd}, nil
}

func (c *Channel) Close() error {
	if c == nil || c.fd < 0 {
		return nil
	}
	err := unix.Close(c.fd)
	c.fd = -1
	return err
}

// ifreqData is the ifreq layout used by ethtool requests: the union holds
// a pointer to the command record.
type ifreqData struct {
	name [NameSize]byte
	data unsafe.Pointer
	_    [unionSize - wordSize]byte
}

// Issue performs the ioctl for r and fills its response. A failed call
// returns the unix.Errno as is.
func (c *Channel) Issue(r *Request) error {
	code, ok := r.Code()
	if !ok {
		return ErrUnsupported
	}

	switch r.kind {
	case KindDriverData:
		d := ifreqData{name: r.blk.Name, data: unsafe.Pointer(r.drv)}
		err := c.ioctl(code, unsafe.Pointer(&d))
		runtime.KeepAlive(r.drv)
		return err
	case KindLinkValue:
		d := ifreqData{name: r.blk.Name, data: unsafe.Pointer(r.val)}
		err := c.ioctl(code, unsafe.Pointer(&d))
		runtime.KeepAlive(r.val)
		return err
	default:
		return c.ioctl(code, unsafe.Pointer(&r.blk))
	}
}

func (c *Channel) ioctl(code uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), uintptr(code), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
