package netif

import (
	"github.com/pkg/errors"

	"example.com/ifshow/pkg/ifreq"
)

var (
	// ErrNotFound is returned when enumeration does not list the interface.
	ErrNotFound = errors.New("interface not found")

	// ErrUnsupported is returned when neither the binary query nor any
	// text source can answer on this platform.
	ErrUnsupported = ifreq.ErrUnsupported
)
