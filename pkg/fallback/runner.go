// Package fallback recovers interface data from system utilities and
// pseudo-files when the ioctl path is not available.
package fallback

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Runner executes an external utility and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec, each bounded by timeout when it
// is positive.
func ExecRunner(timeout time.Duration) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout, cmd.Stderr = stdout, stderr

		if err := cmd.Run(); err != nil {
			return nil, errors.Wrapf(err, "running %s: %s", name, strings.TrimSpace(stderr.String()))
		}
		return stdout.Bytes(), nil
	}
}
