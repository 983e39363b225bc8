//go:build !windows

package retag

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isLocked reports whether err comes from another process holding the file.
func isLocked(err error) bool {
	return errors.Is(err, unix.EBUSY) ||
		errors.Is(err, unix.ETXTBSY) ||
		errors.Is(err, unix.EWOULDBLOCK)
}
