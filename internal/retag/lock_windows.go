//go:build windows

package retag

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isLocked reports whether err is a sharing or lock violation, which is
// what Windows returns while a player keeps the file open.
func isLocked(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
