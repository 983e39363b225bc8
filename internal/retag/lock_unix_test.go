//go:build !windows

package retag

import (
	"errors"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestIsLocked(t *testing.T) {
	if !isLocked(&os.PathError{Op: "open", Path: "x.mp3", Err: unix.EBUSY}) {
		t.Error("EBUSY should count as locked")
	}
	if !isLocked(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: unix.ETXTBSY}) {
		t.Error("ETXTBSY should count as locked")
	}
	if isLocked(&os.PathError{Op: "open", Path: "x.mp3", Err: unix.ENOENT}) {
		t.Error("ENOENT is not a lock")
	}
	if isLocked(errors.New("plain")) {
		t.Error("plain error is not a lock")
	}
}
