//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// keyReader switches the input to non-blocking mode so that the reading
// goroutine can be stopped.
func keyReader(in *os.File) (func([]byte) (int, error), func(), error) {
	fd := int(in.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, nil, fmt.Errorf("setting non-blocking input: %w", err)
	}

	read := func(b []byte) (int, error) {
		return unix.Read(fd, b)
	}
	restore := func() {
		_ = unix.SetNonblock(fd, false)
	}
	return read, restore, nil
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
