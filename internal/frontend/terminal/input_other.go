//go:build !unix

package terminal

import (
	"os"
)

func keyReader(in *os.File) (func([]byte) (int, error), func(), error) {
	return in.Read, func() {}, nil
}

func isWouldBlock(error) bool {
	return false
}
