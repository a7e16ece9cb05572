//go:build headless

package window

import (
	"context"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrogolib/log"
)

// Frontend is a stub of the window front end.
type Frontend struct{}

// New returns the window front end stub.
func New(_ *log.Logger, _ Machine, _ *driver.Driver) *Frontend {
	return &Frontend{}
}

// Run returns ErrUnavailable.
func (f *Frontend) Run(_ context.Context) error {
	return ErrUnavailable
}
