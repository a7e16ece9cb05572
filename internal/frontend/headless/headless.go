// Package headless implements a front end without user input that prints
// the display as text, used for scripted runs and tests.
package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	pixelOn  = '#'
	pixelOff = '.'
)

// Display is the read-only view of the display buffer.
type Display interface {
	Display() vm.Display
}

// Frontend renders the display as text to a writer. Frames are only
// written once the session is done unless EveryFrame is set.
type Frontend struct {
	display    Display
	out        io.Writer
	EveryFrame bool
}

// New returns a headless front end writing to out.
func New(display Display, out io.Writer) *Frontend {
	return &Frontend{
		display: display,
		out:     out,
	}
}

// Poll returns no events, a headless session cannot be interacted with.
func (f *Frontend) Poll() []driver.Event {
	return nil
}

// Render writes the display and a status line.
func (f *Frontend) Render(status driver.Status) error {
	if !status.Done && !f.EveryFrame {
		return nil
	}

	if _, err := io.WriteString(f.out, Frame(f.display.Display())); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if _, err := fmt.Fprintf(f.out, "%s after %d ticks\n", status.State, status.Ticks); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}

// Frame returns the display as text, one line per row.
func Frame(display vm.Display) string {
	var sb strings.Builder
	sb.Grow((vm.DisplayWidth + 1) * vm.DisplayHeight)

	for y := range vm.DisplayHeight {
		for x := range vm.DisplayWidth {
			if display[x][y] {
				sb.WriteByte(pixelOn)
			} else {
				sb.WriteByte(pixelOff)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
