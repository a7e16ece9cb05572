// Package window implements the desktop window front end. The display is
// scaled up next to the memory viewer. Builds with the headless tag
// replace the window by a stub that reports ErrUnavailable.
package window

import (
	"errors"
	"strings"

	"github.com/retroenv/retrochip8/internal/debugview"
	"github.com/retroenv/retrochip8/internal/vm"
)

// Window geometry.
const (
	Title = "retrochip8"

	// Scale is the size of a display pixel on the screen.
	Scale = 10

	ScreenWidth  = displayWidth*Scale + separatorWidth + panelWidth
	ScreenHeight = 440

	displayWidth    = vm.DisplayWidth
	displayHeight   = vm.DisplayHeight
	pixelBufferSize = displayWidth * displayHeight * 4

	separatorWidth = 4
	panelWidth     = 300
	panelX         = displayWidth*Scale + separatorWidth + textMargin
	textMargin     = 8
	lineHeight     = 15

	helpText = "space: run/pause   enter: step   esc: quit"
)

// ErrUnavailable is returned when the binary was built without window support.
var ErrUnavailable = errors.New("window front end not available in headless build")

// Machine is the read-only view of the machine shown in the window.
type Machine interface {
	debugview.Source
	Display() vm.Display
}

// fillPixels converts the display into RGBA pixels, row by row.
func fillPixels(display vm.Display, pixels []byte) {
	for y := range displayHeight {
		for x := range displayWidth {
			var value byte
			if display[x][y] {
				value = 0xFF
			}
			offset := (y*displayWidth + x) * 4
			pixels[offset] = value
			pixels[offset+1] = value
			pixels[offset+2] = value
			pixels[offset+3] = 0xFF
		}
	}
}

// isCurrentLine reports whether a panel line is the memory viewer entry of
// the program counter.
func isCurrentLine(line string) bool {
	return strings.HasPrefix(line, "=>")
}
