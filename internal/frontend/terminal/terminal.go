// Package terminal implements an interactive front end for ANSI terminals.
// The display is drawn with half block characters next to the memory
// viewer, keys are read from the terminal in raw mode.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/debugview"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	title = "retrochip8 - space: run/pause  enter: step  q: quit"

	// panelMinWidth is the terminal width needed to show the memory viewer
	// next to the display.
	panelMinWidth = vm.DisplayWidth + 2 + 40

	rows = vm.DisplayHeight / 2

	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	clearLine   = "\x1b[K"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"

	pollInterval = 5 * time.Millisecond
	stopTimeout  = 100 * time.Millisecond
	eventBuffer  = 16
)

// ErrNotTerminal is returned by Start when the input is not a terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// Machine is the read-only view of the machine shown by the front end.
type Machine interface {
	debugview.Source
	Display() vm.Display
}

// Frontend is the terminal front end.
type Frontend struct {
	logger  *log.Logger
	machine Machine
	in      *os.File
	out     io.Writer

	events    chan driver.Event
	stopCh    chan struct{}
	done      chan struct{}
	stopped   sync.Once
	fd        int
	oldState  *term.State
	showPanel bool
}

// New returns a terminal front end reading keys from in and drawing to out.
func New(logger *log.Logger, machine Machine, in *os.File, out io.Writer) *Frontend {
	return &Frontend{
		logger:    logger,
		machine:   machine,
		in:        in,
		out:       out,
		events:    make(chan driver.Event, eventBuffer),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		showPanel: true,
	}
}

// Start switches the input terminal to raw mode and starts reading keys.
// Call Stop to restore the terminal.
func (f *Frontend) Start() error {
	f.fd = int(f.in.Fd())
	if !term.IsTerminal(f.fd) {
		return ErrNotTerminal
	}

	if width, _, err := term.GetSize(f.fd); err == nil {
		f.showPanel = width >= panelMinWidth
	}

	oldState, err := term.MakeRaw(f.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	f.oldState = oldState

	read, restore, err := keyReader(f.in)
	if err != nil {
		_ = term.Restore(f.fd, f.oldState)
		f.oldState = nil
		return err
	}

	_, _ = io.WriteString(f.out, clearScreen+hideCursor)

	go func() {
		defer close(f.done)
		defer restore()
		f.readKeys(read)
	}()
	return nil
}

// Stop ends reading keys and restores the terminal.
func (f *Frontend) Stop() {
	f.stopped.Do(func() {
		close(f.stopCh)
	})
	// a blocking read can not be interrupted
	select {
	case <-f.done:
	case <-time.After(stopTimeout):
	}

	_, _ = io.WriteString(f.out, showCursor+"\r\n")
	if f.oldState != nil {
		if err := term.Restore(f.fd, f.oldState); err != nil {
			f.logger.Error("Restoring terminal failed", log.Err(err))
		}
		f.oldState = nil
	}
}

// Poll returns the key events received since the last call.
func (f *Frontend) Poll() []driver.Event {
	var events []driver.Event
	for {
		select {
		case event := <-f.events:
			events = append(events, event)
		default:
			return events
		}
	}
}

// Render draws the display and the debug panel.
func (f *Frontend) Render(status driver.Status) error {
	w := bufio.NewWriter(f.out)
	display := displayRows(f.machine.Display())

	var panel []string
	if f.showPanel {
		panel = debugview.Panel(f.machine, status)
	}

	_, _ = w.WriteString(cursorHome)
	_, _ = w.WriteString(title + clearLine + "\r\n")

	lines := max(len(display), len(panel))
	for i := range lines {
		left := strings.Repeat(" ", vm.DisplayWidth)
		if i < len(display) {
			left = display[i]
		}
		right := ""
		if i < len(panel) {
			right = panel[i]
		}
		_, _ = fmt.Fprintf(w, "%s  %s%s\r\n", left, right, clearLine)
	}

	if !f.showPanel {
		_, _ = fmt.Fprintf(w, "%s, %d ticks%s\r\n", status.State, status.Ticks, clearLine)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// readKeys forwards key presses as events until Stop is called or reading
// fails.
func (f *Frontend) readKeys(read func([]byte) (int, error)) {
	buf := make([]byte, 1)
	for {
		select {
		case <-f.stopCh:
			return
		default:
		}

		n, err := read(buf)
		if n > 0 {
			if event, ok := translateKey(buf[0]); ok {
				select {
				case f.events <- event:
				default: // dropped, the driver is not polling
				}
			}
		}
		if isWouldBlock(err) || (err == nil && n == 0) {
			time.Sleep(pollInterval)
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				f.logger.Error("Reading terminal input failed", log.Err(err))
			}
			return
		}
	}
}

// translateKey maps a raw key byte to a driver event.
func translateKey(b byte) (driver.Event, bool) {
	switch b {
	case ' ':
		return driver.EventToggle, true
	case '\r', '\n':
		return driver.EventStep, true
	case 'q', 'Q', 0x1b, 0x03: // escape and ctrl+c, raw mode does not raise signals
		return driver.EventQuit, true
	default:
		return 0, false
	}
}

// displayRows converts the display into text rows, two display rows per
// text row using half block characters.
func displayRows(display vm.Display) []string {
	lines := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder
		for x := range vm.DisplayWidth {
			top := display[x][row*2]
			bottom := display[x][row*2+1]
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}
