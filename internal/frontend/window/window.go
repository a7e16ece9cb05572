//go:build !headless

package window

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/debugview"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	separatorColor  = color.RGBA{40, 40, 40, 255}
	panelColor      = color.RGBA{0, 220, 90, 255}
	markerColor     = color.RGBA{80, 140, 255, 255}
)

// Frontend is the ebiten window front end. It implements ebiten.Game and
// advances the driver once per ebiten update.
type Frontend struct {
	logger  *log.Logger
	machine Machine
	driver  *driver.Driver

	ctx     context.Context
	last    time.Time
	err     error
	display *ebiten.Image
	pixels  []byte
}

// New returns a window front end for the machine and its driver.
func New(logger *log.Logger, machine Machine, drv *driver.Driver) *Frontend {
	return &Frontend{
		logger:  logger,
		machine: machine,
		driver:  drv,
		pixels:  make([]byte, pixelBufferSize),
	}
}

// Run opens the window and blocks until it is closed, the session ends or
// the context is canceled.
func (f *Frontend) Run(ctx context.Context) error {
	f.ctx = ctx
	f.last = time.Now()

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(driver.FrameRate)

	if err := ebiten.RunGame(f); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	if f.err != nil {
		return f.err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update polls the keyboard and executes the ticks due for this frame.
func (f *Frontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if f.ctx != nil && f.ctx.Err() != nil {
		return ebiten.Termination
	}

	now := time.Now()
	elapsed := now.Sub(f.last)
	f.last = now

	done, err := f.driver.Frame(pollKeys(), elapsed)
	if err != nil {
		f.err = err
		return ebiten.Termination
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the display and the debug panel.
func (f *Frontend) Draw(screen *ebiten.Image) {
	if f.display == nil {
		f.display = ebiten.NewImage(displayWidth, displayHeight)
	}

	screen.Fill(backgroundColor)

	fillPixels(f.machine.Display(), f.pixels)
	f.display.WritePixels(f.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(Scale, Scale)
	screen.DrawImage(f.display, opts)

	ebitenutil.DrawRect(screen, float64(displayWidth*Scale), 0, separatorWidth, ScreenHeight, separatorColor)
	f.drawPanel(screen)
}

// Layout returns the fixed logical screen size.
func (f *Frontend) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func (f *Frontend) drawPanel(screen *ebiten.Image) {
	face := basicfont.Face7x13
	x := panelX
	y := lineHeight

	for _, line := range debugview.Panel(f.machine, f.driver.Status()) {
		c := color.Color(panelColor)
		if isCurrentLine(line) {
			c = markerColor
		}
		text.Draw(screen, line, face, x, y, c)
		y += lineHeight
	}

	text.Draw(screen, helpText, face, textMargin, displayHeight*Scale+2*lineHeight, panelColor)
}

// pollKeys returns the events of the keys pressed since the last update.
func pollKeys() []driver.Event {
	var events []driver.Event
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		events = append(events, driver.EventToggle)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		events = append(events, driver.EventStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		events = append(events, driver.EventQuit)
	}
	return events
}
