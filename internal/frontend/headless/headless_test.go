package headless

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func TestFrame(t *testing.T) {
	var display vm.Display
	display[0][0] = true
	display[63][31] = true

	lines := strings.Split(strings.TrimSuffix(Frame(display), "\n"), "\n")
	assert.Len(t, lines, vm.DisplayHeight)
	for _, line := range lines {
		assert.Equal(t, vm.DisplayWidth, len(line))
	}
	assert.Equal(t, "#"+strings.Repeat(".", 63), lines[0])
	assert.Equal(t, strings.Repeat(".", 63)+"#", lines[31])
}

func TestRender(t *testing.T) {
	machine := vm.New()
	// draw the font glyph 0 at 0,0
	assert.NoError(t, machine.Load(vm.ProgramStart, []byte{0xA0, 0x50, 0xD0, 0x05}))
	assert.NoError(t, machine.Tick())
	assert.NoError(t, machine.Tick())

	var buf bytes.Buffer
	f := New(machine, &buf)
	assert.Len(t, f.Poll(), 0)

	assert.NoError(t, f.Render(driver.Status{State: driver.Running, Ticks: 2}))
	assert.Equal(t, 0, buf.Len())

	assert.NoError(t, f.Render(driver.Status{State: driver.Running, Ticks: 2, Done: true}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "####"+strings.Repeat(".", 60), lines[0])
	assert.Equal(t, "#..#"+strings.Repeat(".", 60), lines[1])
	assert.Equal(t, "running after 2 ticks", lines[vm.DisplayHeight])
}

func TestRender_EveryFrame(t *testing.T) {
	var buf bytes.Buffer
	f := New(vm.New(), &buf)
	f.EveryFrame = true

	assert.NoError(t, f.Render(driver.Status{}))
	assert.True(t, buf.Len() > 0)
}
