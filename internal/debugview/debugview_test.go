package debugview

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

func newMachine(t *testing.T, program ...byte) *vm.VM {
	t.Helper()
	machine := vm.New()
	assert.NoError(t, machine.Load(vm.ProgramStart, program))
	return machine
}

func TestMemoryWindow(t *testing.T) {
	machine := newMachine(t, 0x00, 0xE0, 0x60, 0x05)

	lines := MemoryWindow(machine)
	assert.Len(t, lines, WindowWords)
	assert.Equal(t, uint16(0x1EC), lines[0].Address)
	assert.Equal(t, uint16(0x212), lines[WindowWords-1].Address)

	current := lines[10]
	assert.True(t, current.Current)
	assert.Equal(t, uint16(0x200), current.Address)
	assert.Equal(t, uint16(0x00E0), current.Word)
	assert.Equal(t, "cls", current.Mnemonic)

	assert.False(t, lines[11].Current)
	assert.Equal(t, "ld V0, $05", lines[11].Mnemonic)

	for i, line := range lines {
		if i != 10 {
			assert.False(t, line.Current)
		}
	}
}

func TestMemoryWindow_Wraps(t *testing.T) {
	machine := newMachine(t, 0x12, 0x04, 0x00, 0x00, 0x10, 0x00)
	assert.NoError(t, machine.Tick())
	assert.NoError(t, machine.Tick())
	assert.Equal(t, uint16(0x000), machine.Registers().PC)

	lines := MemoryWindow(machine)
	assert.Equal(t, uint16(0xFEC), lines[0].Address)
	assert.True(t, lines[10].Current)
	assert.Equal(t, uint16(0x000), lines[10].Address)
}

func TestLine_String(t *testing.T) {
	line := Line{Address: 0x200, Word: 0x00E0, Current: true, Mnemonic: "cls"}
	assert.Equal(t, "=> [0x0200] 0x00E0  cls", line.String())

	line.Current = false
	assert.Equal(t, "   [0x0200] 0x00E0  cls", line.String())
}

func TestRegisters(t *testing.T) {
	machine := newMachine(t, 0x60, 0x07, 0x6F, 0xFF, 0xA0, 0x50)
	for range 3 {
		assert.NoError(t, machine.Tick())
	}

	lines := Registers(machine)
	assert.Equal(t, []string{
		"PC: 518 - 0x0000",
		"    --registers--",
		"V0-V7: [7, 0, 0, 0, 0, 0, 0, 0]",
		"V8-VF: [0, 0, 0, 0, 0, 0, 0, 255]",
		"I: 0x0050 has 0x00F0",
	}, lines)
}

func TestPanel(t *testing.T) {
	machine := newMachine(t, 0x00, 0xE0)

	lines := Panel(machine, driver.Status{State: driver.Paused, Ticks: 3})
	assert.Len(t, lines, 1+WindowWords+5+1)
	assert.Equal(t, "--Memory Viewer--", lines[0])
	assert.Equal(t, "=> [0x0200] 0x00E0  cls", lines[11])
	assert.Equal(t, "paused, 3 ticks", lines[len(lines)-1])
}
