// Package debugview builds the text of the memory viewer and register
// panel that the interactive front ends show next to the display.
package debugview

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	// WindowWords is the number of instruction words shown by the memory viewer.
	WindowWords = 20

	// windowStart is the distance of the first shown word before the program counter.
	windowStart = 20

	addressMask = vm.MemorySize - 1
)

// Source is the read-only view of the machine that the panel is built from.
type Source interface {
	ReadWord(address uint16) uint16
	ReadMemory(address uint16) byte
	Registers() vm.Registers
	Instruction() vm.Instruction
}

// Line is a single memory viewer entry.
type Line struct {
	Address  uint16
	Word     uint16
	Current  bool // address of the program counter
	Mnemonic string
}

func (l Line) String() string {
	marker := "  "
	if l.Current {
		marker = "=>"
	}
	return fmt.Sprintf("%s [0x%04X] 0x%04X  %s", marker, l.Address, l.Word, l.Mnemonic)
}

// MemoryWindow returns the words starting 20 bytes before the program
// counter. Addresses wrap around at the end of memory.
func MemoryWindow(src Source) []Line {
	pc := src.Registers().PC
	start := pc - windowStart

	lines := make([]Line, 0, WindowWords)
	for i := range WindowWords {
		address := (start + uint16(i*vm.InstructionSize)) & addressMask
		word := src.ReadWord(address)
		text, _ := disasm.Disassemble(word)
		lines = append(lines, Line{
			Address:  address,
			Word:     word,
			Current:  address == pc&addressMask,
			Mnemonic: text,
		})
	}
	return lines
}

// Registers returns the register panel lines.
func Registers(src Source) []string {
	regs := src.Registers()
	half := vm.RegisterCount / 2

	return []string{
		fmt.Sprintf("PC: %d - 0x%04X", regs.PC, uint16(src.Instruction())),
		"    --registers--",
		formatRegisters(regs.V[:half], 0),
		formatRegisters(regs.V[half:], half),
		fmt.Sprintf("I: 0x%04X has 0x%04X", regs.I, src.ReadMemory(regs.I)),
	}
}

// Panel returns all lines of the debug panel.
func Panel(src Source, status driver.Status) []string {
	window := MemoryWindow(src)
	lines := make([]string, 0, len(window)+8)
	lines = append(lines, "--Memory Viewer--")
	for _, line := range window {
		lines = append(lines, line.String())
	}
	lines = append(lines, Registers(src)...)
	lines = append(lines, fmt.Sprintf("%s, %d ticks", status.State, status.Ticks))
	return lines
}

// formatRegisters formats a register row as V0-V7: [0, 1, ...].
func formatRegisters(values []uint8, first int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "V%X-V%X: [", first, first+len(values)-1)
	for i, value := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", value)
	}
	sb.WriteString("]")
	return sb.String()
}
