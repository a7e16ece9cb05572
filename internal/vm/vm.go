// Package vm implements the CHIP-8 virtual machine engine.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: unused interpreter area
//	0x050-0x09F: font table (16 glyphs of 5 bytes)
//	0x0A0-0x1FF: unused interpreter area
//	0x200-0xFFF: program space
//
// The display buffer, register file and call stack live outside of the
// addressable memory. The machine is not safe for concurrent use, a single
// caller drives it one tick at a time.
package vm

import (
	"fmt"
)

// Memory and display dimensions.
const (
	MemorySize    = 4096
	RegisterCount = 16
	StackSize     = 16

	DisplayWidth  = 64
	DisplayHeight = 32

	// ProgramStart is the conventional load address and initial program counter.
	ProgramStart = 0x200

	// FlagRegister is the index of VF, used as collision flag by the draw instruction.
	FlagRegister = 0xF

	// InstructionSize is the size of every CHIP-8 instruction in bytes.
	InstructionSize = 2

	addressMask = MemorySize - 1
)

// Registers is the register file of the machine.
type Registers struct {
	V     [RegisterCount]uint8 // general purpose registers V0-VF
	I     uint16               // address register, only the low 12 bits are used
	DT    uint8                // delay timer, never decremented by the engine
	ST    uint8                // sound timer, never decremented by the engine
	PC    uint16
	SP    uint8
	Stack [StackSize]uint16
}

func newRegisters() Registers {
	return Registers{
		PC: ProgramStart,
	}
}

// Display is the monochrome frame buffer, indexed [x][y].
type Display [DisplayWidth][DisplayHeight]bool

// VM is a CHIP-8 virtual machine.
type VM struct {
	memory    [MemorySize]byte
	registers Registers
	display   Display
}

// New returns a machine with zeroed memory, the font table seeded at
// FontOffset, default registers and a cleared display.
func New() *VM {
	v := &VM{}
	v.Reset()
	return v
}

// Reset restores the state the machine had after construction.
func (v *VM) Reset() {
	v.memory = [MemorySize]byte{}
	copy(v.memory[FontOffset:], font[:])
	v.registers = newRegisters()
	v.display = Display{}
}

// Load copies the program into memory starting at offset.
// The whole range is validated before the first byte is written, a program
// that does not fit into memory or that would overwrite the font table is
// rejected and memory stays untouched.
func (v *VM) Load(offset uint16, program []byte) error {
	if len(program) == 0 {
		return nil
	}

	end := int(offset) + len(program)
	if end > MemorySize {
		return fmt.Errorf("%w: %d bytes at $%04X end at $%04X", ErrOutOfRange, len(program), offset, end)
	}
	if int(offset) < fontEnd && end > FontOffset {
		return fmt.Errorf("%w: %d bytes at $%04X", ErrFontOverlap, len(program), offset)
	}

	address := int(offset)
	for _, b := range program {
		v.memory[address] = b
		address++
	}
	return nil
}

// Instruction returns the instruction word at the program counter without
// executing it.
func (v *VM) Instruction() Instruction {
	return Instruction(v.ReadWord(v.registers.PC))
}

// ReadWord reads the big-endian word at the given address. The second byte
// wraps around at the end of memory.
func (v *VM) ReadWord(address uint16) uint16 {
	hi := uint16(v.memory[address&addressMask])
	lo := uint16(v.memory[(address+1)&addressMask])
	return hi<<8 | lo
}

// ReadMemory returns the byte at the given address, wrapped into the 4KB
// address space.
func (v *VM) ReadMemory(address uint16) byte {
	return v.memory[address&addressMask]
}

// Memory returns a copy of the complete memory.
func (v *VM) Memory() [MemorySize]byte {
	return v.memory
}

// Registers returns a copy of the register file.
func (v *VM) Registers() Registers {
	return v.registers
}

// Display returns a copy of the display buffer.
func (v *VM) Display() Display {
	return v.display
}

// Pixel returns the state of the display cell at x, y. Coordinates outside
// of the display report false.
func (v *VM) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}
	return v.display[x][y]
}
