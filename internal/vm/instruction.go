package vm

import "fmt"

// Instruction is a raw 16-bit CHIP-8 instruction word.
type Instruction uint16

// Opcode families implemented by the engine.
const (
	FamilySystem   = 0x0
	FamilyJump     = 0x1
	FamilyLoadByte = 0x6
	FamilyAddByte  = 0x7
	FamilyLoadI    = 0xA
	FamilyDraw     = 0xD
)

// clearScreen is the only supported instruction of the system family.
const clearScreen = 0x0E0

// Family returns the top nibble that selects the instruction category.
func (i Instruction) Family() uint8 {
	return uint8((i & 0xF000) >> 12)
}

// X returns the second nibble, a register index.
func (i Instruction) X() uint8 {
	return uint8((i & 0x0F00) >> 8)
}

// Y returns the third nibble, a register index.
func (i Instruction) Y() uint8 {
	return uint8((i & 0x00F0) >> 4)
}

// N returns the lowest nibble.
func (i Instruction) N() uint8 {
	return uint8(i & 0x000F)
}

// NN returns the low byte.
func (i Instruction) NN() uint8 {
	return uint8(i & 0x00FF)
}

// NNN returns the low 12 bits, an address.
func (i Instruction) NNN() uint16 {
	return uint16(i & 0x0FFF)
}

// Supported reports whether the engine can execute the instruction.
func (i Instruction) Supported() bool {
	switch i.Family() {
	case FamilySystem:
		return i.NNN() == clearScreen
	case FamilyJump, FamilyLoadByte, FamilyAddByte, FamilyLoadI, FamilyDraw:
		return true
	default:
		return false
	}
}

func (i Instruction) String() string {
	return fmt.Sprintf("%04X", uint16(i))
}
