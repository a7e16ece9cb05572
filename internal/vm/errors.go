package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOpcode is matched by every UnsupportedOpcodeError.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")
	// ErrOutOfRange is returned when a program does not fit into memory.
	ErrOutOfRange = errors.New("program exceeds memory")
	// ErrFontOverlap is returned when a program would overwrite the font table.
	ErrFontOverlap = errors.New("program overlaps font table")
)

// UnsupportedOpcodeError is returned by Tick for an instruction outside of
// the implemented instruction subset. The machine state is unchanged.
type UnsupportedOpcodeError struct {
	Word    Instruction
	Address uint16
}

func (e *UnsupportedOpcodeError) Error() string {
	if e.Word.Family() == FamilySystem {
		return fmt.Sprintf("0x0 - instruction <0x%04X> at $%04X unsupported", uint16(e.Word), e.Address)
	}
	return fmt.Sprintf("instruction <0x%04X> at $%04X unsupported", uint16(e.Word), e.Address)
}

// Is reports whether target is ErrUnsupportedOpcode.
func (e *UnsupportedOpcodeError) Is(target error) bool {
	return target == ErrUnsupportedOpcode
}
