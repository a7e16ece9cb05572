package vm

// spriteWidth is the number of pixels encoded in one sprite byte.
const spriteWidth = 8

// Tick performs one fetch-decode-execute cycle.
// An unsupported instruction is reported before any state is modified,
// including the program counter.
func (v *VM) Tick() error {
	address := v.registers.PC
	ins := Instruction(v.ReadWord(address))
	if !ins.Supported() {
		return &UnsupportedOpcodeError{Word: ins, Address: address}
	}

	// handlers set the final PC value, not an offset from the fetch address
	v.registers.PC += InstructionSize

	switch ins.Family() {
	case FamilySystem:
		v.display = Display{}

	case FamilyJump:
		v.registers.PC = ins.NNN()

	case FamilyLoadByte:
		v.registers.V[ins.X()] = ins.NN()

	case FamilyAddByte:
		// wraps silently, VF is not used as carry flag
		v.registers.V[ins.X()] += ins.NN()

	case FamilyLoadI:
		v.registers.I = ins.NNN()

	case FamilyDraw:
		v.draw(ins.X(), ins.Y(), ins.N())
	}
	return nil
}

// SkipInstruction advances the program counter past the current instruction
// without executing it.
func (v *VM) SkipInstruction() {
	v.registers.PC += InstructionSize
}

// draw XORs a sprite of n rows read from memory at I onto the display.
// Sprites are clipped at the right and bottom edges, not wrapped.
func (v *VM) draw(regX, regY, n uint8) {
	x := int(v.registers.V[regX] % DisplayWidth)
	y := int(v.registers.V[regY] % DisplayHeight)
	v.registers.V[FlagRegister] = 0

	for row := 0; row < int(n) && y+row < DisplayHeight; row++ {
		sprite := v.ReadMemory(v.registers.I + uint16(row))

		for bit := 0; bit < spriteWidth && x+bit < DisplayWidth; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			cell := &v.display[x+bit][y+row]
			*cell = !*cell
			if !*cell {
				v.registers.V[FlagRegister] = 1
			}
		}
	}
}
