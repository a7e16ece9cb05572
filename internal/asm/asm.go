// Package asm assembles CHIP-8 source text into a program image.
//
// The accepted syntax matches the output of the disassembler for the
// instructions the engine executes:
//
//	start:  cls
//	        ld   V0, $10
//	        ld   I, sprite
//	        add  V0, 1
//	        drw  V0, V1, 5
//	        jp   start
//	sprite: db   $F0, $90, $F0
//
// Numbers are decimal or hexadecimal with a $ or 0x prefix, comments start
// with a semicolon.
package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/set"
)

// MemorySize is the size of the CHIP-8 address space.
const MemorySize = 4096

var (
	ErrUnknownInstruction     = errors.New("unknown instruction")
	ErrUnsupportedInstruction = errors.New("instruction not supported by the engine")
	ErrOperand                = errors.New("invalid operand")
	ErrUndefinedLabel         = errors.New("undefined label")
	ErrDuplicateLabel         = errors.New("duplicate label")
	ErrReservedLabel          = errors.New("label name is a register name")
	ErrProgramSize            = errors.New("program exceeds memory")
)

// knownInstructions contains the names of the complete CHIP-8 instruction set.
var knownInstructions = func() set.Set[string] {
	names := set.New[string]()
	for nibble := range 16 {
		for _, op := range chip8.Opcodes[nibble] {
			if op.Instruction != nil {
				names.Add(op.Instruction.Name)
			}
		}
	}
	return names
}()

// Program is an assembled program image.
type Program struct {
	Origin uint16
	Data   []byte
	Labels map[string]uint16
}

// Assemble parses the source and returns the program image for the given
// origin address. The name is used for error positions.
func Assemble(name, source string, origin uint16) (*Program, error) {
	// every line including the last needs a terminating EOL token
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}

	ast, err := parser.ParseString(name, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	labels, size, err := resolveLabels(ast, origin)
	if err != nil {
		return nil, err
	}
	if int(origin)+size > MemorySize {
		return nil, fmt.Errorf("%w: %d bytes at $%04X", ErrProgramSize, size, origin)
	}

	a := &assembler{
		labels: labels,
		data:   make([]byte, 0, size),
	}
	for _, l := range ast.Lines {
		if err := a.line(l); err != nil {
			return nil, err
		}
	}

	return &Program{
		Origin: origin,
		Data:   a.data,
		Labels: labels,
	}, nil
}

// resolveLabels assigns addresses to all labels and returns the program size.
func resolveLabels(ast *program, origin uint16) (map[string]uint16, int, error) {
	labels := map[string]uint16{}
	address := int(origin)

	for _, l := range ast.Lines {
		if l.Label != "" {
			name := strings.TrimSuffix(l.Label, ":")
			if isRegisterName(name) {
				return nil, 0, fmt.Errorf("%s: %w '%s'", l.Pos, ErrReservedLabel, name)
			}
			if _, ok := labels[name]; ok {
				return nil, 0, fmt.Errorf("%s: %w '%s'", l.Pos, ErrDuplicateLabel, name)
			}
			labels[name] = uint16(address)
		}

		switch {
		case l.Data != nil:
			address += len(l.Data.Values)
		case l.Instruction != nil:
			address += 2
		}
	}

	return labels, address - int(origin), nil
}

type assembler struct {
	labels map[string]uint16
	data   []byte
}

func (a *assembler) line(l *line) error {
	switch {
	case l.Data != nil:
		for _, value := range l.Data.Values {
			b, err := a.value(value, 0xFF)
			if err != nil {
				return err
			}
			a.data = append(a.data, byte(b))
		}

	case l.Instruction != nil:
		word, err := a.instruction(l.Instruction)
		if err != nil {
			return err
		}
		a.data = append(a.data, byte(word>>8), byte(word))
	}
	return nil
}

func (a *assembler) instruction(ins *instruction) (uint16, error) {
	name := strings.ToLower(ins.Mnemonic)
	ops := ins.Operands

	switch name {
	case chip8.ClsName:
		if err := expectOperands(ins, 0); err != nil {
			return 0, err
		}
		return 0x00E0, nil

	case chip8.JpName:
		if err := expectOperands(ins, 1); err != nil {
			return 0, err
		}
		address, err := a.value(ops[0], 0xFFF)
		if err != nil {
			return 0, err
		}
		return 0x1000 | address, nil

	case chip8.LdName:
		if err := expectOperands(ins, 2); err != nil {
			return 0, err
		}
		if isIndexRegister(ops[0]) {
			address, err := a.value(ops[1], 0xFFF)
			if err != nil {
				return 0, err
			}
			return 0xA000 | address, nil
		}
		return a.registerByte(0x6000, ops)

	case chip8.AddName:
		if err := expectOperands(ins, 2); err != nil {
			return 0, err
		}
		return a.registerByte(0x7000, ops)

	case chip8.DrwName:
		if err := expectOperands(ins, 3); err != nil {
			return 0, err
		}
		x, err := register(ops[0])
		if err != nil {
			return 0, err
		}
		y, err := register(ops[1])
		if err != nil {
			return 0, err
		}
		n, err := a.value(ops[2], 0xF)
		if err != nil {
			return 0, err
		}
		return 0xD000 | x<<8 | y<<4 | n, nil
	}

	if knownInstructions.Contains(name) {
		return 0, fmt.Errorf("%s: %w '%s'", ins.Pos, ErrUnsupportedInstruction, name)
	}
	return 0, fmt.Errorf("%s: %w '%s'", ins.Pos, ErrUnknownInstruction, ins.Mnemonic)
}

// registerByte encodes the Vx, byte operand form.
func (a *assembler) registerByte(base uint16, ops []*operand) (uint16, error) {
	x, err := register(ops[0])
	if err != nil {
		return 0, err
	}
	nn, err := a.value(ops[1], 0xFF)
	if err != nil {
		return 0, err
	}
	return base | x<<8 | nn, nil
}

// value resolves a number or label operand and checks it against limit.
func (a *assembler) value(op *operand, limit uint16) (uint16, error) {
	var result uint64

	switch {
	case op.Number != nil:
		n, err := parseNumber(*op.Number)
		if err != nil {
			return 0, fmt.Errorf("%s: %w '%s': %w", op.Pos, ErrOperand, *op.Number, err)
		}
		result = n

	case op.Name != nil:
		address, ok := a.labels[*op.Name]
		if !ok {
			return 0, fmt.Errorf("%s: %w '%s'", op.Pos, ErrUndefinedLabel, *op.Name)
		}
		result = uint64(address)

	default:
		return 0, fmt.Errorf("%s: %w: expected number or label", op.Pos, ErrOperand)
	}

	if result > uint64(limit) {
		return 0, fmt.Errorf("%s: %w: value $%X exceeds $%X", op.Pos, ErrOperand, result, limit)
	}
	return uint16(result), nil
}

func register(op *operand) (uint16, error) {
	if op.Register == nil {
		return 0, fmt.Errorf("%s: %w: expected register", op.Pos, ErrOperand)
	}
	index, err := strconv.ParseUint((*op.Register)[1:], 16, 4)
	if err != nil {
		return 0, fmt.Errorf("%s: %w '%s': %w", op.Pos, ErrOperand, *op.Register, err)
	}
	return uint16(index), nil
}

// isRegisterName reports whether name is V0-VF or I in any case, operands
// with these names never resolve to labels.
func isRegisterName(name string) bool {
	if strings.EqualFold(name, "i") {
		return true
	}
	if len(name) != 2 || (name[0] != 'v' && name[0] != 'V') {
		return false
	}
	_, err := strconv.ParseUint(name[1:], 16, 4)
	return err == nil
}

func isIndexRegister(op *operand) bool {
	return op.Name != nil && strings.EqualFold(*op.Name, "i")
}

func expectOperands(ins *instruction, count int) error {
	if len(ins.Operands) != count {
		return fmt.Errorf("%s: %w: '%s' expects %d operands, got %d",
			ins.Pos, ErrOperand, ins.Mnemonic, count, len(ins.Operands))
	}
	return nil
}

func parseNumber(s string) (uint64, error) {
	switch {
	case strings.HasPrefix(s, "$"):
		return strconv.ParseUint(s[1:], 16, 16)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 16)
	default:
		return strconv.ParseUint(s, 10, 16)
	}
}
