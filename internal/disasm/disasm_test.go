package disasm

import (
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected string
	}{
		{"clear screen", 0x00E0, "cls"},
		{"return", 0x00EE, "ret"},
		{"jump", 0x1234, "jp $234"},
		{"jump with offset", 0xB123, "jp V0, $123"},
		{"call", 0x2300, "call $300"},
		{"skip equal byte", 0x3234, "se V2, $34"},
		{"skip not equal registers", 0x9AB0, "sne VA, VB"},
		{"load byte", 0x6A5F, "ld VA, $5F"},
		{"load register", 0x8120, "ld V1, V2"},
		{"load index", 0xA300, "ld I, $300"},
		{"load delay timer", 0xF307, "ld V3, DT"},
		{"store registers", 0xF455, "ld [I], V4"},
		{"add byte", 0x7101, "add V1, $01"},
		{"add registers", 0x8124, "add V1, V2"},
		{"add index", 0xF21E, "add I, V2"},
		{"xor", 0x8AB3, "xor VA, VB"},
		{"shift", 0x8306, "shr V3"},
		{"random", 0xC10F, "rnd V1, $0F"},
		{"draw", 0xD015, "drw V0, V1, $5"},
		{"skip key", 0xE59E, "skp V5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := Disassemble(tt.word)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestDisassemble_Unknown(t *testing.T) {
	text, ok := Disassemble(0xE000)
	assert.False(t, ok)
	assert.Equal(t, ".word $E000", text)
}

func TestInstruction(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		expected string
	}{
		{"cls", 0x00E0, chip8.ClsName},
		{"jp", 0x1200, chip8.JpName},
		{"ld", 0x6000, chip8.LdName},
		{"add", 0x7000, chip8.AddName},
		{"drw", 0xD000, chip8.DrwName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := Instruction(tt.word)
			assert.NotNil(t, ins)
			assert.Equal(t, tt.expected, ins.Name)
		})
	}

	assert.True(t, Instruction(0xE000) == nil)
}

func TestLookup(t *testing.T) {
	op, ok := Lookup(0xA123)
	assert.True(t, ok)
	assert.Equal(t, uint16(0xA000), op.Info.Value)
	assert.Equal(t, chip8.LdName, op.Instruction.Name)

	_, ok = Lookup(0xE000)
	assert.False(t, ok)
}

func TestExtractRegisters(t *testing.T) {
	assert.Equal(t, uint16(0xA), extractRegisterX(0x8AB4))
	assert.Equal(t, uint16(0xB), extractRegisterY(0x8AB4))
}
