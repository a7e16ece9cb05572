package vm

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNew(t *testing.T) {
	v := New()

	regs := v.Registers()
	assert.Equal(t, uint16(ProgramStart), regs.PC)
	assert.Equal(t, uint8(0), regs.SP)
	assert.Equal(t, uint16(0), regs.I)
	assert.Equal(t, uint8(0), regs.DT)
	assert.Equal(t, uint8(0), regs.ST)
	assert.Equal(t, [RegisterCount]uint8{}, regs.V)
	assert.Equal(t, [StackSize]uint16{}, regs.Stack)
	assert.Equal(t, Display{}, v.Display())

	mem := v.Memory()
	for address := range mem {
		if address >= FontOffset && address < fontEnd {
			continue
		}
		assert.Equal(t, byte(0), mem[address])
	}
}

func TestNew_FontSeeded(t *testing.T) {
	v := New()

	glyph := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	for i := 0; i < 3; i++ {
		for j, b := range glyph {
			assert.Equal(t, b, v.ReadMemory(uint16(FontOffset+j)))
		}
	}

	mem := v.Memory()
	assert.Equal(t, font[:], mem[FontOffset:fontEnd])
	assert.Equal(t, byte(0xF0), v.ReadMemory(FontAddress(0xF)))
	assert.Equal(t, byte(0x80), v.ReadMemory(FontAddress(0xF)+4))
}

func TestLoad(t *testing.T) {
	t.Run("copies program at offset", func(t *testing.T) {
		v := New()
		err := v.Load(ProgramStart, []byte{0x00, 0xE0, 0x12, 0x00})
		assert.NoError(t, err)

		assert.Equal(t, byte(0x00), v.ReadMemory(0x200))
		assert.Equal(t, byte(0xE0), v.ReadMemory(0x201))
		assert.Equal(t, byte(0x12), v.ReadMemory(0x202))
		assert.Equal(t, byte(0x00), v.ReadMemory(0x203))
		assert.Equal(t, Instruction(0x00E0), v.Instruction())
	})

	t.Run("program ending at last address", func(t *testing.T) {
		v := New()
		err := v.Load(MemorySize-2, []byte{0xAB, 0xCD})
		assert.NoError(t, err)
		assert.Equal(t, byte(0xCD), v.ReadMemory(MemorySize-1))
	})

	t.Run("empty program", func(t *testing.T) {
		v := New()
		assert.NoError(t, v.Load(0xFFF, nil))
	})

	t.Run("out of range leaves memory untouched", func(t *testing.T) {
		v := New()
		err := v.Load(MemorySize-1, []byte{0xAA, 0xBB})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		assert.Equal(t, byte(0), v.ReadMemory(MemorySize-1))
	})

	t.Run("font overlap", func(t *testing.T) {
		tests := []struct {
			name   string
			offset uint16
			size   int
		}{
			{"ending inside font", 0x40, 0x20},
			{"starting inside font", 0x9F, 1},
			{"covering font", 0x00, 0x200},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v := New()
				err := v.Load(tt.offset, make([]byte, tt.size))
				assert.True(t, errors.Is(err, ErrFontOverlap))
				assert.Equal(t, byte(0xF0), v.ReadMemory(FontOffset))
			})
		}
	})

	t.Run("adjacent to font", func(t *testing.T) {
		v := New()
		assert.NoError(t, v.Load(0x40, make([]byte, 0x10)))
		assert.NoError(t, v.Load(0xA0, []byte{0x01}))
	})
}

func TestReset(t *testing.T) {
	v := New()
	assert.NoError(t, v.Load(ProgramStart, []byte{0x60, 0x05, 0xD0, 0x05}))
	assert.NoError(t, v.Tick())
	assert.NoError(t, v.Tick())

	v.Reset()

	assert.Equal(t, uint16(ProgramStart), v.Registers().PC)
	assert.Equal(t, uint8(0), v.Registers().V[0])
	assert.Equal(t, Display{}, v.Display())
	assert.Equal(t, byte(0), v.ReadMemory(ProgramStart))
	assert.Equal(t, byte(0xF0), v.ReadMemory(FontOffset))
}

func TestReadWord_WrapsAtEndOfMemory(t *testing.T) {
	v := New()
	assert.NoError(t, v.Load(MemorySize-1, []byte{0x12}))

	assert.Equal(t, uint16(0x1200), v.ReadWord(MemorySize-1))
}

func TestPixel_OutOfBounds(t *testing.T) {
	v := New()

	assert.False(t, v.Pixel(-1, 0))
	assert.False(t, v.Pixel(0, -1))
	assert.False(t, v.Pixel(DisplayWidth, 0))
	assert.False(t, v.Pixel(0, DisplayHeight))
}

func TestAccessorsReturnCopies(t *testing.T) {
	v := New()

	regs := v.Registers()
	regs.V[0] = 0xFF
	regs.PC = 0

	display := v.Display()
	display[0][0] = true

	mem := v.Memory()
	mem[ProgramStart] = 0xFF

	assert.Equal(t, uint8(0), v.Registers().V[0])
	assert.Equal(t, uint16(ProgramStart), v.Registers().PC)
	assert.False(t, v.Pixel(0, 0))
	assert.Equal(t, byte(0), v.ReadMemory(ProgramStart))
}
