package vm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDumpMemory(t *testing.T) {
	v := New()
	assert.NoError(t, v.Load(ProgramStart, []byte{0xD0, 0x1F}))

	var buf bytes.Buffer
	assert.NoError(t, v.DumpMemory(&buf))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, MemorySize/2+2)
	assert.Equal(t, "dumping memory...", lines[0])
	assert.Equal(t, "-------------", lines[len(lines)-1])

	assert.Equal(t, "[0] 0000", lines[1])
	assert.Equal(t, "[80] F090", lines[1+FontOffset/2])
	assert.Equal(t, "[512] D01F", lines[1+ProgramStart/2])
	assert.Equal(t, "[4094] 0000", lines[len(lines)-2])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestDumpMemory_WriteError(t *testing.T) {
	v := New()
	err := v.DumpMemory(failingWriter{})
	assert.Error(t, err)
}
