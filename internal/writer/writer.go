// Package writer implements writing program images as assembly source.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/vm"
)

const (
	indent        = "        "
	commentColumn = 32
)

// Options of the writer.
type Options struct {
	HexComments    bool // output instruction bytes as hex values in comments
	OffsetComments bool // output addresses in comments
}

// Writer writes a program image as source text that the assembler accepts.
// Words of supported instructions are written as mnemonics, everything else
// as db data.
type Writer struct {
	options Options
	writer  io.Writer
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Write writes the source of the program including its labels.
func (w *Writer) Write(prog *asm.Program) error {
	buf := bufio.NewWriter(w.writer)
	labels := labelsByAddress(prog.Labels)
	data := prog.Data

	for pos := 0; pos < len(data); {
		address := int(prog.Origin) + pos
		writeLabels(buf, labels[address])

		var code string
		var size int
		// a label in the middle of a word splits it into single bytes
		if pos+1 < len(data) && len(labels[address+1]) == 0 {
			code, size = formatWord(data[pos], data[pos+1]), 2
		} else {
			code, size = fmt.Sprintf("db $%02X", data[pos]), 1
		}

		w.writeLine(buf, code, address, data[pos:pos+size])
		pos += size
	}
	writeLabels(buf, labels[int(prog.Origin)+len(data)])

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing source: %w", err)
	}
	return nil
}

func (w *Writer) writeLine(buf *bufio.Writer, code string, address int, data []byte) {
	line := indent + code

	var comments []string
	if w.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", address))
	}
	if w.options.HexComments {
		hex := make([]string, 0, len(data))
		for _, b := range data {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		comments = append(comments, strings.Join(hex, " "))
	}

	if len(comments) > 0 {
		if pad := commentColumn - len(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		} else {
			line += " "
		}
		line += "; " + strings.Join(comments, " ")
	}

	_, _ = buf.WriteString(line + "\n")
}

// formatWord returns the mnemonic of a supported instruction word or a data
// directive for all other words.
func formatWord(hi, lo byte) string {
	word := uint16(hi)<<8 | uint16(lo)
	if vm.Instruction(word).Supported() {
		if text, ok := disasm.Disassemble(word); ok {
			return text
		}
	}
	return fmt.Sprintf("db $%02X, $%02X", hi, lo)
}

func writeLabels(buf *bufio.Writer, names []string) {
	for _, name := range names {
		_, _ = buf.WriteString(name + ":\n")
	}
}

// labelsByAddress inverts the label map, names of the same address are sorted.
func labelsByAddress(labels map[string]uint16) map[int][]string {
	result := make(map[int][]string, len(labels))
	for name, address := range labels {
		result[int(address)] = append(result[int(address)], name)
	}
	for _, names := range result {
		slices.Sort(names)
	}
	return result
}
