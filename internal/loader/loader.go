// Package loader handles program file loading operations.
package loader

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/options"
)

// DemoName is the name of the embedded demo program used in positions of
// assembler errors.
const DemoName = "demo.asm"

//go:embed demo.asm
var demoSource string

// Program is a loaded program image.
type Program struct {
	Name   string
	Origin uint16
	Data   []byte
	Labels map[string]uint16 // only set for assembled sources
}

// Loader handles loading program files from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the input file of the options in the given format. Sources are
// assembled for the load offset of the options. Without an input file the
// embedded demo program is returned.
func (l *Loader) Load(opts options.Program, format detector.Format) (*Program, error) {
	if opts.Input == "" {
		return l.LoadSource(DemoName, demoSource, opts.LoadOffset)
	}

	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	// one byte more than the address space to detect oversized files
	data, err := io.ReadAll(io.LimitReader(file, asm.MemorySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	if format == detector.FormatSource {
		return l.LoadSource(opts.Input, string(data), opts.LoadOffset)
	}
	return l.LoadImage(opts.Input, data, opts.LoadOffset)
}

// LoadImage returns a raw program image.
func (l *Loader) LoadImage(name string, data []byte, origin uint16) (*Program, error) {
	if int(origin)+len(data) > asm.MemorySize {
		return nil, fmt.Errorf("%w: %s has %d bytes at $%04X", asm.ErrProgramSize, name, len(data), origin)
	}

	return &Program{
		Name:   name,
		Origin: origin,
		Data:   data,
	}, nil
}

// LoadSource assembles the source for the given origin.
func (l *Loader) LoadSource(name, source string, origin uint16) (*Program, error) {
	prog, err := asm.Assemble(name, source, origin)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", name, err)
	}

	return &Program{
		Name:   name,
		Origin: prog.Origin,
		Data:   prog.Data,
		Labels: prog.Labels,
	}, nil
}
