// Package detector handles input format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Format is the format of an input file.
type Format int

const (
	// FormatImage is a raw program image that is loaded as is.
	FormatImage Format = iota
	// FormatSource is assembly source text that is assembled before loading.
	FormatSource
)

func (f Format) String() string {
	if f == FormatSource {
		return "source"
	}
	return "image"
}

// Detector handles input format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system and the input format. The format is forced
// to source by the source option, otherwise it is detected from the input
// filename extension. An empty input refers to the embedded demo source.
func (d *Detector) Detect(opts options.Program) (arch.System, Format) {
	system := arch.CHIP8System

	var format Format
	switch {
	case opts.Source, opts.Input == "":
		format = FormatSource
	default:
		format = detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected input format",
			log.Stringer("system", system),
			log.Stringer("format", format),
			log.String("file", opts.Input))
	}
	return system, format
}

// detectFromFile determines the input format based on file extension.
func detectFromFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".asm", ".s", ".8o", ".src":
		return FormatSource
	default:
		// .ch8, .c8, .rom, .bin and unknown extensions are program images
		return FormatImage
	}
}
