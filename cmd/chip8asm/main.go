// Package main implements a CHIP-8 assembler and disassembler for the
// instructions the emulator executes
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// createOutput opens the source output file.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type optionFlags struct {
	input  string
	output string
	origin string

	disassemble    bool
	hexComments    bool
	offsetComments bool
	verify         bool
	quiet          bool
}

func main() {
	options := readArguments()
	logger := config.CreateLogger(false, options.quiet)

	if !options.quiet {
		printBanner()
	}

	if err := processFile(logger, options); err != nil {
		logger.Error("Processing failed", log.Err(err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}
	var noHexComments, noOffsets bool

	flags.StringVar(&options.output, "o", "", "name of the output file, source is printed on console if no name given")
	flags.StringVar(&options.origin, "origin", "0x200", "address the program is assembled for or loaded at")
	flags.BoolVar(&options.disassemble, "d", false, "disassemble a .ch8 image into source instead of assembling")
	flags.BoolVar(&noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&noOffsets, "nooffsets", false, "do not output addresses in comments")
	flags.BoolVar(&options.verify, "verify", false, "verify the generated source by reassembling it and comparing the result")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		printBanner()
		fmt.Printf("usage: chip8asm [options] <file to process>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]
	options.hexComments = !noHexComments
	options.offsetComments = !noOffsets

	return options
}

func printBanner() {
	fmt.Println("[----------------------------------]")
	fmt.Println("[ chip8asm - CHIP-8 assembler      ]")
	fmt.Printf("[----------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func processFile(logger *log.Logger, options optionFlags) error {
	origin, err := cli.ParseAddress(options.origin)
	if err != nil {
		return fmt.Errorf("parsing origin: %w", err)
	}

	data, err := os.ReadFile(options.input)
	if err != nil {
		return fmt.Errorf("reading file '%s': %w", options.input, err)
	}

	var prog *asm.Program
	if options.disassemble {
		if int(origin)+len(data) > asm.MemorySize {
			return fmt.Errorf("%w: %d bytes at $%03X", asm.ErrProgramSize, len(data), origin)
		}
		prog = &asm.Program{Origin: origin, Data: data}
	} else {
		prog, err = asm.Assemble(options.input, string(data), origin)
		if err != nil {
			return fmt.Errorf("assembling: %w", err)
		}
	}

	if options.verify {
		if err := verification.VerifyProgram(logger, prog); err != nil {
			return fmt.Errorf("verifying: %w", err)
		}
		logger.Info("Verification passed", log.Int("bytes", len(prog.Data)))
	}

	// assembling to a file writes the image, everything else writes source
	if options.output != "" && !options.disassemble {
		if err := os.WriteFile(options.output, prog.Data, 0644); err != nil {
			return fmt.Errorf("writing file '%s': %w", options.output, err)
		}
		return nil
	}
	return writeSource(options, prog)
}

func writeSource(options optionFlags, prog *asm.Program) (err error) {
	var out io.Writer = os.Stdout
	if options.output != "" {
		file, createErr := createOutput(options.output)
		if createErr != nil {
			return fmt.Errorf("creating file '%s': %w", options.output, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("closing file '%s': %w", options.output, closeErr))
			}
		}()
		out = file
	}

	w := writer.New(out, writer.Options{
		HexComments:    options.hexComments,
		OffsetComments: options.offsetComments,
	})
	if writeErr := w.Write(prog); writeErr != nil {
		return fmt.Errorf("writing source: %w", writeErr)
	}
	return nil
}
