// Package verification verifies that the source written for a program
// image assembles to the identical image.
package verification

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/asm"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// ErrMismatch is returned when the reassembled image differs from the input.
var ErrMismatch = errors.New("reassembled output does not match input")

// VerifyProgram writes the program as source, assembles it again and
// compares the result to the program image.
func VerifyProgram(logger *log.Logger, prog *asm.Program) error {
	var source bytes.Buffer
	w := writer.New(&source, writer.Options{})
	if err := w.Write(prog); err != nil {
		return fmt.Errorf("writing source: %w", err)
	}

	output, err := asm.Assemble("verification.asm", source.String(), prog.Origin)
	if err != nil {
		return fmt.Errorf("assembling written source: %w", err)
	}

	mismatches, err := compareImages(prog.Origin, prog.Data, output.Data)
	for _, m := range mismatches {
		logger.Error("Output mismatch",
			log.Hex("address", m.Address),
			log.Hex("expected", m.Expected),
			log.Hex("got", m.Got))
	}
	return err
}

// Mismatch is a byte that differs between the input and the reassembled
// output.
type Mismatch struct {
	Address  uint16
	Expected byte
	Got      byte
}

func compareImages(origin uint16, input, output []byte) ([]Mismatch, error) {
	if len(input) != len(output) {
		return nil, fmt.Errorf("%w: size mismatch %d vs %d", ErrMismatch, len(input), len(output))
	}

	var mismatches []Mismatch
	for i := range input {
		if input[i] == output[i] {
			continue
		}
		mismatches = append(mismatches, Mismatch{
			Address:  uint16(int(origin) + i),
			Expected: input[i],
			Got:      output[i],
		})
	}

	if len(mismatches) > 0 {
		return mismatches, fmt.Errorf("%w: %d bytes differ", ErrMismatch, len(mismatches))
	}
	return nil, nil
}
