package vm

import (
	"bufio"
	"fmt"
	"io"
)

// DumpMemory writes every memory byte pair as a hex word labeled with its
// even start address.
func (v *VM) DumpMemory(w io.Writer) error {
	buf := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(buf, "dumping memory..."); err != nil {
		return fmt.Errorf("writing memory dump header: %w", err)
	}
	for address := 0; address < MemorySize; address += 2 {
		if _, err := fmt.Fprintf(buf, "[%d] %02X%02X\n", address, v.memory[address], v.memory[address+1]); err != nil {
			return fmt.Errorf("writing memory dump at $%04X: %w", address, err)
		}
	}
	if _, err := fmt.Fprintln(buf, "-------------"); err != nil {
		return fmt.Errorf("writing memory dump footer: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing memory dump: %w", err)
	}
	return nil
}
