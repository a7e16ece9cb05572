package driver

import (
	"fmt"
	"strings"
)

// State is the run state of the driver.
type State int

const (
	Paused State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is a user input event reported by a front end.
type Event int

const (
	// EventToggle switches between running and paused.
	EventToggle Event = iota + 1
	// EventStep executes a single instruction while paused.
	EventStep
	// EventQuit ends the session.
	EventQuit
)

// Policy decides how an instruction that the engine does not support is
// handled.
type Policy int

const (
	// PolicyHalt stops execution with a HaltError.
	PolicyHalt Policy = iota
	// PolicySkip logs a warning and continues after the instruction.
	PolicySkip
)

func (p Policy) String() string {
	if p == PolicySkip {
		return "skip"
	}
	return "halt"
}

// ParsePolicy returns the policy for the given name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "halt":
		return PolicyHalt, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyHalt, fmt.Errorf("unsupported policy '%s'", name)
	}
}

// HaltError is returned when execution stops because of a fatal failure.
// Release is set when the failure has to end the process silently.
type HaltError struct {
	Err     error
	Address uint16
	Release bool
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("execution halted at $%04X: %s", e.Address, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}
