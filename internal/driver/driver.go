// Package driver paces the execution of a CHIP-8 machine. It owns the
// run state, converts elapsed wall time into ticks, applies the failure
// policy for unsupported instructions and stops at breakpoints.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

const (
	// DefaultTickRate is the number of instructions executed per second.
	DefaultTickRate = 10

	// MaxTicksPerFrame limits the ticks executed in a single frame, time that
	// exceeds it is dropped instead of being caught up later.
	MaxTicksPerFrame = 256

	// FrameRate is the frame rate of Run.
	FrameRate = 60

	// contextCheckInterval is the number of unpaced ticks between checks
	// for context cancellation.
	contextCheckInterval = 1024
)

// Machine is the part of the virtual machine that the driver controls.
type Machine interface {
	Tick() error
	SkipInstruction()
	Instruction() vm.Instruction
	Registers() vm.Registers
	DumpMemory(w io.Writer) error
}

// Frontend presents the machine and reports user input.
type Frontend interface {
	// Poll returns the events that occurred since the last call.
	Poll() []Event
	// Render presents the current machine state.
	Render(status Status) error
}

// Config of the driver.
type Config struct {
	TickRate    int       // instructions per second while running
	MaxTicks    int       // stop after this many instructions, 0 for unlimited
	Policy      Policy    // handling of unsupported instructions
	Release     bool      // do not dump memory on a fatal failure
	Running     bool      // initial state
	Breakpoints []uint16  // addresses that pause execution before they execute
	Diagnostics io.Writer // destination of the memory dump
}

// Status is a snapshot of the driver state for front ends.
type Status struct {
	State State
	Ticks int
	Done  bool
}

// Driver executes a machine according to its configuration.
type Driver struct {
	logger  *log.Logger
	machine Machine
	cfg     Config

	state       State
	ticks       int
	accumulator time.Duration
	period      time.Duration
	breakpoints set.Set[uint16]
	stoppedAt   uint16 // breakpoint that paused execution, ignored once when resuming there
	stopped     bool
	done        bool
}

// New returns a driver for the machine.
func New(logger *log.Logger, machine Machine, cfg Config) *Driver {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}

	breakpoints := set.New[uint16]()
	for _, address := range cfg.Breakpoints {
		breakpoints.Add(address)
	}

	d := &Driver{
		logger:      logger,
		machine:     machine,
		cfg:         cfg,
		state:       Paused,
		period:      time.Second / time.Duration(cfg.TickRate),
		breakpoints: breakpoints,
	}
	if cfg.Running {
		d.state = Running
	}
	return d
}

// State returns the current run state.
func (d *Driver) State() State {
	return d.state
}

// Ticks returns the number of executed instructions.
func (d *Driver) Ticks() int {
	return d.ticks
}

// Status returns a snapshot of the driver state.
func (d *Driver) Status() Status {
	return Status{
		State: d.state,
		Ticks: d.ticks,
		Done:  d.done,
	}
}

// Frame processes the input events of one frame and executes the ticks that
// are due for the elapsed time. It returns true when the session is over,
// either by a quit event or by reaching the configured tick limit.
func (d *Driver) Frame(events []Event, elapsed time.Duration) (bool, error) {
	if d.done {
		return true, nil
	}

	for _, event := range events {
		switch event {
		case EventQuit:
			d.logger.Info("Quit requested")
			d.done = true
			return true, nil

		case EventToggle:
			d.toggle()

		case EventStep:
			if d.state != Paused {
				continue
			}
			if err := d.step(); err != nil {
				return true, err
			}
			if d.done {
				return true, nil
			}
		}
	}

	if d.state != Running {
		return false, nil
	}

	d.accumulator += elapsed
	due := int(d.accumulator / d.period)
	d.accumulator -= time.Duration(due) * d.period
	if due > MaxTicksPerFrame {
		due = MaxTicksPerFrame
		d.accumulator = 0
	}

	for range due {
		if d.atBreakpoint() {
			return false, nil
		}
		if err := d.step(); err != nil {
			return true, err
		}
		if d.done {
			return true, nil
		}
	}
	return false, nil
}

// Run drives the front end at FrameRate until the session ends, a fatal
// error occurs or the context is canceled.
func (d *Driver) Run(ctx context.Context, frontend Frontend) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running machine: %w", ctx.Err())

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			done, err := d.Frame(frontend.Poll(), elapsed)
			if renderErr := frontend.Render(d.Status()); renderErr != nil && err == nil {
				err = fmt.Errorf("rendering frame: %w", renderErr)
			}
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// RunUnpaced executes ticks without pacing until the tick limit is reached,
// a breakpoint is hit, a fatal error occurs or the context is canceled.
func (d *Driver) RunUnpaced(ctx context.Context) error {
	if d.state != Running {
		d.toggle()
	}

	for d.state == Running && !d.done {
		if d.ticks%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("running machine: %w", err)
			}
		}
		if d.atBreakpoint() {
			return nil
		}
		if err := d.step(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) toggle() {
	regs := d.machine.Registers()
	if d.state == Running {
		d.state = Paused
		d.logger.Info("Execution paused", log.Hex("pc", regs.PC))
		return
	}

	d.state = Running
	d.accumulator = 0
	d.logger.Info("Execution resumed", log.Hex("pc", regs.PC))
}

// atBreakpoint pauses execution when the next instruction is a breakpoint.
func (d *Driver) atBreakpoint() bool {
	pc := d.machine.Registers().PC
	if d.stopped {
		d.stopped = false
		if pc == d.stoppedAt {
			return false
		}
	}
	if !d.breakpoints.Contains(pc) {
		return false
	}

	d.state = Paused
	d.stopped = true
	d.stoppedAt = pc
	d.logger.Info("Breakpoint reached", log.Hex("pc", pc))
	return true
}

// step executes a single instruction and applies the failure policy.
func (d *Driver) step() error {
	pc := d.machine.Registers().PC
	word := d.machine.Instruction()
	text, _ := disasm.Disassemble(uint16(word))
	d.logger.Debug("Tick",
		log.Hex("pc", pc),
		log.Stringer("word", word),
		log.String("instruction", text))

	if err := d.machine.Tick(); err != nil {
		if herr := d.handleError(err, pc); herr != nil {
			d.done = true
			return herr
		}
	}

	d.ticks++
	if d.cfg.MaxTicks > 0 && d.ticks >= d.cfg.MaxTicks {
		d.logger.Info("Tick limit reached", log.Int("ticks", d.ticks))
		d.done = true
	}
	return nil
}

func (d *Driver) handleError(err error, pc uint16) error {
	if errors.Is(err, vm.ErrUnsupportedOpcode) && d.cfg.Policy == PolicySkip {
		d.logger.Warn("Skipping unsupported instruction", log.Hex("pc", pc), log.Err(err))
		d.machine.SkipInstruction()
		return nil
	}

	if !d.cfg.Release && d.cfg.Diagnostics != nil {
		if dumpErr := d.machine.DumpMemory(d.cfg.Diagnostics); dumpErr != nil {
			d.logger.Error("Dumping memory failed", log.Err(dumpErr))
		}
	}
	return &HaltError{
		Err:     err,
		Address: pc,
		Release: d.cfg.Release,
	}
}
