// Package pipeline orchestrates the emulation workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// Pipeline orchestrates the complete emulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader

	input       *os.File  // keyboard of the terminal front end
	output      io.Writer // frames of the text front ends
	diagnostics io.Writer // memory dump of a halted machine
}

// New creates a new emulation pipeline using the standard streams.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:      logger,
		detector:    detector.New(logger),
		loader:      loader.New(),
		input:       os.Stdin,
		output:      os.Stdout,
		diagnostics: os.Stderr,
	}
}

// Execute loads the program of the options and runs it in the selected
// front end until the session ends.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) error {
	machine, err := p.Prepare(opts)
	if err != nil {
		return err
	}

	cfg, err := config.CreateDriverConfig(opts, p.diagnostics)
	if err != nil {
		return fmt.Errorf("creating driver config: %w", err)
	}

	switch opts.UI {
	case options.UIHeadless:
		return p.runHeadless(ctx, machine, driver.New(p.logger, machine, cfg))
	case options.UITerminal:
		// the terminal is raw while running, the dump is written after restoring it
		var dump bytes.Buffer
		cfg.Diagnostics = &dump
		frontend := terminal.New(p.logger, machine, p.input, p.output)
		return p.runInteractive(ctx, driver.New(p.logger, machine, cfg), frontend, &dump)
	case options.UIWindow, "":
		return p.runWindow(ctx, machine, driver.New(p.logger, machine, cfg))
	default:
		return fmt.Errorf("unsupported front end '%s'", opts.UI)
	}
}

// Prepare detects the input format, loads the program and returns a
// machine with the program in memory.
func (p *Pipeline) Prepare(opts options.Program) (*vm.VM, error) {
	system, format := p.detector.Detect(opts)
	opts.System = system

	prog, err := p.loader.Load(opts, format)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	machine := vm.New()
	if err := machine.Load(prog.Origin, prog.Data); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	p.printInfo(opts, prog, format)
	return machine, nil
}

func (p *Pipeline) runHeadless(ctx context.Context, machine *vm.VM, drv *driver.Driver) error {
	frontend := headless.New(machine, p.output)
	runErr := drv.RunUnpaced(ctx)

	status := drv.Status()
	status.Done = true
	if err := frontend.Render(status); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// interactiveFrontend is a front end that takes over the terminal between
// Start and Stop.
type interactiveFrontend interface {
	driver.Frontend
	Start() error
	Stop()
}

// runInteractive runs the driver in the front end. Diagnostics collected in
// dump are written once the front end has released the terminal.
func (p *Pipeline) runInteractive(ctx context.Context, drv *driver.Driver, frontend interactiveFrontend, dump *bytes.Buffer) error {
	if err := frontend.Start(); err != nil {
		return fmt.Errorf("starting terminal front end: %w", err)
	}
	runErr := drv.Run(ctx, frontend)
	frontend.Stop()

	if dump.Len() > 0 {
		if _, err := dump.WriteTo(p.diagnostics); err != nil {
			return errors.Join(runErr, fmt.Errorf("writing diagnostics: %w", err))
		}
	}
	return runErr
}

func (p *Pipeline) runWindow(ctx context.Context, machine *vm.VM, drv *driver.Driver) error {
	frontend := window.New(p.logger, machine, drv)
	return frontend.Run(ctx)
}

// printInfo prints information about the program being run.
func (p *Pipeline) printInfo(opts options.Program, prog *loader.Program, format detector.Format) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Loaded program",
		log.Stringer("system", opts.System),
		log.String("file", prog.Name),
		log.Stringer("format", format),
		log.Int("size", len(prog.Data)),
		log.Hex("offset", prog.Origin),
		log.String("ui", opts.UI),
	)
	if prog.Origin != vm.ProgramStart {
		p.logger.Warn("Program is not loaded at the initial program counter",
			log.Hex("offset", prog.Origin),
			log.Hex("pc", uint16(vm.ProgramStart)))
	}
}
