// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
// Without a positional argument the embedded demo program is run.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] [program file]\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i == 0 {
			continue
		}
		if strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
		return &UsageError{
			msg: fmt.Sprintf("Unexpected argument %s, only one program file can be run", arg),
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.UI = strings.ToLower(opts.UI)
	if !contains(opts.UI, options.UIWindow, options.UITerminal, options.UIHeadless) {
		return fmt.Errorf("unsupported front end: %s. Valid options: %s",
			opts.UI, strings.Join([]string{options.UIWindow, options.UITerminal, options.UIHeadless}, ", "))
	}

	opts.Policy = strings.ToLower(opts.Policy)
	if !contains(opts.Policy, options.PolicyHalt, options.PolicySkip) {
		return fmt.Errorf("unsupported policy: %s. Valid options: %s, %s",
			opts.Policy, options.PolicyHalt, options.PolicySkip)
	}

	if opts.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d, must be positive", opts.TickRate)
	}

	switch {
	case opts.Ticks < 0 && opts.UI == options.UIHeadless:
		opts.Ticks = options.DefaultHeadlessTicks
	case opts.Ticks < 0:
		opts.Ticks = 0
	}

	// headless has no keyboard to leave the paused state
	if opts.UI == options.UIHeadless {
		opts.Run = true
	}

	offset, err := ParseAddress(opts.Offset)
	if err != nil {
		return fmt.Errorf("invalid load offset: %w", err)
	}
	opts.LoadOffset = offset

	breakpoints, err := parseAddressList(opts.Breakpoints)
	if err != nil {
		return fmt.Errorf("invalid breakpoint: %w", err)
	}
	opts.BreakpointValues = breakpoints

	return nil
}

// ParseAddress parses a decimal or hexadecimal ($ or 0x prefixed) address
// within the 4KB address space.
func ParseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	var value uint64
	var err error

	switch {
	case strings.HasPrefix(s, "$"):
		value, err = strconv.ParseUint(s[1:], 16, 16)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		value, err = strconv.ParseUint(s[2:], 16, 16)
	default:
		value, err = strconv.ParseUint(s, 10, 16)
	}
	if err != nil {
		return 0, fmt.Errorf("parsing address '%s': %w", s, err)
	}
	if value > 0xFFF {
		return 0, fmt.Errorf("address '%s' exceeds $FFF", s)
	}
	return uint16(value), nil
}

func parseAddressList(s string) ([]uint16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var addresses []uint16
	for part := range strings.SplitSeq(s, ",") {
		address, err := ParseAddress(part)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}

func contains(value string, valid ...string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Offset, "o", "0x200", "load offset of the program, decimal or hex with $ or 0x prefix")
	flags.StringVar(&opts.Breakpoints, "break", "", "comma separated list of breakpoint addresses that pause execution")
	flags.StringVar(&opts.UI, "ui", options.UIWindow, "front end to use (window/terminal/headless)")
	flags.StringVar(&opts.Policy, "policy", options.PolicyHalt, "handling of unsupported instructions (halt/skip)")
	flags.IntVar(&opts.TickRate, "rate", options.DefaultTickRate, "instructions executed per second while running")
	flags.IntVar(&opts.Ticks, "ticks", -1, "stop after executing this many instructions, 0 for unlimited (headless default 1000)")
	flags.BoolVar(&opts.Run, "run", false, "start running instead of paused")
	flags.BoolVar(&opts.Source, "source", false, "treat the input file as assembly source regardless of its extension")
	flags.BoolVar(&opts.Release, "release", false, "exit silently without memory dump when an instruction fails")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
