package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"prog", "test.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.ch8"},
				Flags:      options.Flags{UI: options.UIWindow, Policy: options.PolicyHalt},
				Execution:  options.Execution{TickRate: 10, LoadOffset: 0x200},
			},
		},
		{
			name: "no program file",
			args: []string{"prog"},
			want: options.Program{
				Flags:     options.Flags{UI: options.UIWindow, Policy: options.PolicyHalt},
				Execution: options.Execution{TickRate: 10, LoadOffset: 0x200},
			},
		},
		{
			name: "headless defaults",
			args: []string{"prog", "-ui", "HEADLESS", "test.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.ch8"},
				Flags:      options.Flags{UI: options.UIHeadless, Policy: options.PolicyHalt, Run: true},
				Execution:  options.Execution{TickRate: 10, Ticks: 1000, LoadOffset: 0x200},
			},
		},
		{
			name: "execution flags",
			args: []string{"prog", "-ui", "terminal", "-rate", "60", "-ticks", "5", "-o", "$300",
				"-break", "0x204, 520", "-policy", "skip", "-run", "-release", "-source", "test.asm"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.asm"},
				Flags: options.Flags{UI: options.UITerminal, Policy: options.PolicySkip,
					Run: true, Release: true, Source: true},
				Execution: options.Execution{TickRate: 60, Ticks: 5, LoadOffset: 0x300,
					BreakpointValues: []uint16{0x204, 0x208}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want.Input, got.Input)
			assert.Equal(t, tt.want.UI, got.UI)
			assert.Equal(t, tt.want.Policy, got.Policy)
			assert.Equal(t, tt.want.Run, got.Run)
			assert.Equal(t, tt.want.Release, got.Release)
			assert.Equal(t, tt.want.Source, got.Source)
			assert.Equal(t, tt.want.TickRate, got.TickRate)
			assert.Equal(t, tt.want.Ticks, got.Ticks)
			assert.Equal(t, tt.want.LoadOffset, got.LoadOffset)
			assert.Equal(t, tt.want.BreakpointValues, got.BreakpointValues)
		})
	}
}

func TestParseFlags_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown front end", []string{"prog", "-ui", "vga", "test.ch8"}},
		{"unknown policy", []string{"prog", "-policy", "retry", "test.ch8"}},
		{"zero tick rate", []string{"prog", "-rate", "0", "test.ch8"}},
		{"invalid offset", []string{"prog", "-o", "0x1000", "test.ch8"}},
		{"invalid breakpoint", []string{"prog", "-break", "0x200,foo", "test.ch8"}},
		{"flag after file", []string{"prog", "test.ch8", "-run"}},
		{"two files", []string{"prog", "a.ch8", "b.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, err := ParseFlags()
			assert.Error(t, err)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"512", 0x200, false},
		{"0x200", 0x200, false},
		{"0X2A0", 0x2A0, false},
		{"$FFF", 0xFFF, false},
		{" 0x300 ", 0x300, false},
		{"0x1000", 0, true},
		{"4096", 0, true},
		{"$", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddressList(t *testing.T) {
	got, err := parseAddressList("")
	assert.NoError(t, err)
	assert.Len(t, got, 0)

	got, err = parseAddressList("$200,0x204")
	assert.NoError(t, err)
	assert.Equal(t, []uint16{0x200, 0x204}, got)
}
