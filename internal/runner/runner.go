// Package runner spawns external commands (cloud CLIs and container tooling),
// streams their output line by line and classifies failures.
package runner

import (
	"context"
	"io"
	"strings"
)

// StderrPolicy decides what output on stderr means.
type StderrPolicy int

const (
	// StderrFatal fails the run on the first stderr output, even when the
	// process would have exited 0.
	StderrFatal StderrPolicy = iota
	// StderrDiagnostic treats stderr as progress text. The run fails on a
	// non-zero exit status, or when a FatalMarkers entry shows up in any line.
	StderrDiagnostic
)

// LineFunc receives one line of output without its trailing newline.
type LineFunc func(line string)

// StderrFunc receives one stderr line and a writer connected to the process
// stdin. Returning an error kills the process and fails the run.
type StderrFunc func(line string, stdin io.Writer) error

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Env  []string // extra KEY=VALUE pairs appended to the current environment
	Dir  string

	OnStdout LineFunc   // nil forwards stdout lines to the context logger
	OnStderr StderrFunc // when set, replaces the Stderr policy

	Stderr       StderrPolicy
	FatalMarkers []string // substrings that fail the run when seen on either stream
	Secrets      []string // values masked in logs and errors
}

// String renders the command line with secrets masked.
func (c Command) String() string {
	return c.mask(strings.Join(append([]string{c.Name}, c.Args...), " "))
}

func (c Command) mask(s string) string {
	for _, secret := range c.Secrets {
		if secret != "" {
			s = strings.ReplaceAll(s, secret, "****")
		}
	}
	return s
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	if r == nil {
		return ""
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + r.Stderr
}

// Runner runs external commands.
//
//go:generate mockgen -destination=runnermock/runner.go -package=runnermock . Runner
type Runner interface {
	// Run starts the command and blocks until it exits, the context is
	// cancelled, or its output is rejected. The Result is returned even when
	// err is non-nil so callers can inspect partial output.
	Run(ctx context.Context, cmd Command) (*Result, error)
}
