// Package runnertest provides a scripted runner.Runner for workflow tests.
package runnertest

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/yaegashi/jupyterops/internal/runner"
)

// Response is the scripted behaviour for commands matching a prefix.
type Response struct {
	prefix   []string
	stdout   []string
	stderr   []string
	exitCode int
	err      error
	once     bool
	used     bool
}

// Returns sets the stdout lines the command prints.
func (r *Response) Returns(lines ...string) *Response { r.stdout = lines; return r }

// Stderr sets the stderr lines the command prints.
func (r *Response) Stderr(lines ...string) *Response { r.stderr = lines; return r }

// Exits makes the command exit with the given status.
func (r *Response) Exits(code int) *Response { r.exitCode = code; return r }

// Fails makes Run return err after streaming output.
func (r *Response) Fails(err error) *Response { r.err = err; return r }

// Once limits the response to a single matching call.
func (r *Response) Once() *Response { r.once = true; return r }

// Fake is a scripted runner. Commands without a matching response succeed
// with no output. Safe for sequential use from one workflow.
type Fake struct {
	mu        sync.Mutex
	responses []*Response
	calls     []runner.Command
	stdin     []string
}

// On registers a response for commands whose name and leading arguments
// equal prefix. Later registrations take precedence.
func (f *Fake) On(prefix ...string) *Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &Response{prefix: prefix}
	f.responses = append([]*Response{r}, f.responses...)
	return r
}

// Calls returns the commands run so far.
func (f *Fake) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// CommandLines returns each call rendered as "name arg1 arg2 ...", secrets unmasked.
func (f *Fake) CommandLines() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, strings.Join(append([]string{c.Name}, c.Args...), " "))
	}
	return out
}

// Stdin returns what the workflow wrote to the stdin of call i.
func (f *Fake) Stdin(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.stdin) {
		return ""
	}
	return f.stdin[i]
}

// Run implements runner.Runner with the same stderr and marker semantics as runner.ExecRunner.
func (f *Fake) Run(ctx context.Context, c runner.Command) (*runner.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.stdin = append(f.stdin, "")
	idx := len(f.calls) - 1
	resp := f.match(c)
	f.mu.Unlock()

	res := &runner.Result{}
	if err := ctx.Err(); err != nil {
		return res, &runner.ProcessError{Command: c.String(), Kind: runner.KindExit, Err: err}
	}
	if resp == nil {
		return res, nil
	}

	var marker string
	note := func(line string) {
		if marker != "" {
			return
		}
		for _, m := range c.FatalMarkers {
			if m != "" && strings.Contains(line, m) {
				marker = line
				return
			}
		}
	}
	for _, line := range resp.stdout {
		res.Stdout += line + "\n"
		note(line)
		if c.OnStdout != nil {
			c.OnStdout(line)
		}
	}
	var stdin bytes.Buffer
	for _, line := range resp.stderr {
		res.Stderr += line + "\n"
		note(line)
		switch {
		case c.OnStderr != nil:
			err := c.OnStderr(line, &stdin)
			f.recordStdin(idx, stdin.String())
			if err != nil {
				return res, &runner.ProcessError{Command: c.String(), Kind: runner.KindAborted, Output: err.Error(), Err: err}
			}
		case c.Stderr == runner.StderrFatal:
			return res, &runner.ProcessError{Command: c.String(), Kind: runner.KindStderr, Output: line}
		}
	}
	res.ExitCode = resp.exitCode
	if resp.err != nil {
		return res, resp.err
	}
	if resp.exitCode != 0 {
		return res, &runner.ProcessError{Command: c.String(), Kind: runner.KindExit, ExitCode: resp.exitCode, Output: res.Stderr}
	}
	if marker != "" {
		return res, &runner.ProcessError{Command: c.String(), Kind: runner.KindMarker, Output: marker}
	}
	return res, nil
}

func (f *Fake) recordStdin(i int, s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stdin[i] = s
}

func (f *Fake) match(c runner.Command) *Response {
	argv := append([]string{c.Name}, c.Args...)
	for _, r := range f.responses {
		if r.once && r.used {
			continue
		}
		if hasPrefix(argv, r.prefix) {
			r.used = true
			return r
		}
	}
	return nil
}

func hasPrefix(argv, prefix []string) bool {
	if len(prefix) > len(argv) {
		return false
	}
	for i, p := range prefix {
		if argv[i] != p {
			return false
		}
	}
	return true
}

var _ runner.Runner = (*Fake)(nil)
