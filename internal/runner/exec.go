package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/yaegashi/jupyterops/internal/logging"
	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1024 * 1024

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// LookPath resolves executables; defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{LookPath: exec.LookPath}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	logger := logging.FromContext(ctx).With("cmd", c.Name)
	res := &Result{}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(c.Name)
	if err != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindNotInstalled, Err: err}
	}

	logger.Debug(ctx, "exec", "command", c.String())

	cmd := exec.CommandContext(ctx, path, c.Args...)
	isolate(cmd)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: err}
	}
	var stdin io.WriteCloser
	if c.OnStderr != nil {
		if stdin, err = cmd.StdinPipe(); err != nil {
			return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: err}
		}
	}
	if err := cmd.Start(); err != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: err}
	}

	var (
		outBuf, errBuf strings.Builder
		mu             sync.Mutex
		markerLine     string
		killOnce       sync.Once
	)
	kill := func() {
		killOnce.Do(func() {
			_ = killTree(cmd)
			_ = stdout.Close()
			_ = stderr.Close()
		})
	}
	noteMarker := func(line string) {
		if !containsAny(line, c.FatalMarkers) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if markerLine == "" {
			markerLine = line
		}
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		return scanLines(stdout, func(line string) {
			outBuf.WriteString(line)
			outBuf.WriteByte('\n')
			noteMarker(line)
			if c.OnStdout != nil {
				c.OnStdout(line)
				return
			}
			logger.Info(ctx, c.mask(line))
		})
	})
	g.Go(func() error {
		var rejected error
		err := scanLines(stderr, func(line string) {
			errBuf.WriteString(line)
			errBuf.WriteByte('\n')
			if rejected != nil {
				return
			}
			noteMarker(line)
			switch {
			case c.OnStderr != nil:
				if cbErr := c.OnStderr(line, stdin); cbErr != nil {
					rejected = &ProcessError{Command: c.String(), Kind: KindAborted, Output: c.mask(cbErr.Error()), Err: cbErr}
				}
			case c.Stderr == StderrFatal:
				rejected = &ProcessError{Command: c.String(), Kind: KindStderr, Output: c.mask(line)}
			default:
				logger.Debug(ctx, c.mask(line), "stream", "stderr")
			}
			if rejected != nil {
				kill()
			}
		})
		if rejected != nil {
			return rejected
		}
		return err
	})

	streamErr := g.Wait()
	if stdin != nil {
		_ = stdin.Close()
	}
	waitErr := cmd.Wait()

	res.Stdout = outBuf.String()
	res.Stderr = errBuf.String()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var pe *ProcessError
	if errors.As(streamErr, &pe) {
		return res, pe
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindExit, ExitCode: res.ExitCode, Err: ctxErr}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, &ProcessError{Command: c.String(), Kind: KindExit, ExitCode: exitErr.ExitCode(), Output: c.mask(res.Stderr), Err: waitErr}
		}
		return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: waitErr}
	}
	if streamErr != nil {
		return res, &ProcessError{Command: c.String(), Kind: KindStart, Err: streamErr}
	}
	if markerLine != "" {
		return res, &ProcessError{Command: c.String(), Kind: KindMarker, Output: c.mask(markerLine)}
	}
	return res, nil
}

// scanLines calls fn for every line read from r, including a final line
// without a trailing newline.
func scanLines(r io.Reader, fn func(line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		fn(strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		// Drain so the process never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		if errors.Is(err, os.ErrClosed) {
			return nil
		}
		return err
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
