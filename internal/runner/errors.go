package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why an external command failed.
type ErrorKind string

const (
	KindNotInstalled ErrorKind = "not-installed" // executable not found in PATH
	KindStart        ErrorKind = "start"         // process could not be started
	KindExit         ErrorKind = "exit"          // non-zero exit status
	KindStderr       ErrorKind = "stderr"        // output on stderr under StderrFatal
	KindMarker       ErrorKind = "marker"        // a FatalMarkers entry was seen in the output
	KindAborted      ErrorKind = "aborted"       // an OnStderr callback rejected the output
)

// ProcessError describes a failed external command. Secrets are already masked.
type ProcessError struct {
	Command  string
	Kind     ErrorKind
	ExitCode int
	Output   string // stderr text, the offending line, or the callback error text
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Command)
	switch e.Kind {
	case KindExit:
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	case KindNotInstalled:
		b.WriteString(": not found in PATH")
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString(": ")
		b.WriteString(out)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ContainsText reports whether err is a ProcessError whose output (or the
// error chain text) contains any of the given substrings. Workflows use it to
// tolerate expected provider conditions such as "already exists".
func ContainsText(err error, subs ...string) bool {
	if err == nil {
		return false
	}
	text := err.Error()
	var pe *ProcessError
	if errors.As(err, &pe) {
		text = pe.Output + "\n" + text
	}
	for _, s := range subs {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// IsKind reports whether err is a ProcessError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *ProcessError
	return errors.As(err, &pe) && pe.Kind == kind
}
