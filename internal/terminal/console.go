// Package terminal holds operator-facing I/O: prompts, progress spinners and
// styled status lines.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Display shows progress and results to the operator.
type Display interface {
	Info(msg string)
	Success(msg string)
	Failure(msg string)
	Link(label, url string)
	// Spin runs fn while a progress indicator with title is shown.
	Spin(ctx context.Context, title string, fn func() error) error
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true)
	logoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

const logo = `
     _                   _
    (_)_   _ _ __  _   _| |_ ___ _ __ ___  _ __  ___
    | | | | | '_ \| | | | __/ _ \ '__/ _ \| '_ \/ __|
    | | |_| | |_) | |_| | ||  __/ | | (_) | |_) \__ \
   _/ |\__,_| .__/ \__, |\__\___|_|  \___/| .__/|___/
  |__/      |_|    |___/                  |_|
`

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Console writes styled lines to Out. When Interactive is false, styling
// and animation are off and spinners print their title once.
type Console struct {
	Out         io.Writer
	Interactive bool
	mu          sync.Mutex
}

// Logo prints the banner; only on a TTY.
func (c *Console) Logo() {
	if c.Interactive {
		c.println(logoStyle.Render(logo))
	}
}

// Greet prints the welcome line.
func (c *Console) Greet() {
	c.println("\nWelcome to the JupyterLab initializer\n")
}

func (c *Console) Info(msg string)    { c.println(c.style(infoStyle, msg)) }
func (c *Console) Success(msg string) { c.println(c.style(successStyle, msg)) }
func (c *Console) Failure(msg string) { c.println(c.style(failureStyle, msg)) }

func (c *Console) Link(label, url string) {
	c.println(fmt.Sprintf("%s %s", label, c.style(linkStyle, url)))
}

func (c *Console) Spin(ctx context.Context, title string, fn func() error) error {
	if !c.Interactive {
		c.println(title + "...")
		return fn()
	}
	return awaitStep(fn, func(wait func()) error {
		return spinner.New().Title(" " + title).Context(ctx).Action(wait).Run()
	})
}

// awaitStep runs fn on its own goroutine while show animates. show may give
// up early, e.g. on cancellation, but awaitStep returns only after fn does.
// fn's error wins over show's.
func awaitStep(fn func() error, show func(wait func()) error) error {
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		err = fn()
	}()
	serr := show(func() { <-done })
	<-done
	if err == nil {
		err = serr
	}
	return err
}

func (c *Console) style(s lipgloss.Style, msg string) string {
	if !c.Interactive {
		return msg
	}
	return s.Render(msg)
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.Out, s)
}

var _ Display = (*Console)(nil)
