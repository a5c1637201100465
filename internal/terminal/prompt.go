package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the operator for input.
//
//go:generate mockgen -destination=terminalmock/prompter.go -package=terminalmock . Prompter
type Prompter interface {
	// Select returns one of options.
	Select(ctx context.Context, title string, options []string) (string, error)
	// Input reads free text. validate may be nil.
	Input(ctx context.Context, title string, validate func(string) error) (string, error)
	// Secret reads text without echoing it.
	Secret(ctx context.Context, title string, validate func(string) error) (string, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, title string) (bool, error)
}

// FormPrompter implements Prompter with huh forms. In accessible mode the
// forms degrade to plain line-based questions, which is what we want when
// stdin is not a terminal.
type FormPrompter struct {
	Accessible bool
	In         io.Reader
	Out        io.Writer
}

// NewFormPrompter returns a prompter on stdin/stdout, accessible unless stdin is a TTY.
func NewFormPrompter() *FormPrompter {
	return &FormPrompter{Accessible: !IsInteractive(), In: os.Stdin, Out: os.Stdout}
}

func (p *FormPrompter) run(ctx context.Context, title string, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible)
	if p.In != nil {
		form = form.WithInput(p.In)
	}
	if p.Out != nil {
		form = form.WithOutput(p.Out)
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt %q: %w", title, err)
	}
	return nil
}

func (p *FormPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("prompt %q: no options", title)
	}
	value := options[0]
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value)
	if err := p.run(ctx, title, field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *FormPrompter) Input(ctx context.Context, title string, validate func(string) error) (string, error) {
	return p.input(ctx, title, validate, huh.EchoModeNormal)
}

func (p *FormPrompter) Secret(ctx context.Context, title string, validate func(string) error) (string, error) {
	return p.input(ctx, title, validate, huh.EchoModePassword)
}

func (p *FormPrompter) input(ctx context.Context, title string, validate func(string) error, mode huh.EchoMode) (string, error) {
	var value string
	field := huh.NewInput().Title(title).EchoMode(mode).Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := p.run(ctx, title, field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *FormPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	var value bool
	field := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&value)
	if err := p.run(ctx, title, field); err != nil {
		return false, err
	}
	return value, nil
}

// Required rejects empty input with the given message.
func Required(msg string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New(msg)
		}
		return nil
	}
}

var _ Prompter = (*FormPrompter)(nil)
