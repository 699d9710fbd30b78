// Package prompt collects operator input: picking one entry from a closed
// list of labeled choices, typing free text, or answering yes/no.
package prompt

import (
	"context"
	"errors"
)

var (
	// ErrInterrupted is returned when the operator aborts a prompt (Ctrl+C,
	// Esc, end of input) or the context is cancelled.
	ErrInterrupted = errors.New("prompt interrupted")

	// ErrNoChoices is returned by Select when there is nothing to pick.
	ErrNoChoices = errors.New("no choices to select from")
)

// Kind distinguishes row-backed choices from the synthetic ones.
type Kind int

const (
	KindItem Kind = iota
	KindNone
	KindBack
)

// Choice is a label shown to the operator and the identifier kept behind it.
type Choice struct {
	Label string
	Value int64
	Kind  Kind
}

// Item returns a choice backed by a row id (or a menu action).
func Item(label string, value int64) Choice {
	return Choice{Label: label, Value: value, Kind: KindItem}
}

// None is the explicit "no value" choice, e.g. an employee without a manager.
func None() Choice {
	return Choice{Label: "None", Kind: KindNone}
}

// Back returns to the previous menu.
func Back() Choice {
	return Choice{Label: "Go Back", Kind: KindBack}
}

// Prompter is the prompt facility the session loop depends on.
type Prompter interface {
	Select(ctx context.Context, message string, choices []Choice) (Choice, error)
	Input(ctx context.Context, message string, validate func(string) error) (string, error)
	Confirm(ctx context.Context, message string) (bool, error)
}
