package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Line prompts with numbered lists and plain line reads. It is used when
// stdin is not a terminal, e.g. when answers are piped in.
type Line struct {
	r     *bufio.Reader
	out   io.Writer
	lines chan lineResult
	once  sync.Once
}

type lineResult struct {
	text string
	err  error
}

// NewLine creates a Line prompter. Input is read on a goroutine started by
// the first prompt; a prompt waiting on it returns when ctx is cancelled.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		r:     bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult, 1),
	}
}

func (l *Line) Select(ctx context.Context, message string, choices []Choice) (Choice, error) {
	if len(choices) == 0 {
		return Choice{}, ErrNoChoices
	}

	for {
		fmt.Fprintln(l.out, header(message))
		for i, c := range choices {
			fmt.Fprintf(l.out, "  %d) %s\n", i+1, c.Label)
		}
		fmt.Fprintf(l.out, "Choose [1-%d]: ", len(choices))

		text, err := l.readLine(ctx)
		if err != nil {
			return Choice{}, err
		}

		n, err := strconv.Atoi(text)
		if err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		// a label typed out in full is accepted too
		for _, c := range choices {
			if strings.EqualFold(c.Label, text) {
				return c, nil
			}
		}
		fmt.Fprintln(l.out, errorStyle.Render(fmt.Sprintf(">> %q is not one of the choices", text)))
	}
}

func (l *Line) Input(ctx context.Context, message string, validate func(string) error) (string, error) {
	for {
		fmt.Fprint(l.out, header(message)+" ")

		text, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		if validate != nil {
			if err := validate(text); err != nil {
				fmt.Fprintln(l.out, errorStyle.Render(">> "+err.Error()))
				continue
			}
		}
		return text, nil
	}
}

func (l *Line) Confirm(ctx context.Context, message string) (bool, error) {
	fmt.Fprint(l.out, header(message)+" (y/N) ")

	text, err := l.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(text) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrInterrupted
	}
	l.once.Do(func() { go l.readLoop() })

	var res lineResult
	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case r, ok := <-l.lines:
		if !ok {
			return "", ErrInterrupted
		}
		res = r
	}

	if res.err != nil {
		if errors.Is(res.err, io.EOF) && res.text != "" {
			return strings.TrimSpace(res.text), nil
		}
		if errors.Is(res.err, io.EOF) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("read input: %w", res.err)
	}
	return strings.TrimSpace(res.text), nil
}

// readLoop feeds lines to readLine until the input fails or ends. A final
// partial line arrives together with io.EOF, after which the channel closes.
func (l *Line) readLoop() {
	defer close(l.lines)
	for {
		text, err := l.r.ReadString('\n')
		l.lines <- lineResult{text: text, err: err}
		if err != nil {
			return
		}
	}
}
