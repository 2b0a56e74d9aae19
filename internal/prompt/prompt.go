// Package prompt provides confirmation prompts that resolve to one of a set of labels.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roguepikachu/scriptlab/pkg/ctxutil"
)

// ErrDismissed is returned when the prompt was closed without a choice.
var ErrDismissed = errors.New("prompt dismissed")

// Func adapts a plain function to a prompt.
type Func func(ctx context.Context, title, message string, options []string) (string, error)

// Show calls f.
func (f Func) Show(ctx context.Context, title, message string, options []string) (string, error) {
	return f(ctx, title, message, options)
}

// Answer returns a prompt that always picks label.
func Answer(label string) Func {
	return func(ctx context.Context, _, _ string, _ []string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return label, nil
	}
}

// Dismiss returns a prompt that is always dismissed.
func Dismiss() Func {
	return func(context.Context, string, string, []string) (string, error) {
		return "", ErrDismissed
	}
}

// Context answers with the label stored in the request context by
// ctxutil.WithConfirmation and is dismissed when none is present.
type Context struct{}

// Show implements the prompt contract.
func (Context) Show(ctx context.Context, _, _ string, options []string) (string, error) {
	answer, ok := ctxutil.Confirmation(ctx)
	if !ok {
		return "", ErrDismissed
	}
	if label, ok := match(answer, options); ok {
		return label, nil
	}
	return answer, nil
}

// Terminal asks on a line-oriented terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a terminal prompt reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Show prints the message and options and reads one answer. The answer may be
// a label (case-insensitive) or its 1-based index. End of input dismisses.
func (t *Terminal) Show(ctx context.Context, title, message string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = fmt.Sprintf("[%d] %s", i+1, o)
	}
	fmt.Fprintf(t.out, "%s\n%s\n%s: ", title, message, strings.Join(labels, " "))

	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrDismissed
		}
		return "", err
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", ErrDismissed
	}
	if label, ok := match(answer, options); ok {
		return label, nil
	}
	return answer, nil
}

func match(answer string, options []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o, answer) {
			return o, true
		}
	}
	return "", false
}
