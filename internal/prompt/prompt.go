// Package prompt drives the interactive side of the tool: reading menu
// choices and collecting names and scores typed by a user.
package prompt

//go:generate go tool mockgen -source=prompt.go -destination=mock_prompter_test.go -package=prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("input aborted")

// Prompter asks questions and shows messages. Ask returns io.EOF when the
// input is exhausted.
type Prompter interface {
	Ask(question string) (string, error)
	Say(msg string)
}

// New returns a huh-backed Prompter when in is a terminal and a plain line
// Prompter otherwise (pipes, tests, CI).
func New(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &FormPrompter{in: in, out: out}
	}
	return NewLinePrompter(in, out)
}

// LinePrompter reads one line of input per question.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLinePrompter returns a LinePrompter reading from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask writes question and returns the next input line without its newline.
func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question) //nolint:errcheck
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out) //nolint:errcheck
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

// Say writes msg followed by a newline.
func (p *LinePrompter) Say(msg string) {
	fmt.Fprintln(p.out, msg) //nolint:errcheck
}

// FormPrompter asks each question with a single-field huh form.
type FormPrompter struct {
	in  io.Reader
	out io.Writer
}

// Ask runs a one-input form titled with question.
func (p *FormPrompter) Ask(question string) (string, error) {
	var answer string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(strings.TrimSpace(question)).
				Value(&answer),
		),
	).WithInput(p.in).WithOutput(p.out).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// Say writes msg followed by a newline.
func (p *FormPrompter) Say(msg string) {
	fmt.Fprintln(p.out, msg) //nolint:errcheck
}
