package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gradebook-analyzer/gradebook/internal/dataset"
	"github.com/gradebook-analyzer/gradebook/internal/gradebook"
)

// InvalidScoreMessage is shown before re-asking for a score.
const InvalidScoreMessage = "Invalid score. Enter a number (e.g., 78 or 92.5)."

// Collect asks for students one by one and adds them to b. A blank name ends
// the session. A score that does not parse is asked again. When the input
// ends or the user aborts, what was collected so far is kept.
func Collect(p Prompter, b *gradebook.Builder) error {
	p.Say("Manual entry. Enter students one by one. Leave name blank to finish.")
	for {
		name, err := p.Ask("Student name: ")
		if err != nil {
			return endOfInput(err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}

		score, err := askScore(p, name)
		if err != nil {
			return endOfInput(err)
		}
		b.Add(gradebook.ScoreRecord{Name: name, Score: score})
	}
}

func askScore(p Prompter, name string) (float64, error) {
	for {
		raw, err := p.Ask(fmt.Sprintf("Score for %s: ", name))
		if err != nil {
			return 0, err
		}
		score, err := dataset.ParseScore(raw)
		if err == nil {
			return score, nil
		}
		p.Say(InvalidScoreMessage)
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

// Choice normalizes a menu answer: trimmed and lower-cased.
func Choice(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
