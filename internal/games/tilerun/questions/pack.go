// Package questions provides trivia packs for the Tile Run minigame.
// This package depends on core but core does not depend on questions.
package questions

import "fmt"

// MaxOptions is the most options a question may have. The answer keys
// are the digits 1-4, so longer option lists would be unreachable.
const MaxOptions = 4

// Question is a single multiple-choice prompt.
type Question struct {
	ID      string
	Prompt  string
	Options []string
	Answer  int    // index into Options
	Info    string // optional note shown after answering
}

// Pack is a named collection of questions.
type Pack struct {
	ID        string
	Name      string
	Questions []Question
	FilePath  string
}

// Validate checks that the pack is playable.
func (p *Pack) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack has no id")
	}
	if len(p.Questions) == 0 {
		return fmt.Errorf("pack %s has no questions", p.ID)
	}
	for i, q := range p.Questions {
		if q.Prompt == "" {
			return fmt.Errorf("pack %s: question %d has no prompt", p.ID, i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("pack %s: question %d needs at least 2 options", p.ID, i)
		}
		if len(q.Options) > MaxOptions {
			return fmt.Errorf("pack %s: question %d has more than %d options", p.ID, i, MaxOptions)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("pack %s: question %d answer %d out of range", p.ID, i, q.Answer)
		}
	}
	return nil
}
