package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoQuestions     = errors.New("quiz requires at least one question")
	ErrInvalidQuestion = errors.New("invalid question")
)

// Question is one quiz item. Questions are supplied once and never mutated.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"-"`
}

func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q has %d options, need at least 2", ErrInvalidQuestion, q.Text, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %q correct index %d out of range", ErrInvalidQuestion, q.Text, q.CorrectIndex)
	}
	return nil
}

// DefaultQuestions returns the built-in question set in display order.
func DefaultQuestions() []Question {
	return []Question{
		{
			Text:         "1. What sound does a cat make?",
			Options:      []string{"Bhau-Bhau", "Meow-Meow", "Oink-Oink", "Moo-Moo"},
			CorrectIndex: 1,
		},
		{
			Text:         "2. What would you probably find in your fridge?",
			Options:      []string{"Shoes", "Ice Cream", "Books", "Soap"},
			CorrectIndex: 1,
		},
		{
			Text:         "3. What color are bananas?",
			Options:      []string{"Blue", "Yellow", "Red", "Green"},
			CorrectIndex: 1,
		},
		{
			Text:         "4. How many stars are in the sky?",
			Options:      []string{"Two", "Infinite", "One Hundred", "None"},
			CorrectIndex: 1,
		},
	}
}

func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for idx, question := range questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", idx, err)
		}
	}
	return nil
}

func cloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for idx, question := range questions {
		out[idx] = Question{
			Text:         question.Text,
			Options:      append([]string(nil), question.Options...),
			CorrectIndex: question.CorrectIndex,
		}
	}
	return out
}

// OptionLetter maps an option index to its display letter (0 -> "A").
func OptionLetter(index int) string {
	if index < 0 || index >= 26 {
		return ""
	}
	return string(rune('A' + index))
}

func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return ""
	}
	return letter
}

// LetterIndex returns the option index for a letter answer, or -1.
func LetterIndex(answer string) int {
	letter := NormalizeLetter(answer)
	if letter == "" {
		return -1
	}
	return int(letter[0] - 'A')
}
