package quiz

import (
	"errors"
	"fmt"
	"math"
)

// Unset marks a question that has no selection yet.
const Unset = -1

var (
	ErrInvalidState  = errors.New("invalid session state")
	ErrUnknownAction = errors.New("unknown action")
)

type Action string

const (
	ActionSelect  Action = "select"
	ActionNext    Action = "next"
	ActionPrev    Action = "prev"
	ActionSubmit  Action = "submit"
	ActionRestart Action = "restart"
)

func ParseAction(raw string) (Action, error) {
	switch action := Action(raw); action {
	case ActionSelect, ActionNext, ActionPrev, ActionSubmit, ActionRestart:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
}

// State is the storable snapshot of a Session.
type State struct {
	CurrentIndex int   `json:"current_index"`
	Selections   []int `json:"selections"`
	Submitted    bool  `json:"submitted"`
}

// Session is the quiz state machine: Answering(currentIndex) until a finish
// transition moves it to Submitted, and Restart returns it to Answering(0).
// A Session is not safe for concurrent use.
type Session struct {
	questions    []Question
	currentIndex int
	selections   []int
	submitted    bool
}

func NewSession(questions []Question) (*Session, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	s := &Session{questions: cloneQuestions(questions)}
	s.Restart()
	return s, nil
}

// Restore rebuilds a session over questions from a stored snapshot.
func Restore(questions []Question, state State) (*Session, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	if len(state.Selections) != len(questions) {
		return nil, fmt.Errorf("%w: %d selections for %d questions", ErrInvalidState, len(state.Selections), len(questions))
	}
	if state.CurrentIndex < 0 || state.CurrentIndex >= len(questions) {
		return nil, fmt.Errorf("%w: current index %d out of range", ErrInvalidState, state.CurrentIndex)
	}
	for idx, selection := range state.Selections {
		if selection != Unset && (selection < 0 || selection >= len(questions[idx].Options)) {
			return nil, fmt.Errorf("%w: selection %d for question %d out of range", ErrInvalidState, selection, idx)
		}
	}

	return &Session{
		questions:    cloneQuestions(questions),
		currentIndex: state.CurrentIndex,
		selections:   append([]int(nil), state.Selections...),
		submitted:    state.Submitted,
	}, nil
}

func (s *Session) State() State {
	return State{
		CurrentIndex: s.currentIndex,
		Selections:   append([]int(nil), s.selections...),
		Submitted:    s.submitted,
	}
}

func (s *Session) QuestionCount() int { return len(s.questions) }
func (s *Session) CurrentIndex() int  { return s.currentIndex }
func (s *Session) Submitted() bool    { return s.submitted }
func (s *Session) IsFirst() bool      { return s.currentIndex == 0 }
func (s *Session) IsLast() bool       { return s.currentIndex == len(s.questions)-1 }

func (s *Session) Current() Question {
	return s.questions[s.currentIndex]
}

// Selection returns the chosen option for question i and whether one is set.
func (s *Session) Selection(i int) (int, bool) {
	if i < 0 || i >= len(s.selections) || s.selections[i] == Unset {
		return Unset, false
	}
	return s.selections[i], true
}

func (s *Session) SelectOption(optionIndex int) bool {
	if s.submitted {
		return false
	}
	if optionIndex < 0 || optionIndex >= len(s.Current().Options) {
		return false
	}
	if s.selections[s.currentIndex] == optionIndex {
		return false
	}
	s.selections[s.currentIndex] = optionIndex
	return true
}

func (s *Session) GoNext() bool {
	if s.IsLast() {
		return s.finish()
	}
	if s.submitted || s.selections[s.currentIndex] == Unset {
		return false
	}
	s.currentIndex++
	return true
}

func (s *Session) GoPrev() bool {
	if s.submitted || s.currentIndex == 0 {
		return false
	}
	s.currentIndex--
	return true
}

func (s *Session) Submit() bool {
	if !s.IsLast() {
		return false
	}
	return s.finish()
}

// finish is the single Answering -> Submitted transition behind GoNext and Submit.
func (s *Session) finish() bool {
	if s.submitted || s.selections[s.currentIndex] == Unset {
		return false
	}
	s.submitted = true
	return true
}

func (s *Session) Restart() {
	s.selections = make([]int, len(s.questions))
	for idx := range s.selections {
		s.selections[idx] = Unset
	}
	s.currentIndex = 0
	s.submitted = false
}

// Apply dispatches a named action. option is only read by ActionSelect.
func (s *Session) Apply(action Action, option int) (bool, error) {
	switch action {
	case ActionSelect:
		return s.SelectOption(option), nil
	case ActionNext:
		return s.GoNext(), nil
	case ActionPrev:
		return s.GoPrev(), nil
	case ActionSubmit:
		return s.Submit(), nil
	case ActionRestart:
		before := s.State()
		s.Restart()
		return !sameState(before, s.State()), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func (s *Session) Score() int {
	score := 0
	for idx, question := range s.questions {
		if selection := s.selections[idx]; selection != Unset && selection == question.CorrectIndex {
			score++
		}
	}
	return score
}

func (s *Session) Percent() int {
	return int(math.Floor(float64(s.Score())/float64(len(s.questions))*100 + 0.5))
}

func sameState(a, b State) bool {
	if a.CurrentIndex != b.CurrentIndex || a.Submitted != b.Submitted || len(a.Selections) != len(b.Selections) {
		return false
	}
	for idx := range a.Selections {
		if a.Selections[idx] != b.Selections[idx] {
			return false
		}
	}
	return true
}
