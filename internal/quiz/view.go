package quiz

const (
	StatusAnswering = "answering"
	StatusSubmitted = "submitted"
)

type OptionView struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

type QuestionView struct {
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

// View is the render model shared by the HTML page, the JSON API and the
// terminal. It never carries the correct answer.
type View struct {
	Status        string        `json:"status"`
	QuestionCount int           `json:"question_count"`
	CurrentIndex  int           `json:"current_index"`
	IsFirst       bool          `json:"is_first"`
	IsLast        bool          `json:"is_last"`
	Question      *QuestionView `json:"question,omitempty"`
	Selections    []*int        `json:"selections"`
	Score         *int          `json:"score,omitempty"`
	Percent       *int          `json:"percent,omitempty"`
}

func (s *Session) View() View {
	view := View{
		Status:        StatusAnswering,
		QuestionCount: s.QuestionCount(),
		CurrentIndex:  s.currentIndex,
		IsFirst:       s.IsFirst(),
		IsLast:        s.IsLast(),
		Selections:    make([]*int, len(s.selections)),
	}

	for idx := range s.selections {
		if selection, ok := s.Selection(idx); ok {
			view.Selections[idx] = &selection
		}
	}

	if s.submitted {
		score, percent := s.Score(), s.Percent()
		view.Status = StatusSubmitted
		view.Score = &score
		view.Percent = &percent
		return view
	}

	current := s.Current()
	selected, _ := s.Selection(s.currentIndex)
	question := &QuestionView{
		Text:    current.Text,
		Options: make([]OptionView, len(current.Options)),
	}
	for idx, text := range current.Options {
		question.Options[idx] = OptionView{
			Index:  idx,
			Letter: OptionLetter(idx),
			Text:   text,
			Active: idx == selected,
		}
	}
	view.Question = question
	return view
}
