package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"quiz-widget/internal/quiz"
)

// Driver is the session the terminal plays against, either in-process or
// through the HTTP API.
type Driver interface {
	Start(ctx context.Context) (quiz.View, error)
	Apply(ctx context.Context, action quiz.Action, option int) (quiz.View, bool, error)
}

type LocalDriver struct {
	session *quiz.Session
}

func NewLocalDriver(questions []quiz.Question) (*LocalDriver, error) {
	session, err := quiz.NewSession(questions)
	if err != nil {
		return nil, err
	}
	return &LocalDriver{session: session}, nil
}

func (d *LocalDriver) Start(context.Context) (quiz.View, error) {
	return d.session.View(), nil
}

func (d *LocalDriver) Apply(_ context.Context, action quiz.Action, option int) (quiz.View, bool, error) {
	applied, err := d.session.Apply(action, option)
	if err != nil {
		return quiz.View{}, false, err
	}
	return d.session.View(), applied, nil
}

var errQuit = errors.New("quit")

// Run reads one command per line until quit or EOF.
func Run(ctx context.Context, in io.Reader, out io.Writer, driver Driver) error {
	view, err := driver.Start(ctx)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	printHelp(out)
	printView(out, view)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line != "" {
			next, handleErr := handleLine(ctx, out, driver, view, line)
			if errors.Is(handleErr, errQuit) {
				return nil
			}
			if handleErr != nil {
				return handleErr
			}
			view = next
		}

		if eof {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func handleLine(ctx context.Context, out io.Writer, driver Driver, view quiz.View, line string) (quiz.View, error) {
	command := strings.ToLower(line)
	switch command {
	case "q", "quit", "exit":
		return view, errQuit
	case "help", "?":
		printHelp(out)
		return view, nil
	case "n", "next":
		return apply(ctx, out, driver, view, quiz.ActionNext, quiz.Unset)
	case "p", "prev":
		return apply(ctx, out, driver, view, quiz.ActionPrev, quiz.Unset)
	case "s", "submit":
		return apply(ctx, out, driver, view, quiz.ActionSubmit, quiz.Unset)
	case "r", "restart":
		return apply(ctx, out, driver, view, quiz.ActionRestart, quiz.Unset)
	}

	option := quiz.LetterIndex(line)
	if option < 0 || view.Question == nil || option >= len(view.Question.Options) {
		printInvalid(out, view)
		return view, nil
	}
	return apply(ctx, out, driver, view, quiz.ActionSelect, option)
}

func apply(ctx context.Context, out io.Writer, driver Driver, before quiz.View, action quiz.Action, option int) (quiz.View, error) {
	view, applied, err := driver.Apply(ctx, action, option)
	if err != nil {
		return before, err
	}
	if !applied {
		if hint := noopHint(before, action); hint != "" {
			fmt.Fprintln(out, hint)
		}
		return view, nil
	}
	printView(out, view)
	return view, nil
}

func noopHint(view quiz.View, action quiz.Action) string {
	if view.Status == quiz.StatusSubmitted && action != quiz.ActionRestart {
		return "Quiz finished. Type r to start again."
	}

	switch action {
	case quiz.ActionNext:
		return "Pick an answer before moving on."
	case quiz.ActionPrev:
		return "Already at the first question."
	case quiz.ActionSubmit:
		if !view.IsLast {
			return "Submit is available on the last question."
		}
		return "Pick an answer before submitting."
	}
	return ""
}

func printView(out io.Writer, view quiz.View) {
	fmt.Fprintln(out)
	if view.Status == quiz.StatusSubmitted {
		percent := 0
		if view.Percent != nil {
			percent = *view.Percent
		}
		fmt.Fprintf(out, "Your final score is %d%%\n\n", percent)
		return
	}

	fmt.Fprintf(out, "Question %d of %d\n", view.CurrentIndex+1, view.QuestionCount)
	if view.Question == nil {
		return
	}
	fmt.Fprintf(out, "%s\n\n", view.Question.Text)
	for _, option := range view.Question.Options {
		mark := " "
		if option.Active {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %s. %s\n", mark, option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

func printInvalid(out io.Writer, view quiz.View) {
	if view.Question == nil || len(view.Question.Options) == 0 {
		fmt.Fprintln(out, "Unknown command. Type help for the list.")
		return
	}
	maxLetter := quiz.OptionLetter(len(view.Question.Options) - 1)
	fmt.Fprintf(out, "Invalid input. Please enter a letter A-%s or a command.\n", maxLetter)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  <letter>     select an answer")
	fmt.Fprintln(out, "  n, next      next question")
	fmt.Fprintln(out, "  p, prev      previous question")
	fmt.Fprintln(out, "  s, submit    submit on the last question")
	fmt.Fprintln(out, "  r, restart   start over")
	fmt.Fprintln(out, "  q, quit")
}
