package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quiz-widget/internal/quiz"
)

type browser struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func (b *browser) get() *httptest.ResponseRecorder {
	b.t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)
	b.remember(rec)
	return rec
}

func (b *browser) post(action string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/actions/"+action, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.router.ServeHTTP(rec, req)
	b.remember(rec)
	return rec
}

func (b *browser) remember(rec *httptest.ResponseRecorder) {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != defaultCookieName {
			continue
		}
		if cookie.MaxAge < 0 {
			b.cookie = nil
			continue
		}
		b.cookie = cookie
	}
}

func (b *browser) click(action string, option string) {
	b.t.Helper()

	form := url.Values{}
	if option != "" {
		form.Set("option", option)
	}
	rec := b.post(action, form)
	if rec.Code != http.StatusSeeOther {
		b.t.Fatalf("POST /actions/%s status = %d, want %d", action, rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		b.t.Fatalf("redirect location = %q, want /", got)
	}
}

func TestPageStartsSessionAndRendersFirstQuestion(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}

	rec := b.get()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if b.cookie == nil || b.cookie.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	if !b.cookie.HttpOnly {
		t.Fatalf("session cookie should be HttpOnly")
	}

	body := rec.Body.String()
	for _, want := range []string{"1. What sound does a cat make?", "Meow-Meow", `aria-label="Next"`, "Answer all questions"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
	if strings.Contains(body, `aria-label="Previous question"`) {
		t.Fatalf("previous button should be hidden on the first question")
	}

	first := b.cookie.Value
	b.get()
	if b.cookie.Value != first {
		t.Fatalf("session cookie changed on reload: %q -> %q", first, b.cookie.Value)
	}
}

func TestPageSelectionMarksActiveOption(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}
	b.get()

	b.click("select", "2")
	body := b.get().Body.String()

	if strings.Count(body, `aria-pressed="true"`) != 1 {
		t.Fatalf("expected exactly one pressed option")
	}
	if !strings.Contains(body, `aria-pressed="true" class="option option--active">Oink-Oink`) {
		t.Fatalf("selected option not marked active")
	}
}

func TestPageFlowToResultsAndRestart(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}
	b.get()

	b.click("next", "")
	if body := b.get().Body.String(); !strings.Contains(body, "1. What sound does a cat make?") {
		t.Fatalf("next without selection should stay on question 1")
	}

	picks := []string{"1", "1", "0", "1"}
	for idx, pick := range picks {
		b.click("select", pick)
		if idx == len(picks)-1 {
			body := b.get().Body.String()
			if !strings.Contains(body, `aria-label="Submit"`) || strings.Contains(body, `aria-label="Next"`) {
				t.Fatalf("last question should show Submit instead of Next")
			}
			b.click("submit", "")
			continue
		}
		b.click("next", "")
	}

	body := b.get().Body.String()
	if !strings.Contains(body, "Your Final score is") || !strings.Contains(body, `data-percent="75"`) {
		t.Fatalf("results page missing 75%% score: %s", body)
	}
	if !strings.Contains(body, "Start Again") {
		t.Fatalf("results page missing restart button")
	}

	b.click("restart", "")
	body = b.get().Body.String()
	if !strings.Contains(body, "1. What sound does a cat make?") || strings.Contains(body, `aria-pressed="true"`) {
		t.Fatalf("restart should show question 1 with no selection")
	}
}

func TestPagePrevKeepsSelection(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}
	b.get()

	b.click("select", "3")
	b.click("next", "")
	b.click("select", "0")
	b.click("prev", "")

	body := b.get().Body.String()
	if !strings.Contains(body, "1. What sound does a cat make?") {
		t.Fatalf("prev should return to question 1")
	}
	if !strings.Contains(body, `aria-pressed="true" class="option option--active">Moo-Moo`) {
		t.Fatalf("question 1 selection not kept after prev")
	}
}

func TestPageActionWithStaleCookieStartsOver(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}
	b.cookie = &http.Cookie{Name: defaultCookieName, Value: "expired"}

	b.click("next", "")
	if b.cookie != nil {
		t.Fatalf("stale cookie should be cleared")
	}

	rec := b.get()
	if rec.Code != http.StatusOK || b.cookie == nil || b.cookie.Value == "expired" {
		t.Fatalf("expected a new session after stale cookie, cookie=%+v", b.cookie)
	}
}

func TestPageUnknownAction(t *testing.T) {
	b := &browser{t: t, router: newTestRouter(t)}
	if rec := b.post("teleport", url.Values{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNewPageDataSegments(t *testing.T) {
	data := newPageData(quiz.View{Status: quiz.StatusAnswering, QuestionCount: 4, CurrentIndex: 1})

	want := []progressSegment{
		{Filled: true, Width: "100%"},
		{Filled: true, Width: "55%"},
		{},
		{},
	}
	for idx := range want {
		if data.Segments[idx] != want[idx] {
			t.Fatalf("segment %d = %+v, want %+v", idx, data.Segments[idx], want[idx])
		}
	}
}
