package httpapi

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quiz-widget/internal/quiz"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type progressSegment struct {
	Filled bool
	Width  template.CSS
}

type pageData struct {
	Submitted bool
	Percent   int
	IsFirst   bool
	IsLast    bool
	Question  *quiz.QuestionView
	Segments  []progressSegment
}

// HandlePage renders the visitor's cookie session, starting one when the
// cookie is missing or points at an expired session.
func (a *API) HandlePage(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	session, err := a.visitorSession(w, r)
	if err != nil {
		a.log.Error("load visitor session failed", zap.Error(err))
		http.Error(w, "request failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := a.pages.ExecuteTemplate(w, "quiz", newPageData(session.View())); err != nil {
		a.log.Error("render page failed", zap.Error(err))
	}
}

// HandlePageAction applies a form post and redirects back to the page.
func (a *API) HandlePageAction(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		http.Error(w, "quiz service unavailable", http.StatusInternalServerError)
		return
	}

	action, err := quiz.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sessionID := a.cookieSessionID(r)
	_, _, err = a.service.Apply(r.Context(), sessionID, action, parseOption(r.PostForm.Get("option")))
	if errors.Is(err, quiz.ErrSessionNotFound) {
		// Stale cookie: the redirect starts a fresh session.
		a.clearCookie(w)
	} else if err != nil {
		a.log.Error("apply page action failed", zap.String("action", string(action)), zap.Error(err))
		http.Error(w, "request failed", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *API) visitorSession(w http.ResponseWriter, r *http.Request) (*quiz.Session, error) {
	if sessionID := a.cookieSessionID(r); sessionID != "" {
		session, err := a.service.GetSession(r.Context(), sessionID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, quiz.ErrSessionNotFound) {
			return nil, err
		}
	}

	sessionID, session, err := a.service.StartSession(r.Context())
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}

func (a *API) cookieSessionID(r *http.Request) string {
	cookie, err := r.Cookie(a.opts.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (a *API) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func newPageData(view quiz.View) pageData {
	data := pageData{
		Submitted: view.Status == quiz.StatusSubmitted,
		IsFirst:   view.IsFirst,
		IsLast:    view.IsLast,
		Question:  view.Question,
		Segments:  make([]progressSegment, view.QuestionCount),
	}
	if view.Percent != nil {
		data.Percent = *view.Percent
	}

	// A segment is filled up to the current question; the current one is partial.
	for idx := range data.Segments {
		switch {
		case idx < view.CurrentIndex:
			data.Segments[idx] = progressSegment{Filled: true, Width: "100%"}
		case idx == view.CurrentIndex:
			data.Segments[idx] = progressSegment{Filled: true, Width: "55%"}
		}
	}
	return data
}
