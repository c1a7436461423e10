package httpapi

import (
	"html/template"

	"go.uber.org/zap"

	"quiz-widget/internal/quiz"
)

const defaultCookieName = "quiz_session"

type Options struct {
	CookieName   string
	SecureCookie bool
}

type API struct {
	service *quiz.Service
	log     *zap.Logger
	pages   *template.Template
	opts    Options
}

func NewAPI(service *quiz.Service, log *zap.Logger, opts Options) *API {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	return &API{
		service: service,
		log:     log.Named("http"),
		pages:   pages,
		opts:    opts,
	}
}
