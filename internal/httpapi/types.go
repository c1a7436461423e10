package httpapi

import "quiz-widget/internal/quiz"

type sessionResponse struct {
	SessionID string `json:"session_id"`
	quiz.View
}

type actionRequest struct {
	Action string `json:"action"`
	Option *int   `json:"option,omitempty"`
}

type actionResponse struct {
	SessionID string `json:"session_id"`
	Applied   bool   `json:"applied"`
	quiz.View
}

type errorResponse struct {
	Error string `json:"error"`
}
