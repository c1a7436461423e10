package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quiz-widget/internal/quiz"
)

func (a *API) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	sessionID, session, err := a.service.StartSession(r.Context())
	if err != nil {
		a.log.Error("start session failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sessionID,
		View:      session.View(),
	})
}

func (a *API) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	sessionID := strings.TrimSpace(chi.URLParam(r, "id"))
	session, err := a.service.GetSession(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sessionID,
		View:      session.View(),
	})
}

func (a *API) HandleSessionAction(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	defer r.Body.Close()

	var request actionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	action, err := quiz.ParseAction(strings.ToLower(strings.TrimSpace(request.Action)))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	option := -1
	if request.Option != nil {
		option = *request.Option
	}
	if action == quiz.ActionSelect && request.Option == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option is required for select"})
		return
	}

	sessionID := strings.TrimSpace(chi.URLParam(r, "id"))
	session, applied, err := a.service.Apply(r.Context(), sessionID, action, option)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		SessionID: sessionID,
		Applied:   applied,
		View:      session.View(),
	})
}

func (a *API) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	if err := a.service.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
