package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"quiz-widget/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type SessionView struct {
	SessionID string `json:"session_id"`
	Applied   bool   `json:"applied"`
	quiz.View
}

type actionRequest struct {
	Action string `json:"action"`
	Option *int   `json:"option,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultServer
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) CreateSession(ctx context.Context) (SessionView, error) {
	var payload SessionView
	if err := c.doJSON(ctx, http.MethodPost, "/api/sessions", nil, &payload); err != nil {
		return SessionView{}, err
	}
	return payload, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID string) (SessionView, error) {
	path, err := sessionPath(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	var payload SessionView
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return SessionView{}, err
	}
	return payload, nil
}

// ApplyAction sends one action. option is only sent for select.
func (c *HTTPClient) ApplyAction(ctx context.Context, sessionID string, action quiz.Action, option int) (SessionView, error) {
	path, err := sessionPath(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	request := actionRequest{Action: string(action)}
	if action == quiz.ActionSelect {
		request.Option = &option
	}

	var payload SessionView
	if err := c.doJSON(ctx, http.MethodPost, path+"/actions", request, &payload); err != nil {
		return SessionView{}, err
	}
	return payload, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, sessionID string) error {
	path, err := sessionPath(sessionID)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func sessionPath(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", errors.New("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
