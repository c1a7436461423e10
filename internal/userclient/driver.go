package userclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"quiz-widget/internal/quiz"
)

const (
	DefaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
}

// RemoteDriver plays one server-side session. It satisfies cli.Driver.
type RemoteDriver struct {
	client    *HTTPClient
	sessionID string
}

func NewRemoteDriver(cfg Config) *RemoteDriver {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return NewRemoteDriverWithClient(NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: timeout}))
}

func NewRemoteDriverWithClient(client *HTTPClient) *RemoteDriver {
	return &RemoteDriver{client: client}
}

func (d *RemoteDriver) SessionID() string {
	return d.sessionID
}

func (d *RemoteDriver) Start(ctx context.Context) (quiz.View, error) {
	session, err := d.client.CreateSession(ctx)
	if err != nil {
		return quiz.View{}, describeClientError(err, d.client.BaseURL())
	}
	d.sessionID = session.SessionID
	return session.View, nil
}

func (d *RemoteDriver) Apply(ctx context.Context, action quiz.Action, option int) (quiz.View, bool, error) {
	if d.sessionID == "" {
		return quiz.View{}, false, errors.New("session not started")
	}
	session, err := d.client.ApplyAction(ctx, d.sessionID, action, option)
	if err != nil {
		return quiz.View{}, false, describeClientError(err, d.client.BaseURL())
	}
	return session.View, session.Applied, nil
}

// Close ends the server-side session. Safe to call before Start.
func (d *RemoteDriver) Close(ctx context.Context) error {
	if d.sessionID == "" {
		return nil
	}
	err := d.client.DeleteSession(ctx, d.sessionID)
	d.sessionID = ""
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}
