package quiz

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRecord struct {
	SessionID string
	State     State
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SessionRepository interface {
	CreateSession(ctx context.Context, record SessionRecord) error
	GetSession(ctx context.Context, sessionID string) (SessionRecord, error)
	SaveSession(ctx context.Context, record SessionRecord) error
	DeleteSession(ctx context.Context, sessionID string) error
	// PurgeExpired removes sessions last updated before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
}
