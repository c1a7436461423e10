package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service hosts one quiz session per visitor on top of a SessionRepository.
type Service struct {
	questions []Question
	sessions  SessionRepository
	log       *zap.Logger
	now       func() time.Time

	// mu serializes load-apply-save so a visitor's clicks apply one at a time.
	mu sync.Mutex
}

func NewService(questions []Question, sessions SessionRepository, log *zap.Logger) (*Service, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, errors.New("session repository is not configured")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		questions: cloneQuestions(questions),
		sessions:  sessions,
		log:       log.Named("quiz"),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Service) StartSession(ctx context.Context) (string, *Session, error) {
	session, err := NewSession(s.questions)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	record := SessionRecord{
		SessionID: uuid.NewString(),
		State:     session.State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, record); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Debug("session started", zap.String("session_id", record.SessionID))
	return record.SessionID, session, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	_, session, err := s.load(ctx, sessionID)
	return session, err
}

// Apply runs one action against a stored session. Actions that the state
// machine absorbs as no-ops return applied=false and no error.
func (s *Service) Apply(ctx context.Context, sessionID string, action Action, option int) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	applied, err := session.Apply(action, option)
	if err != nil {
		return nil, false, err
	}

	record.State = session.State()
	record.UpdatedAt = s.now()
	if err := s.sessions.SaveSession(ctx, record); err != nil {
		return nil, false, fmt.Errorf("save session: %w", err)
	}

	s.log.Debug("action applied",
		zap.String("session_id", record.SessionID),
		zap.String("action", string(action)),
		zap.Int("option", option),
		zap.Bool("applied", applied),
		zap.Int("current_index", record.State.CurrentIndex),
		zap.Bool("submitted", record.State.Submitted),
	)
	return session, applied, nil
}

func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrSessionNotFound
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// PurgeIdle removes sessions that have not changed for longer than ttl.
func (s *Service) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	purged, err := s.sessions.PurgeExpired(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info("idle sessions purged", zap.Int("count", purged))
	}
	return purged, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (SessionRecord, *Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return SessionRecord{}, nil, ErrSessionNotFound
	}

	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return SessionRecord{}, nil, err
	}

	session, err := Restore(s.questions, record.State)
	if err != nil {
		s.log.Warn("discarding unreadable session", zap.String("session_id", sessionID), zap.Error(err))
		_ = s.sessions.DeleteSession(ctx, sessionID)
		return SessionRecord{}, nil, ErrSessionNotFound
	}
	return record, session, nil
}
