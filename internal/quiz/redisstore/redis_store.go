package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"quiz-widget/internal/quiz"
)

const defaultPrefix = "quiz:session:"

// Store keeps sessions as JSON values with a TTL that is refreshed on every
// write, so idle sessions are expired by Redis itself.
type Store struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

type payload struct {
	State     quiz.State `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func New(ctx context.Context, addr, prefix string, ttl time.Duration) (*Store, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(rdb, prefix, ttl), nil
}

func NewWithClient(rdb *goredis.Client, prefix string, ttl time.Duration) *Store {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) CreateSession(ctx context.Context, record quiz.SessionRecord) error {
	if record.SessionID == "" {
		return errors.New("session id is required")
	}
	raw, err := encode(record)
	if err != nil {
		return err
	}

	created, err := s.rdb.SetNX(ctx, s.key(record.SessionID), raw, s.ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return errors.New("session already exists")
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (quiz.SessionRecord, error) {
	raw, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return quiz.SessionRecord{}, quiz.ErrSessionNotFound
		}
		return quiz.SessionRecord{}, err
	}

	var stored payload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return quiz.SessionRecord{}, err
	}
	return quiz.SessionRecord{
		SessionID: sessionID,
		State:     stored.State,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

func (s *Store) SaveSession(ctx context.Context, record quiz.SessionRecord) error {
	raw, err := encode(record)
	if err != nil {
		return err
	}

	// XX: only overwrite a session that has not expired in the meantime.
	updated, err := s.rdb.SetXX(ctx, s.key(record.SessionID), raw, s.ttl).Result()
	if err != nil {
		return err
	}
	if !updated {
		return quiz.ErrSessionNotFound
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	deleted, err := s.rdb.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return quiz.ErrSessionNotFound
	}
	return nil
}

// PurgeExpired is a no-op: keys carry their own TTL.
func (s *Store) PurgeExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func encode(record quiz.SessionRecord) ([]byte, error) {
	return json.Marshal(payload{
		State:     record.State,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	})
}
