package quiz

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory only.
type MemoryStore struct {
	sessions sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateSession(_ context.Context, record SessionRecord) error {
	if record.SessionID == "" {
		return errors.New("session id is required")
	}
	if _, loaded := m.sessions.LoadOrStore(record.SessionID, cloneRecord(record)); loaded {
		return errors.New("session already exists")
	}
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (SessionRecord, error) {
	stored, ok := m.sessions.Load(sessionID)
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	record, ok := stored.(SessionRecord)
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return cloneRecord(record), nil
}

func (m *MemoryStore) SaveSession(_ context.Context, record SessionRecord) error {
	if _, ok := m.sessions.Load(record.SessionID); !ok {
		return ErrSessionNotFound
	}
	m.sessions.Store(record.SessionID, cloneRecord(record))
	return nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	if _, loaded := m.sessions.LoadAndDelete(sessionID); !loaded {
		return ErrSessionNotFound
	}
	return nil
}

func (m *MemoryStore) PurgeExpired(_ context.Context, cutoff time.Time) (int, error) {
	purged := 0
	m.sessions.Range(func(key, value any) bool {
		record, ok := value.(SessionRecord)
		if !ok || record.UpdatedAt.Before(cutoff) {
			m.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}

// Records are copied in and out so callers never share the selections slice.
func cloneRecord(record SessionRecord) SessionRecord {
	record.State.Selections = append([]int(nil), record.State.Selections...)
	return record
}
