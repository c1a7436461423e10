package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quiz-widget/internal/quiz"
)

func (s *SQLiteStore) CreateSession(ctx context.Context, record quiz.SessionRecord) error {
	if record.SessionID == "" {
		return errors.New("session id is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	selectionsJSON, err := json.Marshal(record.State.Selections)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (session_id, current_index, selections_json, submitted, created_at_unix, updated_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.State.CurrentIndex,
		string(selectionsJSON),
		boolToInt(record.State.Submitted),
		record.CreatedAt.UnixNano(),
		record.UpdatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (quiz.SessionRecord, error) {
	var (
		record         quiz.SessionRecord
		selectionsJSON string
		submitted      int
		createdAtUnix  int64
		updatedAtUnix  int64
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT session_id, current_index, selections_json, submitted, created_at_unix, updated_at_unix
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&record.SessionID, &record.State.CurrentIndex, &selectionsJSON, &submitted, &createdAtUnix, &updatedAtUnix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.SessionRecord{}, quiz.ErrSessionNotFound
		}
		return quiz.SessionRecord{}, err
	}

	if err := json.Unmarshal([]byte(selectionsJSON), &record.State.Selections); err != nil {
		return quiz.SessionRecord{}, err
	}
	record.State.Submitted = submitted != 0
	record.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	record.UpdatedAt = time.Unix(0, updatedAtUnix).UTC()
	return record, nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, record quiz.SessionRecord) error {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	selectionsJSON, err := json.Marshal(record.State.Selections)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions
		 SET current_index = ?, selections_json = ?, submitted = ?, updated_at_unix = ?
		 WHERE session_id = ?`,
		record.State.CurrentIndex,
		string(selectionsJSON),
		boolToInt(record.State.Submitted),
		record.UpdatedAt.UnixNano(),
		record.SessionID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at_unix < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(purged), nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return quiz.ErrSessionNotFound
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
