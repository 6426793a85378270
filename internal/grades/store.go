package grades

import (
	"context"
	"sync"
)

// Store persists grade records, one per (room, student). Upsert must be
// atomic on that key: concurrent writers race on field values, never on row
// identity.
type Store interface {
	Upsert(ctx context.Context, rec GradeRecord) (GradeRecord, error)
	Get(ctx context.Context, roomID, studentID string) (GradeRecord, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]GradeRecord // key: roomID|studentID
}

func NewInMemoryStore() Store {
	return &memoryStore{records: map[string]GradeRecord{}}
}

func recordKey(roomID, studentID string) string { return roomID + "|" + studentID }

func (m *memoryStore) Upsert(_ context.Context, rec GradeRecord) (GradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(rec.RoomID, rec.StudentID)] = rec
	return rec, nil
}

func (m *memoryStore) Get(_ context.Context, roomID, studentID string) (GradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[recordKey(roomID, studentID)]
	if !ok {
		return GradeRecord{}, ErrNotFound
	}
	return rec, nil
}
