package achievements

import (
	"context"
	"sort"
	"sync"
)

// StaticCatalog serves a fixed achievement list; handy for tests and the
// in-memory wiring.
type StaticCatalog struct {
	Achievements []Achievement
}

func (c *StaticCatalog) ListActive(_ context.Context) ([]Achievement, error) {
	out := []Achievement{}
	for _, a := range c.Achievements {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

type memoryAwardStore struct {
	mu     sync.RWMutex
	awards []Award
	seen   map[string]struct{} // studentID|achievementID|roomID
}

func NewInMemoryAwardStore() AwardStore {
	return &memoryAwardStore{seen: map[string]struct{}{}}
}

func awardKey(a Award) string {
	return a.StudentID + "|" + a.AchievementID + "|" + a.RoomID
}

func (m *memoryAwardStore) InsertIfAbsent(_ context.Context, a Award) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := awardKey(a)
	if _, ok := m.seen[k]; ok {
		return false, nil
	}
	m.seen[k] = struct{}{}
	m.awards = append(m.awards, a)
	return true, nil
}

func (m *memoryAwardStore) ListByRoom(_ context.Context, roomID string) ([]Award, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Award{}
	for _, a := range m.awards {
		if a.RoomID == roomID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAwardStore) ListByStudent(_ context.Context, studentID string) ([]Award, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Award{}
	for _, a := range m.awards {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EarnedAt.After(out[j].EarnedAt)
	})
	return out, nil
}
