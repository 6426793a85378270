package achievements

import (
	"context"
	"fmt"
	"sort"

	"github.com/classforge/classforge-engine/internal/roster"
)

const recentAwardLimit = 5

type StandingsEntry struct {
	Rank         int               `json:"rank"`
	Student      roster.Student    `json:"student"`
	TotalPoints  float64           `json:"total_points"`
	Achievements []Award           `json:"achievements"`
	BadgeCounts  map[BadgeTier]int `json:"badge_counts"`
}

type RoomProgress struct {
	RoomID       string  `json:"room_id"`
	TotalPoints  float64 `json:"total_points"`
	Achievements int     `json:"achievements"`
}

type Progress struct {
	StudentID          string            `json:"student_id"`
	TotalPoints        float64           `json:"total_points"`
	TotalAchievements  int               `json:"total_achievements"`
	BadgeCounts        map[BadgeTier]int `json:"badge_counts"`
	RecentAchievements []Award           `json:"recent_achievements"`
	AchievementsByRoom []RoomProgress    `json:"achievements_by_room"`
}

// Reporter folds awards into read-only leaderboard and progress views.
type Reporter struct {
	awards  AwardStore
	members roster.Roster
}

func NewReporter(awards AwardStore, members roster.Roster) *Reporter {
	return &Reporter{awards: awards, members: members}
}

// RoomStandings sums points per student and sorts descending. Points are the
// only sort key; equal-point students keep their enumeration order (stable
// sort), so their relative ranks are an accepted non-determinism.
func (r *Reporter) RoomStandings(ctx context.Context, roomID string) ([]StandingsEntry, error) {
	awards, err := r.awards.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room awards: %w", err)
	}
	students, err := r.members.ListStudents(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	byID := make(map[string]roster.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}

	index := map[string]int{}
	entries := []StandingsEntry{}
	for _, aw := range awards {
		i, ok := index[aw.StudentID]
		if !ok {
			st, known := byID[aw.StudentID]
			if !known {
				st = roster.Student{ID: aw.StudentID}
			}
			i = len(entries)
			index[aw.StudentID] = i
			entries = append(entries, StandingsEntry{
				Student:     st,
				BadgeCounts: map[BadgeTier]int{},
			})
		}
		entries[i].TotalPoints += aw.PointsEarned
		entries[i].Achievements = append(entries[i].Achievements, aw)
		entries[i].BadgeCounts[aw.BadgeTier]++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// StudentProgress summarizes one student's awards across all rooms.
func (r *Reporter) StudentProgress(ctx context.Context, studentID string) (Progress, error) {
	awards, err := r.awards.ListByStudent(ctx, studentID)
	if err != nil {
		return Progress{}, fmt.Errorf("list student awards: %w", err)
	}

	p := Progress{
		StudentID:          studentID,
		BadgeCounts:        map[BadgeTier]int{},
		RecentAchievements: []Award{},
		AchievementsByRoom: []RoomProgress{},
	}
	roomIndex := map[string]int{}
	for _, aw := range awards {
		p.TotalPoints += aw.PointsEarned
		p.TotalAchievements++
		p.BadgeCounts[aw.BadgeTier]++

		i, ok := roomIndex[aw.RoomID]
		if !ok {
			i = len(p.AchievementsByRoom)
			roomIndex[aw.RoomID] = i
			p.AchievementsByRoom = append(p.AchievementsByRoom, RoomProgress{RoomID: aw.RoomID})
		}
		p.AchievementsByRoom[i].TotalPoints += aw.PointsEarned
		p.AchievementsByRoom[i].Achievements++
	}

	// ListByStudent returns most recent first.
	if len(awards) > recentAwardLimit {
		p.RecentAchievements = awards[:recentAwardLimit]
	} else {
		p.RecentAchievements = awards
	}
	return p, nil
}
