package achievements

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/classforge/classforge-engine/internal/roster"
)

func seedAward(t *testing.T, store AwardStore, student, achievement, room string, points float64, tier BadgeTier, earned time.Time) Award {
	t.Helper()
	aw := Award{
		ID:              student + "-" + achievement + "-" + room,
		StudentID:       student,
		AchievementID:   achievement,
		RoomID:          room,
		PointsEarned:    points,
		EarnedAt:        earned,
		AchievementName: achievement,
		BadgeTier:       tier,
	}
	inserted, err := store.InsertIfAbsent(context.Background(), aw)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatalf("duplicate seed award %s", aw.ID)
	}
	return aw
}

func TestRoomStandingsOrderAndRanks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryAwardStore()
	members := roster.NewInMemoryStore()
	for _, id := range []string{"s1", "s2", "s3"} {
		if err := members.Enroll(ctx, "room-1", id); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Now()
	seedAward(t, store, "s1", "good-start", "room-1", 20, TierBronze, now)
	seedAward(t, store, "s2", "good-start", "room-1", 20, TierBronze, now)
	seedAward(t, store, "s2", "rising-star", "room-1", 35, TierSilver, now)
	seedAward(t, store, "s3", "first-steps", "room-1", 10, TierBronze, now)

	rep := NewReporter(store, members)
	entries, err := rep.RoomStandings(ctx, "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Student.ID != "s2" || entries[0].TotalPoints != 55 || entries[0].Rank != 1 {
		t.Fatalf("top entry wrong: %+v", entries[0])
	}
	if entries[1].Student.ID != "s1" || entries[1].Rank != 2 {
		t.Fatalf("second entry wrong: %+v", entries[1])
	}
	if entries[2].Student.ID != "s3" || entries[2].Rank != 3 {
		t.Fatalf("third entry wrong: %+v", entries[2])
	}
	if entries[0].BadgeCounts[TierSilver] != 1 || entries[0].BadgeCounts[TierBronze] != 1 {
		t.Fatalf("badge counts wrong: %+v", entries[0].BadgeCounts)
	}
}

func TestRoomStandingsTiesKeepInputOrder(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryAwardStore()
	members := roster.NewInMemoryStore()
	_ = members.Enroll(ctx, "room-1", "s1")
	_ = members.Enroll(ctx, "room-1", "s2")

	now := time.Now()
	// Same points; s1 appears first in the award stream, so it keeps the
	// earlier position. Points are the only sort key.
	seedAward(t, store, "s1", "good-start", "room-1", 20, TierBronze, now)
	seedAward(t, store, "s2", "rising-star", "room-1", 20, TierSilver, now)

	rep := NewReporter(store, members)
	entries, err := rep.RoomStandings(ctx, "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Student.ID != "s1" || entries[1].Student.ID != "s2" {
		t.Fatalf("tied students reordered: %s, %s", entries[0].Student.ID, entries[1].Student.ID)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("tied students still get distinct sequential ranks: %d, %d", entries[0].Rank, entries[1].Rank)
	}
}

func TestStudentProgress(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryAwardStore()
	members := roster.NewInMemoryStore()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		seedAward(t, store, "s1", fmt.Sprintf("ach-%d", i), "room-1", 10, TierBronze, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 4; i < 7; i++ {
		seedAward(t, store, "s1", fmt.Sprintf("ach-%d", i), "room-2", 20, TierGold, base.Add(time.Duration(i)*time.Minute))
	}

	rep := NewReporter(store, members)
	p, err := rep.StudentProgress(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalPoints != 100 || p.TotalAchievements != 7 {
		t.Fatalf("totals wrong: points=%v achievements=%d", p.TotalPoints, p.TotalAchievements)
	}
	if p.BadgeCounts[TierBronze] != 4 || p.BadgeCounts[TierGold] != 3 {
		t.Fatalf("badge counts wrong: %+v", p.BadgeCounts)
	}
	if len(p.RecentAchievements) != 5 {
		t.Fatalf("recent achievements = %d, want 5", len(p.RecentAchievements))
	}
	if p.RecentAchievements[0].AchievementID != "ach-6" {
		t.Fatalf("most recent first, got %s", p.RecentAchievements[0].AchievementID)
	}
	if len(p.AchievementsByRoom) != 2 {
		t.Fatalf("rooms = %d, want 2", len(p.AchievementsByRoom))
	}
	for _, rp := range p.AchievementsByRoom {
		switch rp.RoomID {
		case "room-1":
			if rp.TotalPoints != 40 || rp.Achievements != 4 {
				t.Fatalf("room-1 progress wrong: %+v", rp)
			}
		case "room-2":
			if rp.TotalPoints != 60 || rp.Achievements != 3 {
				t.Fatalf("room-2 progress wrong: %+v", rp)
			}
		}
	}
}
