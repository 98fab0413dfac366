package domain

import (
	"testing"
	"time"
)

func TestTotalPointsSumsOnlyOwnWorkouts(t *testing.T) {
	workouts := []Workout{
		{ID: "w-1", UserID: "u-1", Points: 1.0},
		{ID: "w-2", UserID: "u-1", Points: 0.25},
		{ID: "w-3", UserID: "u-2", Points: 1.0},
	}

	if got := TotalPoints(workouts, "u-1"); got != 1.25 {
		t.Fatalf("expected 1.25 got %v", got)
	}
	if got := TotalPoints(workouts, "u-3"); got != 0 {
		t.Fatalf("expected 0 for user without workouts, got %v", got)
	}
}

func TestRankOrdersDescendingAndKeepsRosterOrderOnTies(t *testing.T) {
	users := []User{
		{ID: "u-1", Name: "Juanmi"},
		{ID: "u-2", Name: "Adri"},
		{ID: "u-3", Name: "Joseluis"},
	}
	workouts := []Workout{
		{ID: "w-1", UserID: "u-2", Points: 2.0},
		{ID: "w-2", UserID: "u-1", Points: 1.0},
		{ID: "w-3", UserID: "u-3", Points: 1.0},
	}

	ranked := Rank(users, workouts)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries got %d", len(ranked))
	}
	if ranked[0].User.ID != "u-2" || ranked[0].Total != 2.0 {
		t.Fatalf("unexpected leader: %+v", ranked[0])
	}
	// u-1 and u-3 are tied; roster order breaks the tie.
	if ranked[1].User.ID != "u-1" || ranked[2].User.ID != "u-3" {
		t.Fatalf("tie not broken by roster order: %s before %s", ranked[1].User.ID, ranked[2].User.ID)
	}
}

func TestRankIncludesUsersWithoutWorkouts(t *testing.T) {
	users := []User{{ID: "u-1"}, {ID: "u-2"}}
	ranked := Rank(users, nil)
	if len(ranked) != 2 {
		t.Fatalf("expected full roster got %d", len(ranked))
	}
	if ranked[0].Total != 0 || ranked[1].Total != 0 {
		t.Fatalf("expected zero totals: %+v", ranked)
	}
}

func TestCountOnDayUsesLocalCalendarDay(t *testing.T) {
	madrid := time.FixedZone("CET", 60*60)

	// 23:30 local on Jan 5 and 00:30 local on Jan 6 are different days even
	// though they are an hour apart.
	late := time.Date(2026, time.January, 5, 23, 30, 0, 0, madrid)
	early := time.Date(2026, time.January, 6, 0, 30, 0, 0, madrid)

	workouts := []Workout{
		{ID: "w-1", UserID: "u-1", Date: late},
		{ID: "w-2", UserID: "u-1", Date: early},
		{ID: "w-3", UserID: "u-2", Date: late},
	}

	if got := CountOnDay(workouts, "u-1", late, madrid); got != 1 {
		t.Fatalf("expected 1 on Jan 5 got %d", got)
	}
	if got := CountOnDay(workouts, "u-1", early, madrid); got != 1 {
		t.Fatalf("expected 1 on Jan 6 got %d", got)
	}
}

func TestCountOnDayConvertsUTCDatesIntoLocation(t *testing.T) {
	madrid := time.FixedZone("CET", 60*60)

	// 23:30 UTC on Jan 5 is 00:30 Jan 6 in Madrid.
	utcLate := time.Date(2026, time.January, 5, 23, 30, 0, 0, time.UTC)
	workouts := []Workout{{ID: "w-1", UserID: "u-1", Date: utcLate}}

	jan6 := time.Date(2026, time.January, 6, 12, 0, 0, 0, madrid)
	if got := CountOnDay(workouts, "u-1", jan6, madrid); got != 1 {
		t.Fatalf("expected workout to count on Jan 6 local, got %d", got)
	}
	jan5 := time.Date(2026, time.January, 5, 12, 0, 0, 0, madrid)
	if got := CountOnDay(workouts, "u-1", jan5, madrid); got != 0 {
		t.Fatalf("expected no workout on Jan 5 local, got %d", got)
	}
}
