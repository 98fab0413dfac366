package domain

import (
	"sort"
	"time"
)

// UnknownLabel is the display fallback for workouts whose user or activity
// was deleted after registration. Orphaned rows stay valid.
const UnknownLabel = "Desconocido"

// TotalPoints sums the snapshotted point values of one user's workouts.
// Totals are always derived, never stored.
func TotalPoints(workouts []Workout, userID string) float64 {
	var total float64
	for _, w := range workouts {
		if w.UserID == userID {
			total += w.Points
		}
	}
	return total
}

// RankedUser pairs a roster member with their aggregated total.
type RankedUser struct {
	User  User
	Total float64
}

// Rank orders the roster by total points descending. Ties keep roster order.
func Rank(users []User, workouts []Workout) []RankedUser {
	totals := make(map[string]float64, len(users))
	for _, w := range workouts {
		totals[w.UserID] += w.Points
	}

	ranked := make([]RankedUser, 0, len(users))
	for _, u := range users {
		ranked = append(ranked, RankedUser{User: u, Total: totals[u.ID]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}

// CountOnDay counts a user's workouts whose date falls on the same calendar
// day as ref in the given location. The quota is a local-day rule, not UTC.
func CountOnDay(workouts []Workout, userID string, ref time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	refY, refM, refD := ref.In(loc).Date()

	count := 0
	for _, w := range workouts {
		if w.UserID != userID {
			continue
		}
		y, m, d := w.Date.In(loc).Date()
		if y == refY && m == refM && d == refD {
			count++
		}
	}
	return count
}
