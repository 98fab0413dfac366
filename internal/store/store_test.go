package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

func TestReplaceSwapsAllCollectionsWholesale(t *testing.T) {
	s := New()
	s.Replace(domain.SeedSnapshot())
	require.Len(t, s.Users(), 9)
	require.Len(t, s.Activities(), 6)

	s.Replace(domain.Snapshot{Users: []domain.User{{ID: "u-x"}}})
	require.Len(t, s.Users(), 1)
	// Nil collections come back empty, never stale.
	require.Empty(t, s.Activities())
	require.Empty(t, s.Workouts())
}

func TestLookups(t *testing.T) {
	s := New()
	s.Replace(domain.SeedSnapshot())

	u, ok := s.UserByID("u-6")
	require.True(t, ok)
	require.Equal(t, "Franju", u.Name)
	require.True(t, u.IsAdmin)

	_, ok = s.UserByID("u-99")
	require.False(t, ok)

	// Username lookup is case-sensitive.
	_, ok = s.UserByUsername("FRANJU")
	require.False(t, ok)
	u, ok = s.UserByUsername("franju")
	require.True(t, ok)
	require.Equal(t, "u-6", u.ID)

	a, ok := s.ActivityByID("act-5")
	require.True(t, ok)
	require.Equal(t, 0.25, a.Points)
}

func TestAddWorkoutKeepsNewestFirst(t *testing.T) {
	s := New()
	s.AddWorkout(domain.Workout{ID: "w-1"})
	s.AddWorkout(domain.Workout{ID: "w-2"})

	workouts := s.Workouts()
	require.Equal(t, "w-2", workouts[0].ID)
	require.Equal(t, "w-1", workouts[1].ID)
}

func TestUpdateAndRemove(t *testing.T) {
	s := New()
	s.Replace(domain.SeedSnapshot())

	u, _ := s.UserByID("u-1")
	u.Avatar = "pic"
	require.True(t, s.UpdateUser(u))
	u, _ = s.UserByID("u-1")
	require.Equal(t, "pic", u.Avatar)

	require.False(t, s.UpdateUser(domain.User{ID: "u-99"}))

	require.True(t, s.RemoveUser("u-1"))
	require.False(t, s.RemoveUser("u-1"))
	require.Len(t, s.Users(), 8)

	s.AddWorkout(domain.Workout{ID: "w-1"})
	require.True(t, s.RemoveWorkout("w-1"))
	require.False(t, s.RemoveWorkout("w-1"))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Replace(domain.SeedSnapshot())

	snap := s.Snapshot()
	snap.Users[0].Name = "mutated"

	u, _ := s.UserByID(snap.Users[0].ID)
	require.NotEqual(t, "mutated", u.Name)
}
