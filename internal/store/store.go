// Package store holds the in-memory entity collections.
package store

import (
	"sync"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

// Store keeps the three ordered collections in memory. Roster order is
// significant: the ranking tie-break preserves it. Workouts are kept newest
// first, matching the order the durable stores load them in.
type Store struct {
	mu         sync.RWMutex
	users      []domain.User
	activities []domain.Activity
	workouts   []domain.Workout
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      []domain.User{},
		activities: []domain.Activity{},
		workouts:   []domain.Workout{},
	}
}

// Replace swaps all three collections wholesale, never leaving a torn mix of
// old and new data.
func (s *Store) Replace(snap domain.Snapshot) {
	snap.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]domain.User{}, snap.Users...)
	s.activities = append([]domain.Activity{}, snap.Activities...)
	s.workouts = append([]domain.Workout{}, snap.Workouts...)
}

// Snapshot copies out the full state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Snapshot{
		Users:      append([]domain.User{}, s.users...),
		Activities: append([]domain.Activity{}, s.activities...),
		Workouts:   append([]domain.Workout{}, s.workouts...),
	}
}

// Users returns a copy of the roster in order.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User{}, s.users...)
}

// Activities returns a copy of the catalog.
func (s *Store) Activities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Activity{}, s.activities...)
}

// Workouts returns a copy of the ledger, newest first.
func (s *Store) Workouts() []domain.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Workout{}, s.workouts...)
}

// UserByID looks up a roster member.
func (s *Store) UserByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UserByUsername looks up a roster member by login name, case-sensitively.
func (s *Store) UserByUsername(username string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return domain.User{}, false
}

// ActivityByID looks up a catalog entry.
func (s *Store) ActivityByID(id string) (domain.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.activities {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

// WorkoutByID looks up a ledger entry.
func (s *Store) WorkoutByID(id string) (domain.Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Workout{}, false
}

// AddUser appends to the roster.
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// UpdateUser replaces a roster entry in place. Reports whether it existed.
func (s *Store) UpdateUser(u domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return true
		}
	}
	return false
}

// RemoveUser drops a roster entry. Reports whether it existed.
func (s *Store) RemoveUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true
		}
	}
	return false
}

// AddActivity appends to the catalog.
func (s *Store) AddActivity(a domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, a)
}

// UpdateActivity replaces a catalog entry in place. Reports whether it existed.
func (s *Store) UpdateActivity(a domain.Activity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.activities {
		if s.activities[i].ID == a.ID {
			s.activities[i] = a
			return true
		}
	}
	return false
}

// AddWorkout prepends a ledger entry, keeping newest-first order.
func (s *Store) AddWorkout(w domain.Workout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = append([]domain.Workout{w}, s.workouts...)
}

// RemoveWorkout drops a ledger entry. Reports whether it existed.
func (s *Store) RemoveWorkout(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
			return true
		}
	}
	return false
}
