// Package domain defines the entities and business rules for the workout ledger.
package domain

import "time"

// User is a member of the fixed roster. The password is the plaintext shared
// secret checked at login; it never leaves the core through API views.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
	Avatar   string `json:"avatar,omitempty"`
}

// Activity is a workout category with a point weight.
type Activity struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// Workout is one ledger entry. ActivityName and Points are snapshotted from
// the Activity at registration time and never re-synced afterwards, so later
// point edits do not rewrite history.
type Workout struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ActivityID   string    `json:"activityId"`
	ActivityName string    `json:"activityName"`
	Points       float64   `json:"points"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
}

// Snapshot is the full ledger state as loaded from or written to durable
// storage.
type Snapshot struct {
	Users      []User     `json:"users"`
	Activities []Activity `json:"activities"`
	Workouts   []Workout  `json:"workouts"`
}

// Normalize replaces nil collections with empty ones so a partially loaded
// snapshot never leaves a kind unpopulated.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Activities == nil {
		s.Activities = []Activity{}
	}
	if s.Workouts == nil {
		s.Workouts = []Workout{}
	}
}
