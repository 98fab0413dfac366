// Package localfile persists the whole ledger as a single JSON document on
// disk. Writes are fire-and-forget: failures are logged, never surfaced, so
// this variant has no partial-failure mode.
package localfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

// Snapshotter provides the current in-memory state to serialize after each
// mutation.
type Snapshotter interface {
	Snapshot() domain.Snapshot
}

// Store implements domain.Adapter on top of one JSON file.
type Store struct {
	path   string
	source Snapshotter
	logger *zap.Logger
}

// New constructs a Store writing to path. The source is consulted on every
// mutation to serialize the full post-mutation state.
func New(path string, source Snapshotter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, source: source, logger: logger}
}

// Load reads the snapshot. A missing or corrupt file falls back to the seed
// dataset without raising: first run and corruption look the same to callers.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("data file unreadable, using seed dataset",
				zap.String("path", s.path), zap.Error(err))
		}
		return domain.SeedSnapshot(), nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("data file corrupt, using seed dataset",
			zap.String("path", s.path), zap.Error(err))
		return domain.SeedSnapshot(), nil
	}
	snap.Normalize()
	return snap, nil
}

// Seed merges the seed dataset into the current document by id. Existing
// rows win, so repeated seeding attempts are safe and an emptied roster
// never wipes the workout ledger already on disk.
func (s *Store) Seed(ctx context.Context, seed domain.Snapshot) error {
	current, err := s.Load(ctx)
	if err != nil {
		current = domain.Snapshot{}
		current.Normalize()
	}
	s.write(mergeSnapshot(current, seed))
	return nil
}

func mergeSnapshot(current, seed domain.Snapshot) domain.Snapshot {
	userIDs := make(map[string]struct{}, len(current.Users))
	for _, u := range current.Users {
		userIDs[u.ID] = struct{}{}
	}
	for _, u := range seed.Users {
		if _, ok := userIDs[u.ID]; !ok {
			current.Users = append(current.Users, u)
		}
	}

	activityIDs := make(map[string]struct{}, len(current.Activities))
	for _, a := range current.Activities {
		activityIDs[a.ID] = struct{}{}
	}
	for _, a := range seed.Activities {
		if _, ok := activityIDs[a.ID]; !ok {
			current.Activities = append(current.Activities, a)
		}
	}

	workoutIDs := make(map[string]struct{}, len(current.Workouts))
	for _, w := range current.Workouts {
		workoutIDs[w.ID] = struct{}{}
	}
	for _, w := range seed.Workouts {
		if _, ok := workoutIDs[w.ID]; !ok {
			current.Workouts = append(current.Workouts, w)
		}
	}

	return current
}

// InsertWorkout flushes the post-mutation state.
func (s *Store) InsertWorkout(ctx context.Context, _ domain.Workout) error {
	s.flush()
	return nil
}

// DeleteWorkout flushes the post-mutation state.
func (s *Store) DeleteWorkout(ctx context.Context, _ string) error {
	s.flush()
	return nil
}

// UpsertUser flushes the post-mutation state.
func (s *Store) UpsertUser(ctx context.Context, _ domain.User) error {
	s.flush()
	return nil
}

// DeleteUser flushes the post-mutation state.
func (s *Store) DeleteUser(ctx context.Context, _ string) error {
	s.flush()
	return nil
}

// UpsertActivity flushes the post-mutation state.
func (s *Store) UpsertActivity(ctx context.Context, _ domain.Activity) error {
	s.flush()
	return nil
}

// Close is a no-op; every mutation already hit disk.
func (s *Store) Close() {}

func (s *Store) flush() {
	s.write(s.source.Snapshot())
}

func (s *Store) write(snap domain.Snapshot) {
	snap.Normalize()
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.logger.Error("serialize snapshot", zap.Error(err))
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("create data directory", zap.String("dir", dir), zap.Error(err))
			return
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.logger.Error("write snapshot", zap.String("path", s.path), zap.Error(err))
	}
}
