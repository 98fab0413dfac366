package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nospelin-a11y/guerreros2026-2/internal/observability"
)

// Store is the in-memory entity view the service reads and mutates. It is the
// sole owner of the three collections.
type Store interface {
	Replace(snap Snapshot)
	Snapshot() Snapshot
	Users() []User
	Activities() []Activity
	Workouts() []Workout
	UserByID(id string) (User, bool)
	UserByUsername(username string) (User, bool)
	ActivityByID(id string) (Activity, bool)
	WorkoutByID(id string) (Workout, bool)
	AddUser(u User)
	UpdateUser(u User) bool
	RemoveUser(id string) bool
	AddActivity(a Activity)
	UpdateActivity(a Activity) bool
	AddWorkout(w Workout)
	RemoveWorkout(id string) bool
}

// Adapter applies mutations durably and produces the boot snapshot. The file
// variant never surfaces write errors; the postgres variant fails fast, and
// the service treats every adapter under the stricter contract.
type Adapter interface {
	Load(ctx context.Context) (Snapshot, error)
	Seed(ctx context.Context, snap Snapshot) error
	InsertWorkout(ctx context.Context, w Workout) error
	DeleteWorkout(ctx context.Context, id string) error
	UpsertUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id string) error
	UpsertActivity(ctx context.Context, a Activity) error
	Close()
}

// SessionCache persists the current-user pointer independently of the ledger.
type SessionCache interface {
	Save(u User)
	Load() (id string, ok bool)
	Clear()
}

// Service is the mutation gateway: it validates operations, applies them to
// the store and delegates durability to the adapter. A failed persist rolls
// the store back to its pre-mutation state.
type Service struct {
	store      Store
	adapter    Adapter
	sessions   SessionCache
	logger     *zap.Logger
	dailyLimit int
	loc        *time.Location
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDailyLimit overrides the default daily workout limit.
func WithDailyLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.dailyLimit = limit
		}
	}
}

// WithLocation sets the calendar used for the daily quota.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the gateway.
func NewService(store Store, adapter Adapter, sessions SessionCache, opts ...Option) *Service {
	s := &Service{
		store:      store,
		adapter:    adapter,
		sessions:   sessions,
		logger:     zap.NewNop(),
		dailyLimit: DefaultDailyWorkoutLimit,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load pulls the boot snapshot from the adapter and replaces the store
// wholesale. An empty roster or catalog triggers idempotent seeding. Load
// errors are reported but never fatal; affected collections come back empty.
func (s *Service) Load(ctx context.Context) error {
	snap, err := s.adapter.Load(ctx)
	if err != nil {
		s.logger.Warn("initial load incomplete", zap.Error(err))
	}
	snap.Normalize()

	if len(snap.Users) == 0 || len(snap.Activities) == 0 {
		if seedErr := s.adapter.Seed(ctx, SeedSnapshot()); seedErr != nil {
			s.logger.Warn("seeding failed", zap.Error(seedErr))
		} else if reloaded, reloadErr := s.adapter.Load(ctx); reloadErr == nil {
			reloaded.Normalize()
			snap = reloaded
		}
	}

	s.store.Replace(snap)
	s.refreshSession()
	return err
}

// refreshSession re-resolves the cached user against the reloaded roster so
// the session never keeps stale profile fields across a reload.
func (s *Service) refreshSession() {
	id, ok := s.sessions.Load()
	if !ok {
		return
	}
	user, ok := s.store.UserByID(id)
	if !ok {
		s.sessions.Clear()
		return
	}
	s.sessions.Save(user)
}

// Login checks the shared secret against the roster and stores the session.
func (s *Service) Login(username, password string) (User, error) {
	user, ok := s.store.UserByUsername(username)
	if !ok || user.Password != password {
		return User{}, ErrInvalidCredentials
	}
	s.sessions.Save(user)
	return user, nil
}

// Logout discards the session slot.
func (s *Service) Logout() {
	s.sessions.Clear()
}

// CurrentUser resolves the cached session id against the roster. A stale id
// is discarded rather than trusted.
func (s *Service) CurrentUser() (User, bool) {
	id, ok := s.sessions.Load()
	if !ok {
		return User{}, false
	}
	user, ok := s.store.UserByID(id)
	if !ok {
		s.sessions.Clear()
		return User{}, false
	}
	return user, true
}

// RegisterWorkoutInput carries a workout submission. A zero Date means now;
// admins may backdate.
type RegisterWorkoutInput struct {
	UserID     string
	ActivityID string
	Notes      string
	Date       time.Time
}

// RegisterWorkout validates the daily quota, snapshots the activity's name
// and point value, and commits the new ledger entry.
func (s *Service) RegisterWorkout(ctx context.Context, input RegisterWorkoutInput) (Workout, error) {
	if _, ok := s.store.UserByID(input.UserID); !ok {
		observability.RecordMutationRejected("user_not_found")
		return Workout{}, ErrUserNotFound
	}
	activity, ok := s.store.ActivityByID(input.ActivityID)
	if !ok {
		observability.RecordMutationRejected("activity_not_found")
		return Workout{}, ErrActivityNotFound
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	if CountOnDay(s.store.Workouts(), input.UserID, date, s.loc) >= s.dailyLimit {
		observability.RecordMutationRejected("quota_exceeded")
		return Workout{}, ErrQuotaExceeded
	}

	workout := Workout{
		ID:           uuid.NewString(),
		UserID:       input.UserID,
		ActivityID:   activity.ID,
		ActivityName: activity.Name,
		Points:       activity.Points,
		Date:         date,
		Notes:        strings.TrimSpace(input.Notes),
	}

	prev := s.store.Snapshot()
	s.store.AddWorkout(workout)
	if err := s.adapter.InsertWorkout(ctx, workout); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return Workout{}, fmt.Errorf("persist workout: %w", err)
	}

	observability.RecordWorkoutRegistered()
	s.logger.Info("workout registered",
		zap.String("user_id", workout.UserID),
		zap.String("activity", workout.ActivityName),
		zap.Float64("points", workout.Points))
	return workout, nil
}

// DeleteWorkout removes a ledger entry. Privileged; the caller's role is
// checked at the API boundary, not here.
func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	if _, ok := s.store.WorkoutByID(id); !ok {
		return ErrWorkoutNotFound
	}

	prev := s.store.Snapshot()
	s.store.RemoveWorkout(id)
	if err := s.adapter.DeleteWorkout(ctx, id); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// ProfileUpdate carries optional profile field changes. Nil means unchanged.
type ProfileUpdate struct {
	Avatar   *string
	Password *string
}

// UpdateProfile mutates a user's own fields and refreshes the session slot
// when the in-session user changed their own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	user, ok := s.store.UserByID(userID)
	if !ok {
		return User{}, ErrUserNotFound
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.Password != nil && *update.Password != "" {
		user.Password = *update.Password
	}

	prev := s.store.Snapshot()
	s.store.UpdateUser(user)
	if err := s.adapter.UpsertUser(ctx, user); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return User{}, fmt.Errorf("persist profile: %w", err)
	}

	if sessionID, ok := s.sessions.Load(); ok && sessionID == user.ID {
		s.sessions.Save(user)
	}
	return user, nil
}

// CreateUser adds a roster member. Usernames are unique case-sensitively and
// new users are never admins.
func (s *Service) CreateUser(ctx context.Context, name, username, password string) (User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)
	if name == "" || username == "" || password == "" {
		return User{}, fmt.Errorf("name, username and password are required")
	}
	if _, exists := s.store.UserByUsername(username); exists {
		observability.RecordMutationRejected("duplicate_username")
		return User{}, ErrDuplicateUsername
	}

	user := User{
		ID:       uuid.NewString(),
		Name:     name,
		Username: username,
		Password: password,
	}

	prev := s.store.Snapshot()
	s.store.AddUser(user)
	if err := s.adapter.UpsertUser(ctx, user); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return User{}, fmt.Errorf("persist user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a roster member. Their workouts stay in the ledger as
// orphans and keep counting; readers render them with UnknownLabel.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.store.UserByID(id); !ok {
		return ErrUserNotFound
	}

	prev := s.store.Snapshot()
	s.store.RemoveUser(id)
	if err := s.adapter.DeleteUser(ctx, id); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return fmt.Errorf("delete user: %w", err)
	}

	if sessionID, ok := s.sessions.Load(); ok && sessionID == id {
		s.sessions.Clear()
	}
	return nil
}

// CreateActivity adds a catalog entry with a non-negative point weight.
func (s *Service) CreateActivity(ctx context.Context, name string, points float64) (Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Activity{}, fmt.Errorf("activity name is required")
	}
	if points < 0 {
		return Activity{}, fmt.Errorf("points must not be negative")
	}

	activity := Activity{ID: uuid.NewString(), Name: name, Points: points}

	prev := s.store.Snapshot()
	s.store.AddActivity(activity)
	if err := s.adapter.UpsertActivity(ctx, activity); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return Activity{}, fmt.Errorf("persist activity: %w", err)
	}
	return activity, nil
}

// UpdateActivityPoints changes an activity's weight for future workouts only.
// Existing ledger entries keep their snapshotted value.
func (s *Service) UpdateActivityPoints(ctx context.Context, id string, points float64) (Activity, error) {
	activity, ok := s.store.ActivityByID(id)
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	if points < 0 {
		return Activity{}, fmt.Errorf("points must not be negative")
	}
	activity.Points = points

	prev := s.store.Snapshot()
	s.store.UpdateActivity(activity)
	if err := s.adapter.UpsertActivity(ctx, activity); err != nil {
		s.store.Replace(prev)
		observability.RecordPersistFailure()
		return Activity{}, fmt.Errorf("persist activity: %w", err)
	}
	return activity, nil
}

// State returns a copy of all three collections.
func (s *Service) State() Snapshot {
	return s.store.Snapshot()
}

// Ranking derives the current standings from the ledger. Never cached.
func (s *Service) Ranking() []RankedUser {
	return Rank(s.store.Users(), s.store.Workouts())
}

// TotalPointsFor derives one user's aggregated total.
func (s *Service) TotalPointsFor(userID string) float64 {
	return TotalPoints(s.store.Workouts(), userID)
}

// RemainingToday reports how many workouts a user may still register today.
func (s *Service) RemainingToday(userID string) int {
	used := CountOnDay(s.store.Workouts(), userID, s.now(), s.loc)
	if used >= s.dailyLimit {
		return 0
	}
	return s.dailyLimit - used
}
