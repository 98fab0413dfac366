package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
	"github.com/nospelin-a11y/guerreros2026-2/internal/store"
)

// stubAdapter satisfies domain.Adapter with injectable failures.
type stubAdapter struct {
	loadSnap      domain.Snapshot
	loadErr       error
	insertErr     error
	deleteErr     error
	upsertUserErr error
	seedCalls     int
	insertCalls   int
}

func (a *stubAdapter) Load(context.Context) (domain.Snapshot, error) {
	return a.loadSnap, a.loadErr
}

func (a *stubAdapter) Seed(_ context.Context, snap domain.Snapshot) error {
	a.seedCalls++
	a.loadSnap = snap
	return nil
}

func (a *stubAdapter) InsertWorkout(context.Context, domain.Workout) error {
	a.insertCalls++
	return a.insertErr
}

func (a *stubAdapter) DeleteWorkout(context.Context, string) error { return a.deleteErr }

func (a *stubAdapter) UpsertUser(context.Context, domain.User) error { return a.upsertUserErr }

func (a *stubAdapter) DeleteUser(context.Context, string) error { return nil }

func (a *stubAdapter) UpsertActivity(context.Context, domain.Activity) error { return nil }

func (a *stubAdapter) Close() {}

// stubSessions is an in-memory session slot.
type stubSessions struct {
	id    string
	saves []domain.User
}

func (s *stubSessions) Save(u domain.User) {
	s.id = u.ID
	s.saves = append(s.saves, u)
}

func (s *stubSessions) Load() (string, bool) { return s.id, s.id != "" }

func (s *stubSessions) Clear() { s.id = "" }

func newTestService(t *testing.T, adapter *stubAdapter) (*domain.Service, *store.Store, *stubSessions) {
	t.Helper()
	st := store.New()
	st.Replace(domain.SeedSnapshot())
	sessions := &stubSessions{}
	service := domain.NewService(st, adapter, sessions,
		domain.WithLocation(time.UTC),
		domain.WithClock(func() time.Time {
			return time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
		}),
	)
	return service, st, sessions
}

func TestRegisterWorkoutEnforcesDailyQuota(t *testing.T) {
	service, st, _ := newTestService(t, &stubAdapter{})
	ctx := context.Background()

	first, err := service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.NoError(t, err)
	require.Equal(t, "Crossfit", first.ActivityName)
	require.Equal(t, 1.0, first.Points)

	_, err = service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.NoError(t, err)

	require.Equal(t, 2.0, service.TotalPointsFor("u-6"))

	_, err = service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	require.Len(t, st.Workouts(), 2)

	// Another user is unaffected by Franju's quota.
	_, err = service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-1", ActivityID: "act-2"})
	require.NoError(t, err)
}

func TestRegisterWorkoutSnapshotsActivityPoints(t *testing.T) {
	service, _, _ := newTestService(t, &stubAdapter{})
	ctx := context.Background()

	_, err := service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.NoError(t, err)
	_, err = service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.NoError(t, err)

	// Doubling Crossfit afterwards must not rewrite history.
	_, err = service.UpdateActivityPoints(ctx, "act-1", 2.0)
	require.NoError(t, err)

	require.Equal(t, 2.0, service.TotalPointsFor("u-6"))

	// New workouts pick up the new weight.
	w, err := service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-1", ActivityID: "act-1"})
	require.NoError(t, err)
	require.Equal(t, 2.0, w.Points)
}

func TestRegisterWorkoutFailedPersistLeavesStoreUntouched(t *testing.T) {
	adapter := &stubAdapter{insertErr: errors.New("connection reset")}
	service, st, _ := newTestService(t, adapter)

	before := st.Snapshot()
	_, err := service.RegisterWorkout(context.Background(), domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrQuotaExceeded)

	after := st.Snapshot()
	require.Equal(t, before.Workouts, after.Workouts)
	require.Equal(t, 1, adapter.insertCalls)
}

func TestRegisterWorkoutUnknownActivity(t *testing.T) {
	service, st, _ := newTestService(t, &stubAdapter{})

	_, err := service.RegisterWorkout(context.Background(), domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-99"})
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
	require.Empty(t, st.Workouts())
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	service, st, _ := newTestService(t, &stubAdapter{})

	before := len(st.Users())
	_, err := service.CreateUser(context.Background(), "Otro Franju", "franju", "pw")
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	require.Len(t, st.Users(), before)

	// Case differs, so it is a different username.
	created, err := service.CreateUser(context.Background(), "Otro Franju", "Franju", "pw")
	require.NoError(t, err)
	require.False(t, created.IsAdmin)
	require.Len(t, st.Users(), before+1)
}

func TestCreateUserRollsBackOnPersistFailure(t *testing.T) {
	adapter := &stubAdapter{upsertUserErr: errors.New("timeout")}
	service, st, _ := newTestService(t, adapter)

	before := len(st.Users())
	_, err := service.CreateUser(context.Background(), "Manuel", "manuel23", "g26")
	require.Error(t, err)
	require.Len(t, st.Users(), before)
}

func TestDeleteUserKeepsOrphanedWorkouts(t *testing.T) {
	service, st, _ := newTestService(t, &stubAdapter{})
	ctx := context.Background()

	_, err := service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-1", ActivityID: "act-1"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser(ctx, "u-1"))

	_, ok := st.UserByID("u-1")
	require.False(t, ok)
	// The ledger entry survives as an orphan and still aggregates.
	require.Len(t, st.Workouts(), 1)
	require.Equal(t, 1.0, service.TotalPointsFor("u-1"))
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	service, _, sessions := newTestService(t, &stubAdapter{})

	user, err := service.Login("franju", "admin")
	require.NoError(t, err)
	require.Equal(t, "u-6", user.ID)

	avatar := "data:image/png;base64,abc"
	updated, err := service.UpdateProfile(context.Background(), "u-6", domain.ProfileUpdate{Avatar: &avatar})
	require.NoError(t, err)
	require.Equal(t, avatar, updated.Avatar)

	// The session slot was overwritten with the fresh profile.
	last := sessions.saves[len(sessions.saves)-1]
	require.Equal(t, avatar, last.Avatar)
}

func TestUpdateProfileDoesNotTouchForeignSession(t *testing.T) {
	service, _, sessions := newTestService(t, &stubAdapter{})

	_, err := service.Login("franju", "admin")
	require.NoError(t, err)
	savesBefore := len(sessions.saves)

	pw := "nuevo"
	_, err = service.UpdateProfile(context.Background(), "u-1", domain.ProfileUpdate{Password: &pw})
	require.NoError(t, err)
	require.Len(t, sessions.saves, savesBefore)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _, sessions := newTestService(t, &stubAdapter{})

	_, err := service.Login("franju", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, ok := sessions.Load()
	require.False(t, ok)
}

func TestCurrentUserDiscardsStaleSession(t *testing.T) {
	service, _, sessions := newTestService(t, &stubAdapter{})

	sessions.id = "u-gone"
	_, ok := service.CurrentUser()
	require.False(t, ok)
	// The two-step protocol invalidates the slot on miss.
	_, ok = sessions.Load()
	require.False(t, ok)
}

func TestLoadSeedsEmptyRemoteCollections(t *testing.T) {
	adapter := &stubAdapter{loadSnap: domain.Snapshot{}}
	st := store.New()
	sessions := &stubSessions{}
	service := domain.NewService(st, adapter, sessions)

	require.NoError(t, service.Load(context.Background()))
	require.Equal(t, 1, adapter.seedCalls)
	require.Len(t, st.Users(), 9)
	require.Len(t, st.Activities(), 6)
}

func TestLoadRefreshesSessionAgainstNewRoster(t *testing.T) {
	adapter := &stubAdapter{loadSnap: domain.SeedSnapshot()}
	st := store.New()
	sessions := &stubSessions{id: "u-missing"}
	service := domain.NewService(st, adapter, sessions)

	require.NoError(t, service.Load(context.Background()))
	_, ok := sessions.Load()
	require.False(t, ok)
}

func TestDeleteWorkoutRequiresExistingRow(t *testing.T) {
	service, _, _ := newTestService(t, &stubAdapter{})

	err := service.DeleteWorkout(context.Background(), "w-nope")
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)
}

func TestRemainingToday(t *testing.T) {
	service, _, _ := newTestService(t, &stubAdapter{})
	ctx := context.Background()

	require.Equal(t, 2, service.RemainingToday("u-6"))
	_, err := service.RegisterWorkout(ctx, domain.RegisterWorkoutInput{UserID: "u-6", ActivityID: "act-1"})
	require.NoError(t, err)
	require.Equal(t, 1, service.RemainingToday("u-6"))
}
