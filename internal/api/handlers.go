// Package api exposes HTTP handlers for the workout ledger.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nospelin-a11y/guerreros2026-2/internal/auth"
	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

// Handler coordinates HTTP requests with the mutation gateway. Privileged
// routes check the admin claim here; the gateway itself trusts its caller.
type Handler struct {
	service  *domain.Service
	authCfg  auth.Config
	tokenTTL time.Duration
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, authCfg auth.Config, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, authCfg: authCfg, tokenTTL: tokenTTL}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/login", h.login)
	mux.HandleFunc("/v1/logout", h.logout)
	mux.HandleFunc("/v1/session", h.session)
	mux.HandleFunc("/v1/state", h.state)
	mux.HandleFunc("/v1/ranking", h.ranking)
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/v1/workouts/", h.workoutByID)
	mux.HandleFunc("/v1/profile", h.profile)
	mux.HandleFunc("/v1/users", h.users)
	mux.HandleFunc("/v1/users/", h.userByID)
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/", h.activityPoints)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}

	token, err := auth.Issue(user, h.authCfg, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: toUserView(user)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.service.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, ok := h.service.CurrentUser()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no active session")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		User:           toUserView(user),
		RemainingToday: h.service.RemainingToday(user.ID),
	})
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	snap := h.service.State()
	resp := StateResponse{
		Users:      make([]UserView, 0, len(snap.Users)),
		Activities: snap.Activities,
		Workouts:   snap.Workouts,
	}
	for _, u := range snap.Users {
		resp.Users = append(resp.Users, toUserView(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ranking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	ranked := h.service.Ranking()
	resp := RankingResponse{Entries: make([]RankingEntry, 0, len(ranked))}
	for _, entry := range ranked {
		resp.Entries = append(resp.Entries, RankingEntry{
			User:        toUserView(entry.User),
			TotalPoints: entry.Total,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req RegisterWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.ActivityID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "activity_id is required")
		return
	}

	// Submitting on behalf of someone else, or backdating, is admin-only.
	userID := req.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if (userID != claims.Subject || !req.Date.IsZero()) && !claims.Admin {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	workout, err := h.service.RegisterWorkout(r.Context(), domain.RegisterWorkoutInput{
		UserID:     userID,
		ActivityID: req.ActivityID,
		Notes:      req.Notes,
		Date:       req.Date,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/workouts/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.service.DeleteWorkout(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.Subject, domain.ProfileUpdate{
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(user))
}

func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.service.State().Activities)
	case http.MethodPost:
		if !h.requireAdmin(w, r) {
			return
		}
		var req CreateActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		activity, err := h.service.CreateActivity(r.Context(), req.Name, req.Points)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, activity)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityPoints(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	id, ok := strings.CutSuffix(rest, "/points")
	if !ok || id == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	var req UpdatePointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	activity, err := h.service.UpdateActivityPoints(r.Context(), id, req.Points)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.Admin {
		writeError(w, http.StatusForbidden, "forbidden", "admin role required")
		return false
	}
	return true
}

// LoginRequest is the payload for POST /v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the bearer token and the authenticated user.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// RegisterWorkoutRequest is the payload for POST /v1/workouts. UserID and
// Date are admin-only fields; regular users submit for themselves, now.
type RegisterWorkoutRequest struct {
	UserID     string    `json:"user_id,omitempty"`
	ActivityID string    `json:"activity_id"`
	Notes      string    `json:"notes,omitempty"`
	Date       time.Time `json:"date,omitempty"`
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	Avatar   *string `json:"avatar,omitempty"`
	Password *string `json:"password,omitempty"`
}

// CreateUserRequest is the payload for POST /v1/users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate ensures request correctness.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// CreateActivityRequest is the payload for POST /v1/activities.
type CreateActivityRequest struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
}

// UpdatePointsRequest is the payload for PUT /v1/activities/{id}/points.
type UpdatePointsRequest struct {
	Points float64 `json:"points"`
}

// UserView exposes a roster member without the shared secret.
type UserView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Avatar   string `json:"avatar,omitempty"`
}

// SessionResponse describes the restored session plus how many workouts the
// user may still register today, so the client can disable the submit button.
type SessionResponse struct {
	User           UserView `json:"user"`
	RemainingToday int      `json:"remainingToday"`
}

// StateResponse packages the three collections for the client.
type StateResponse struct {
	Users      []UserView        `json:"users"`
	Activities []domain.Activity `json:"activities"`
	Workouts   []domain.Workout  `json:"workouts"`
}

// RankingEntry pairs a user with their derived total.
type RankingEntry struct {
	User        UserView `json:"user"`
	TotalPoints float64  `json:"totalPoints"`
}

// RankingResponse lists the standings in rank order.
type RankingResponse struct {
	Entries []RankingEntry `json:"entries"`
}

func toUserView(u domain.User) UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		Avatar:   u.Avatar,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusConflict, "quota_exceeded", "daily workout limit reached")
	case errors.Is(err, domain.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "duplicate_username", "username already exists")
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrWorkoutNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
