// Package api exposes HTTP handlers for the fitness tracker.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"example.com/topform/internal/auth"
	"example.com/topform/internal/domain"
	"example.com/topform/internal/generator"
)

const dateLayout = "2006-01-02"

// Generator forwards prompts to the workout generation service.
type Generator interface {
	Generate(ctx context.Context, inputText string) (*generator.Response, error)
	Check(ctx context.Context) generator.Status
}

// Option configures a Handler.
type Option func(*Handler)

// WithGenerator enables the generation endpoints.
func WithGenerator(g Generator) Option {
	return func(h *Handler) {
		h.generator = g
	}
}

// WithLogger overrides the handler logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service   *domain.Service
	generator Generator
	logger    *log.Logger
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  log.New(log.Writer(), "[api] ", log.LstdFlags|log.Lmsgprefix),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the router. requireAuth wraps the routes
// that act on behalf of the token holder.
func (h *Handler) RegisterRoutes(r *mux.Router, requireAuth func(http.Handler) http.Handler) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	r.HandleFunc("/admin/{table}", h.dumpTable).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet)

	r.Handle("/workouts", requireAuth(http.HandlerFunc(h.workoutsByDate))).Methods(http.MethodGet)
	r.Handle("/workouts", requireAuth(http.HandlerFunc(h.recordWorkout))).Methods(http.MethodPost)
	r.Handle("/diet", requireAuth(http.HandlerFunc(h.dietsByDate))).Methods(http.MethodGet)
	r.Handle("/diet", requireAuth(http.HandlerFunc(h.recordDiet))).Methods(http.MethodPost)
	r.Handle("/muscle-groups", requireAuth(http.HandlerFunc(h.recordMuscleGroups))).Methods(http.MethodPost)

	r.HandleFunc("/users/{id}", h.updateUser).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}", h.deleteUser).Methods(http.MethodDelete)

	r.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	r.HandleFunc("/generate", h.generate).Methods(http.MethodPost)
	r.HandleFunc("/generate/status", h.generatorStatus).Methods(http.MethodGet)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) dumpTable(w http.ResponseWriter, r *http.Request) {
	dump, err := h.service.DumpTable(r.Context(), mux.Vars(r)["table"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTableView(dump))
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Leaderboard(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := LeaderboardResponse{Leaderboard: make([]LeaderboardRowView, 0, len(rows))}
	for _, row := range rows {
		resp.Leaderboard = append(resp.Leaderboard, toLeaderboardRowView(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) workoutsByDate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	days, err := h.service.WorkoutsByDate(r.Context(), claims.UserID, day)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]WorkoutDayView, 0, len(days))
	for _, d := range days {
		items = append(items, toWorkoutDayView(d))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) recordWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req RecordWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	workout, err := h.service.RecordWorkout(r.Context(), claims.UserID, domain.WorkoutForm{
		Names:   req.WorkoutNames,
		Weights: req.WeightsKg,
		Reps:    req.Reps,
		Sets:    req.Sets,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RecordedView{ID: workout.ID, Date: workout.Date.Format(dateLayout)})
}

func (h *Handler) dietsByDate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	days, err := h.service.DietsByDate(r.Context(), claims.UserID, day)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]DietDayView, 0, len(days))
	for _, d := range days {
		items = append(items, toDietDayView(d))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) recordDiet(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req RecordDietRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	diet, err := h.service.RecordDiet(r.Context(), claims.UserID, domain.Meals{
		Breakfast: req.Breakfast,
		Lunch:     req.Lunch,
		Diner:     req.Diner,
		Dessert:   req.Dessert,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RecordedView{ID: diet.ID, Date: diet.FoodDate.Format(dateLayout)})
}

func (h *Handler) recordMuscleGroups(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req RecordMuscleGroupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	group, err := h.service.RecordMuscleGroups(r.Context(), claims.UserID, domain.MuscleGroupsForm{
		Men:    req.Men,
		Groups: mapSlice(req.MuscleGroups, func(e MuscleGroupEntryRequest) domain.MuscleGroupEntry { return domain.MuscleGroupEntry(e) }),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMuscleGroupView(*group))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, domain.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Men:      req.Men,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}

	summary, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "user not found")
			return
		}
		h.logger.Printf("delete user %d failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"type":   "server_error",
			"detail": "user deletion failed and was rolled back",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, DeleteUserResponse{
		Message: "user deleted",
		Deleted: DeletedCounts{
			Workouts:     summary.Workouts,
			Diets:        summary.Diets,
			Ranks:        summary.Ranks,
			MuscleGroups: summary.MuscleGroups,
			Links:        summary.Links,
		},
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	input := domain.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}
	if strings.TrimSpace(req.BirthDate) != "" {
		birth, err := parseDate(req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "birthDate: "+err.Error())
			return
		}
		input.BirthDate = &birth
	}

	token, user, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{Token: token, User: toUserView(*user)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user id must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseDate reads a calendar day. Timestamps are accepted and truncated to their date.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	if day, err := time.Parse(dateLayout, raw); err == nil {
		return day, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("date must be formatted as YYYY-MM-DD")
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "username_taken", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, domain.ErrNoActivity):
		writeError(w, http.StatusNotFound, "no_activity", err.Error())
	case errors.Is(err, domain.ErrNoWorkoutForDate):
		writeError(w, http.StatusNotFound, "no_workout_for_date", err.Error())
	case errors.Is(err, domain.ErrNoDietForDate):
		writeError(w, http.StatusNotFound, "no_diet_for_date", err.Error())
	case errors.Is(err, domain.ErrUnknownTable):
		writeError(w, http.StatusNotFound, "unknown_table", err.Error())
	default:
		h.logger.Printf("request failed: %v", err)
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
