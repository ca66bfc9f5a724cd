package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/simonnxyz/drgym-app/internal/auth"
	"github.com/simonnxyz/drgym-app/internal/domain"
	"github.com/simonnxyz/drgym-app/internal/observability"
)

// searchUsers handles GET /v1/users/search?q=. Search is open to any caller;
// it only ever reveals usernames, never profile data.
func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	usernames, err := h.social.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usernames)
}

func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	parts := strings.Split(rest, "/")
	if parts[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}
	username := parts[0]

	switch {
	case len(parts) == 1:
		h.userByName(w, r, username)
	case len(parts) == 2 && parts[1] == "workouts":
		h.listWorkouts(w, r, username)
	case len(parts) == 2 && parts[1] == "exercises":
		h.exercisesInPeriod(w, r, username)
	case len(parts) == 2 && parts[1] == "daily-exercise-count":
		h.dailyExerciseCounts(w, r, username)
	case len(parts) == 2 && parts[1] == "friends":
		h.addFriend(w, r, username)
	case len(parts) == 3 && parts[1] == "friends":
		h.removeFriend(w, r, username, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
	}
}

func (h *Handler) userByName(w http.ResponseWriter, r *http.Request, username string) {
	switch r.Method {
	case http.MethodGet:
		h.getUser(w, r, username)
	case http.MethodPut:
		h.updateUser(w, r, username)
	case http.MethodDelete:
		h.deleteUser(w, r, username)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, username string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("users")
		writeUnauthorized(w)
		return
	}
	if !h.guard.OwnerOrFriend(r.Context(), claims, username) {
		observability.RecordUnauthorized("users")
		writeUnauthorized(w)
		return
	}

	user, err := h.social.GetUser(r.Context(), username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, username string) {
	claims, _ := auth.FromContext(r.Context())
	if !h.guard.OwnerOnly(claims, username) {
		observability.RecordUnauthorized("users")
		writeUnauthorized(w)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := h.social.UpdateUser(r.Context(), username, domain.UpdateUserInput{
		Name:    req.Name,
		Surname: req.Surname,
		Weight:  req.Weight,
		Height:  req.Height,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request, username string) {
	claims, _ := auth.FromContext(r.Context())
	if !h.guard.OwnerOnly(claims, username) {
		observability.RecordUnauthorized("users")
		writeUnauthorized(w)
		return
	}

	if err := h.social.DeleteUser(r.Context(), username); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}
	if !h.guard.OwnerOrFriend(r.Context(), claims, username) {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}

	workouts, err := h.training.FindWorkoutsByUsername(r.Context(), username)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]WorkoutView, 0, len(workouts))
	for _, workout := range workouts {
		items = append(items, toWorkoutView(workout))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) exercisesInPeriod(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}
	if !h.guard.OwnerOrFriend(r.Context(), claims, username) {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}

	from, to, err := periodBounds(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	counts, err := h.training.ExercisesInPeriod(r.Context(), username, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]ExerciseCountView, 0, len(counts))
	for _, count := range counts {
		items = append(items, ExerciseCountView{
			ExerciseID:   count.ExerciseID,
			ExerciseName: count.ExerciseName,
			Count:        count.Count,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) dailyExerciseCounts(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}
	if !h.guard.OwnerOrFriend(r.Context(), claims, username) {
		observability.RecordUnauthorized("workouts")
		writeUnauthorized(w)
		return
	}

	from, to, err := periodBounds(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	counts, err := h.training.DailyExerciseCounts(r.Context(), username, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]DailyCountView, 0, len(counts))
	for _, count := range counts {
		items = append(items, DailyCountView{
			Day:   count.Day.Format("2006-01-02"),
			Count: count.Count,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) addFriend(w http.ResponseWriter, r *http.Request, username string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, _ := auth.FromContext(r.Context())
	if !h.guard.OwnerOnly(claims, username) {
		observability.RecordUnauthorized("friends")
		writeUnauthorized(w)
		return
	}

	var req FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.social.AddFriend(r.Context(), username, req.Friend); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "unknown friend username")
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "friendship recorded"})
}

func (h *Handler) removeFriend(w http.ResponseWriter, r *http.Request, username, friend string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, _ := auth.FromContext(r.Context())
	if !h.guard.OwnerOnly(claims, username) {
		observability.RecordUnauthorized("friends")
		writeUnauthorized(w)
		return
	}

	if err := h.social.RemoveFriend(r.Context(), username, friend); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// periodBounds reads the from/to query parameters. Both are required.
func periodBounds(r *http.Request) (time.Time, time.Time, error) {
	rawFrom := r.URL.Query().Get("from")
	rawTo := r.URL.Query().Get("to")
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, errors.New("from and to parameters are required")
	}
	from, err := parsePeriod(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("from must be RFC 3339 or YYYY-MM-DD")
	}
	to, err := parsePeriod(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("to must be RFC 3339 or YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not precede from")
	}
	return from, to, nil
}

// UpdateUserRequest is the payload for PUT /v1/users/{username}.
type UpdateUserRequest struct {
	Name    string  `json:"name"`
	Surname string  `json:"surname"`
	Weight  float64 `json:"weight"`
	Height  float64 `json:"height"`
}

// Validate ensures request correctness.
func (r UpdateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Weight < 0 || r.Height < 0 {
		return errors.New("weight and height must not be negative")
	}
	return nil
}

// FriendRequest is the payload for POST /v1/users/{username}/friends.
type FriendRequest struct {
	Friend string `json:"friend"`
}

// Validate ensures request correctness.
func (r FriendRequest) Validate() error {
	if strings.TrimSpace(r.Friend) == "" {
		return errors.New("friend is required")
	}
	return nil
}

// UserView exposes a profile.
type UserView struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Weight    float64   `json:"weight"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// ExerciseCountView aggregates exercise usage over a period.
type ExerciseCountView struct {
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name,omitempty"`
	Count        int    `json:"count"`
}

// DailyCountView aggregates activities per calendar day.
type DailyCountView struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		Username:  user.Username,
		Name:      user.Name,
		Surname:   user.Surname,
		Email:     user.Email,
		Weight:    user.Weight,
		Height:    user.Height,
		CreatedAt: user.CreatedAt,
	}
}
