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

func (h *Handler) posts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createPost(w, r)
	case http.MethodGet:
		h.listPosts(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) postSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/posts/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.postByID(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "reactions":
		h.reactions(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
	}
}

func (h *Handler) postByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.getPost(w, r, id)
	case http.MethodPut:
		h.updatePost(w, r, id)
	case http.MethodDelete:
		h.deletePost(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	post, err := h.feed.FindPostByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !h.guard.OwnerOrFriend(r.Context(), claims, post.Username) {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, toPostView(*post))
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	usernames := splitParam(r.URL.Query().Get("username"))
	if len(usernames) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing username parameter")
		return
	}

	for _, username := range usernames {
		if !h.guard.OwnerOrFriend(r.Context(), claims, username) {
			observability.RecordUnauthorized("posts")
			writeUnauthorized(w)
			return
		}
	}

	posts, err := h.feed.FindPostsByUsernames(r.Context(), usernames)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]PostView, 0, len(posts))
	for _, post := range posts {
		items = append(items, toPostView(post))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if !h.guard.OwnerOnly(claims, req.Username) {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	post, err := h.feed.CreatePost(r.Context(), domain.CreatePostInput{
		Username:  req.Username,
		Title:     req.Title,
		Content:   req.Content,
		WorkoutID: req.WorkoutID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown workout id")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostView(*post))
}

func (h *Handler) createPostWithWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, _ := auth.FromContext(r.Context())

	var req CreatePostWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if !h.guard.OwnerOnly(claims, req.Username) {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	input := domain.CreatePostWorkoutInput{
		Username: req.Username,
		Title:    req.Title,
		Content:  req.Content,
	}
	if req.Workout != nil {
		workout := domain.WorkoutInput{
			StartedAt:   req.Workout.StartedAt,
			EndedAt:     req.Workout.EndedAt,
			Description: req.Workout.Description,
		}
		for _, activity := range req.Workout.Activities {
			workout.Activities = append(workout.Activities, domain.ActivityInput{
				ExerciseID: activity.ExerciseID,
				Sets:       activity.Sets,
				Reps:       activity.Reps,
				WeightKg:   activity.WeightKg,
			})
		}
		input.Workout = &workout
	}

	post, err := h.feed.CreatePostWithWorkout(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostView(*post))
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	post, err := h.feed.FindPostByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !h.guard.OwnerOnly(claims, post.Username) {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	updated, err := h.feed.UpdatePost(r.Context(), id, domain.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		WorkoutID: req.WorkoutID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown workout id")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostView(*updated))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	post, err := h.feed.FindPostByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !h.guard.OwnerOnly(claims, post.Username) {
		observability.RecordUnauthorized("posts")
		writeUnauthorized(w)
		return
	}

	if err := h.feed.DeletePost(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reactions(w http.ResponseWriter, r *http.Request, postID string) {
	switch r.Method {
	case http.MethodGet:
		h.listReactions(w, r, postID)
	case http.MethodPost:
		h.addReaction(w, r, postID)
	case http.MethodDelete:
		h.removeReaction(w, r, postID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listReactions(w http.ResponseWriter, r *http.Request, postID string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		observability.RecordUnauthorized("reactions")
		writeUnauthorized(w)
		return
	}

	post, err := h.feed.FindPostByID(r.Context(), postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !h.guard.OwnerOrFriend(r.Context(), claims, post.Username) {
		observability.RecordUnauthorized("reactions")
		writeUnauthorized(w)
		return
	}

	reactions, err := h.feed.ListReactions(r.Context(), postID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]ReactionView, 0, len(reactions))
	for _, reaction := range reactions {
		items = append(items, ReactionView{
			PostID:    reaction.PostID,
			Username:  reaction.Username,
			CreatedAt: reaction.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) addReaction(w http.ResponseWriter, r *http.Request, postID string) {
	claims, _ := auth.FromContext(r.Context())

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if !h.guard.OwnerOnly(claims, req.Username) {
		observability.RecordUnauthorized("reactions")
		writeUnauthorized(w)
		return
	}

	if err := h.feed.AddReaction(r.Context(), postID, req.Username); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reaction recorded"})
}

func (h *Handler) removeReaction(w http.ResponseWriter, r *http.Request, postID string) {
	claims, _ := auth.FromContext(r.Context())

	username := r.URL.Query().Get("username")
	if strings.TrimSpace(username) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing username parameter")
		return
	}

	if !h.guard.OwnerOnly(claims, username) {
		observability.RecordUnauthorized("reactions")
		writeUnauthorized(w)
		return
	}

	if err := h.feed.RemoveReaction(r.Context(), postID, username); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func splitParam(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CreatePostRequest is the payload for POST /v1/posts.
type CreatePostRequest struct {
	Username  string `json:"username"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	WorkoutID string `json:"workout_id,omitempty"`
}

// Validate ensures request correctness.
func (r CreatePostRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// WorkoutPayload is the nested workout of POST /v1/posts/workout.
type WorkoutPayload struct {
	StartedAt   time.Time         `json:"started_at"`
	EndedAt     time.Time         `json:"ended_at"`
	Description string            `json:"description"`
	Activities  []ActivityPayload `json:"activities"`
}

// ActivityPayload is one submitted activity.
type ActivityPayload struct {
	ExerciseID string  `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	WeightKg   float64 `json:"weight_kg"`
}

// CreatePostWorkoutRequest is the payload for POST /v1/posts/workout.
type CreatePostWorkoutRequest struct {
	Username string          `json:"username"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Workout  *WorkoutPayload `json:"workout,omitempty"`
}

// Validate ensures request correctness, including the nested workout.
func (r CreatePostWorkoutRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Workout != nil {
		if r.Workout.StartedAt.IsZero() {
			return errors.New("workout.started_at is required")
		}
		if r.Workout.EndedAt.IsZero() {
			return errors.New("workout.ended_at is required")
		}
		if r.Workout.EndedAt.Before(r.Workout.StartedAt) {
			return errors.New("workout.ended_at must not precede workout.started_at")
		}
		for _, activity := range r.Workout.Activities {
			if strings.TrimSpace(activity.ExerciseID) == "" {
				return errors.New("workout activity is missing exercise_id")
			}
		}
	}
	return nil
}

// UpdatePostRequest is the payload for PUT /v1/posts/{id}.
type UpdatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	WorkoutID string `json:"workout_id,omitempty"`
}

// Validate ensures request correctness.
func (r UpdatePostRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// ReactionRequest is the payload for POST /v1/posts/{id}/reactions.
type ReactionRequest struct {
	Username string `json:"username"`
}

// Validate ensures request correctness.
func (r ReactionRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	return nil
}

// PostView exposes an assembled post.
type PostView struct {
	PostID    string       `json:"post_id"`
	Username  string       `json:"username"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Workout   *WorkoutView `json:"workout,omitempty"`
}

// WorkoutView exposes an assembled workout.
type WorkoutView struct {
	WorkoutID   string         `json:"workout_id"`
	Username    string         `json:"username"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Activities  []ActivityView `json:"activities"`
}

// ActivityView exposes an enriched activity.
type ActivityView struct {
	ActivityID   string  `json:"activity_id"`
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name,omitempty"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	WeightKg     float64 `json:"weight_kg"`
}

// ReactionView exposes one reaction.
type ReactionView struct {
	PostID    string    `json:"post_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toPostView(post domain.Post) PostView {
	view := PostView{
		PostID:    post.ID,
		Username:  post.Username,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	}
	if post.Workout != nil {
		workout := toWorkoutView(*post.Workout)
		view.Workout = &workout
	}
	return view
}

func toWorkoutView(workout domain.Workout) WorkoutView {
	view := WorkoutView{
		WorkoutID:   workout.ID,
		Username:    workout.Username,
		StartedAt:   workout.StartedAt,
		EndedAt:     workout.EndedAt,
		Description: workout.Description,
		CreatedAt:   workout.CreatedAt,
		Activities:  make([]ActivityView, 0, len(workout.Activities)),
	}
	for _, activity := range workout.Activities {
		view.Activities = append(view.Activities, ActivityView{
			ActivityID:   activity.ID,
			ExerciseID:   activity.ExerciseID,
			ExerciseName: activity.ExerciseName,
			Sets:         activity.Sets,
			Reps:         activity.Reps,
			WeightKg:     activity.WeightKg,
		})
	}
	return view
}
