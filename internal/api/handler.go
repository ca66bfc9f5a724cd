package api

import (
	"net/http"

	"github.com/simonnxyz/drgym-app/internal/auth"
	"github.com/simonnxyz/drgym-app/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	feed     *domain.FeedService
	social   *domain.SocialService
	training *domain.TrainingService
	guard    *auth.Guard
}

// NewHandler builds a Handler.
func NewHandler(feed *domain.FeedService, social *domain.SocialService, training *domain.TrainingService, guard *auth.Guard) *Handler {
	return &Handler{feed: feed, social: social, training: training, guard: guard}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/posts", h.posts)
	mux.HandleFunc("/v1/posts/workout", h.createPostWithWorkout)
	mux.HandleFunc("/v1/posts/", h.postSubtree)
	mux.HandleFunc("/v1/users/search", h.searchUsers)
	mux.HandleFunc("/v1/users/", h.userSubtree)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
