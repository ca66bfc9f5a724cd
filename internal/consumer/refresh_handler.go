package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/simonnxyz/drgym-app/internal/events"
)

// NameRefresher rewrites stored exercise names for activities referencing a
// renamed catalog entry.
type NameRefresher interface {
	RefreshActivityNames(ctx context.Context, exerciseID, name string) (int64, error)
}

// RefreshHandler applies exercise.renamed events to the denormalized
// exercise names activities carry. The stored name is a read-optimization
// with no synchronous freshness guarantee; this handler is how stale copies
// converge.
type RefreshHandler struct {
	store NameRefresher
}

// NewRefreshHandler constructs a refresh handler over the provided store.
func NewRefreshHandler(store NameRefresher) Handler {
	return &RefreshHandler{store: store}
}

// Handle projects exercise.renamed events onto stored activities.
func (h *RefreshHandler) Handle(ctx context.Context, msg Message) error {
	if msg.Headers["event_type"] != "exercise.renamed" {
		return nil
	}

	var evt events.ExerciseRenamed
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return err
	}
	if strings.TrimSpace(evt.ExerciseID) == "" {
		return errors.New("exercise.renamed event missing exercise_id")
	}
	if strings.TrimSpace(evt.Name) == "" {
		return errors.New("exercise.renamed event missing name")
	}

	refreshed, err := h.store.RefreshActivityNames(ctx, evt.ExerciseID, evt.Name)
	if err != nil {
		return err
	}
	RecordProcessed(msg)
	RecordRefreshed(refreshed)
	return nil
}
