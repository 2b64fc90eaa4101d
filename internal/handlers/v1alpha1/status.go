package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/shortsmith/shortsmith/internal/handlers/v1alpha1/mappers"
)

// (GET /status)
//
// The reply is a full snapshot; pending notifications are drained into it, so
// each toast is delivered to exactly one poll.
func (s *ServiceHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.status.Snapshot(r.Context())
	if err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, mappers.SnapshotToApi(snapshot))
}
