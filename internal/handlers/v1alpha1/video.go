package v1alpha1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/shortsmith/shortsmith/api/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/handlers/v1alpha1/mappers"
	"github.com/shortsmith/shortsmith/internal/service"
)

// (GET /api/videos)
func (s *ServiceHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	videos, err := s.videos.List(r.Context(), q.Get("status"), q.Get("date"), q.Get("search"))
	if err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.VideoListReply{Success: true, Videos: mappers.VideoListToApi(videos)})
}

// (POST /upload)
func (s *ServiceHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	req, err := uploadRequestFrom(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.UploadReply{Success: false, Message: "malformed request body"})
		return
	}

	result, err := s.uploads.Upload(r.Context(), req)
	if err != nil {
		render.Status(r, statusFor(err))
		render.JSON(w, r, api.UploadReply{Success: false, Message: err.Error()})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.UploadReply{
		Success: true,
		Message: "Uploaded: " + result.Title,
		VideoId: result.VideoID,
		URL:     result.URL,
	})
}

// uploadRequestFrom reads the upload payload. The dashboard sends JSON;
// plain form submissions are accepted as well.
func uploadRequestFrom(r *http.Request) (service.UploadRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			ID        string `json:"id"`
			VideoPath string `json:"video_path"`
			Title     string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return service.UploadRequest{}, err
		}
		return service.UploadRequest{VideoID: body.ID, VideoPath: body.VideoPath, Title: body.Title}, nil
	}

	if err := r.ParseForm(); err != nil {
		return service.UploadRequest{}, err
	}
	return service.UploadRequest{
		VideoID:   r.FormValue("id"),
		VideoPath: r.FormValue("video_path"),
		Title:     r.FormValue("title"),
	}, nil
}

// (POST /video/{id}/delete)
func (s *ServiceHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.videos.Delete(r.Context(), id); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Video deleted"})
}
