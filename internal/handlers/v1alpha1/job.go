package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/shortsmith/shortsmith/api/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/service"
)

// runForm is the dashboard submission form.
type runForm struct {
	Niche         string `validate:"required,min=2,max=120"`
	Count         int    `validate:"min=1,max=10"`
	Style         string `validate:"max=60"`
	VoiceID       string `validate:"max=120"`
	TemplateStyle string `validate:"max=60"`
	AutoUpload    bool
}

// (POST /run)
func (s *ServiceHandler) RunAutomation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.RunReply{Success: false, Message: "malformed form body"})
		return
	}

	// HTML checkboxes submit "on"; scripted clients send "true"
	autoUpload := r.FormValue("auto_upload")
	form := runForm{
		Niche:         r.FormValue("niche"),
		Count:         1,
		Style:         r.FormValue("style"),
		VoiceID:       r.FormValue("voice_id"),
		TemplateStyle: r.FormValue("template_style"),
		AutoUpload:    autoUpload == "on" || autoUpload == "true",
	}
	if raw := r.FormValue("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, api.RunReply{Success: false, Message: "count must be a number"})
			return
		}
		form.Count = count
	}

	if err := s.validator.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.RunReply{Success: false, Message: err.Error()})
		return
	}

	job, err := s.jobs.Submit(r.Context(), service.SubmitRequest{
		Niche:         form.Niche,
		Count:         form.Count,
		Style:         form.Style,
		VoiceID:       form.VoiceID,
		TemplateStyle: form.TemplateStyle,
		AutoUpload:    form.AutoUpload,
	})
	if err != nil {
		render.Status(r, statusFor(err))
		render.JSON(w, r, api.RunReply{Success: false, Message: err.Error()})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.RunReply{
		Success: true,
		Message: fmt.Sprintf("Started automation for niche: %s", job.Niche),
		JobId:   job.ID,
	})
}

// (POST /job/{id}/pause)
func (s *ServiceHandler) PauseJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.jobs.Pause(r.Context(), id); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Job paused"})
}

// (POST /job/{id}/resume)
func (s *ServiceHandler) ResumeJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.jobs.Resume(r.Context(), id); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Job resumed"})
}

// (POST /job/{id}/cancel)
func (s *ServiceHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.jobs.Cancel(r.Context(), id); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Job cancelled"})
}
