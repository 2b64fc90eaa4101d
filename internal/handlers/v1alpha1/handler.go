// Package v1alpha1 implements the HTTP handlers behind the dashboard API.
package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/shortsmith/shortsmith/api/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/handlers/validator"
	"github.com/shortsmith/shortsmith/internal/service"
)

type ServiceHandler struct {
	jobs      *service.JobService
	status    *service.StatusService
	videos    *service.VideoService
	uploads   *service.UploadService
	settings  *service.SettingsService
	channel   *service.ChannelService
	validator *validator.Validator
}

func NewServiceHandler(
	jobs *service.JobService,
	status *service.StatusService,
	videos *service.VideoService,
	uploads *service.UploadService,
	settings *service.SettingsService,
	channel *service.ChannelService,
) *ServiceHandler {
	return &ServiceHandler{
		jobs:      jobs,
		status:    status,
		videos:    videos,
		uploads:   uploads,
		settings:  settings,
		channel:   channel,
		validator: validator.New(),
	}
}

// (GET /health)
func (s *ServiceHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// renderFailure writes the shared {success:false, message} envelope with a
// status code derived from the service error taxonomy.
func renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, statusFor(err))
	render.JSON(w, r, api.ActionReply{Success: false, Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case isAny[*service.ErrJobNotFound](err), isAny[*service.ErrVideoNotFound](err):
		return http.StatusNotFound
	case isAny[*service.ErrInvalidJobState](err), isAny[*service.ErrVideoAlreadyUploaded](err):
		return http.StatusConflict
	case isAny[*service.ErrValidation](err):
		return http.StatusBadRequest
	case isAny[*service.ErrUploaderNotConfigured](err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isAny[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
