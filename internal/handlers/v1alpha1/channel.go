package v1alpha1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	api "github.com/shortsmith/shortsmith/api/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/pipeline/youtube"
	"github.com/shortsmith/shortsmith/internal/service"
)

// (GET /api/youtube/channel)
func (s *ServiceHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	info, err := s.channel.Channel(r.Context())
	if err != nil {
		if errors.Is(err, youtube.ErrNotAuthenticated) {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, api.ChannelReply{Success: false, Message: "authentication required"})
			return
		}
		render.Status(r, statusFor(err))
		render.JSON(w, r, api.ChannelReply{Success: false, Message: err.Error()})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ChannelReply{
		Success: true,
		Channel: &api.Channel{
			Title:           info.Title,
			SubscriberCount: info.SubscriberCount,
			VideoCount:      info.VideoCount,
			Thumbnail:       info.Thumbnail,
		},
	})
}

// (GET /api/youtube/auth)
func (s *ServiceHandler) GetAuth(w http.ResponseWriter, r *http.Request) {
	state := s.channel.Auth(r.Context())
	if !state.Configured {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, api.AuthReply{Success: false, Message: "video platform credentials are not configured"})
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.AuthReply{
		Success:      true,
		AuthRequired: state.AuthRequired,
		AuthURL:      state.AuthURL,
	})
}

// (GET /api/youtube/callback)
//
// The consent redirect lands here; on success the operator is sent back to
// the dashboard.
func (s *ServiceHandler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if err := s.channel.CompleteAuth(r.Context(), code); err != nil {
		renderFailure(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// (GET /api/youtube/settings)
func (s *ServiceHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	shorts, err := s.settings.Shorts(r.Context())
	if err != nil {
		renderFailure(w, r, err)
		return
	}
	upload, err := s.settings.Upload(r.Context())
	if err != nil {
		renderFailure(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.SettingsReply{
		Success: true,
		Shorts: api.ShortsSettings{
			Style:          shorts.Style,
			MaxDuration:    shorts.MaxDuration,
			VerticalFormat: shorts.VerticalFormat,
			FastPaced:      shorts.FastPaced,
		},
		Upload: api.UploadSettings{
			Tags:          upload.Tags,
			PrivacyStatus: upload.PrivacyStatus,
			AutoUpload:    upload.AutoUpload,
		},
	})
}

// (POST /settings/shorts)
func (s *ServiceHandler) SaveShortsSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderFailure(w, r, service.NewErrValidation("malformed form body"))
		return
	}

	current, err := s.settings.Shorts(r.Context())
	if err != nil {
		renderFailure(w, r, err)
		return
	}

	if v := r.FormValue("style"); v != "" {
		current.Style = v
	}
	if v := r.FormValue("max_duration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			renderFailure(w, r, service.NewErrValidation("max_duration must be a number"))
			return
		}
		current.MaxDuration = n
	}
	if v := r.FormValue("vertical_format"); v != "" {
		current.VerticalFormat = v == "true"
	}
	if v := r.FormValue("fast_paced"); v != "" {
		current.FastPaced = v == "true"
	}

	if err := s.settings.SaveShorts(r.Context(), current); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Shorts settings saved"})
}

// (POST /settings/youtube)
func (s *ServiceHandler) SaveUploadSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderFailure(w, r, service.NewErrValidation("malformed form body"))
		return
	}

	current, err := s.settings.Upload(r.Context())
	if err != nil {
		renderFailure(w, r, err)
		return
	}

	if v := r.FormValue("tags"); v != "" {
		current.Tags = v
	}
	if v := r.FormValue("privacy_status"); v != "" {
		current.PrivacyStatus = v
	}
	if v := r.FormValue("auto_upload"); v != "" {
		current.AutoUpload = v == "true"
	}

	if err := s.settings.SaveUpload(r.Context(), current); err != nil {
		renderFailure(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, api.ActionReply{Success: true, Message: "Upload settings saved"})
}
