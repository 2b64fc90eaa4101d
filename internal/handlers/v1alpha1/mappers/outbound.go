// Package mappers converts store and service types to the wire types.
package mappers

import (
	"time"

	api "github.com/shortsmith/shortsmith/api/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/service"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

func JobToApi(job model.Job) api.Job {
	return api.Job{
		Id:             job.ID,
		Niche:          job.Niche,
		Status:         string(job.Status),
		Message:        job.Message,
		Progress:       job.Progress,
		Started:        job.Started.Format(time.RFC3339),
		RequestedCount: job.RequestedCount,
	}
}

func VideoToApi(video model.Video) api.Video {
	out := api.Video{
		Id:       video.ID,
		Title:    video.Title,
		Path:     video.Path,
		Date:     video.CreatedAt.Format("2006-01-02"),
		Uploaded: video.Uploaded,
	}
	if video.Thumbnail != "" {
		out.Thumbnail = "/thumbnails/" + video.Thumbnail
	}
	if video.VideoID != nil {
		out.VideoId = *video.VideoID
	}
	return out
}

func VideoListToApi(videos model.VideoList) []api.Video {
	out := make([]api.Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, VideoToApi(v))
	}
	return out
}

func SnapshotToApi(snapshot service.Snapshot) api.StatusReply {
	jobs := make([]api.Job, 0, len(snapshot.Jobs))
	for _, j := range snapshot.Jobs {
		jobs = append(jobs, JobToApi(j))
	}

	notifications := make([]api.Notification, 0, len(snapshot.Notifications))
	for _, n := range snapshot.Notifications {
		notifications = append(notifications, api.Notification{Kind: n.Kind, Message: n.Message})
	}

	return api.StatusReply{
		Stats: api.Stats{
			TotalVideos: snapshot.Stats.TotalVideos,
			VideosToday: snapshot.Stats.VideosToday,
			ActiveJobs:  snapshot.Stats.ActiveJobs,
			SuccessRate: snapshot.Stats.SuccessRate,
		},
		Jobs:          jobs,
		Videos:        VideoListToApi(snapshot.Videos),
		Notifications: notifications,
	}
}
