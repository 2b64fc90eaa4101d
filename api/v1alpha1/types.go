// Package v1alpha1 contains the wire types served to the dashboard.
package v1alpha1

// Job is the dashboard view of one automation run.
type Job struct {
	Id             string `json:"id"`
	Niche          string `json:"niche"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	Progress       int    `json:"progress"`
	Started        string `json:"started"`
	RequestedCount int    `json:"requested_count"`
}

// Video is one produced artifact, locally stored and optionally uploaded.
type Video struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Date      string `json:"date"`
	Uploaded  bool   `json:"uploaded"`
	VideoId   string `json:"videoId,omitempty"`
}

// Stats is the aggregate block of the status reply.
type Stats struct {
	TotalVideos int `json:"total_videos"`
	VideosToday int `json:"videos_today"`
	ActiveJobs  int `json:"active_jobs"`
	SuccessRate int `json:"success_rate"`
}

// Notification is a transient dashboard toast.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StatusReply is the full polling snapshot returned by GET /status.
type StatusReply struct {
	Stats         Stats          `json:"stats"`
	Jobs          []Job          `json:"jobs"`
	Videos        []Video        `json:"videos"`
	Notifications []Notification `json:"notifications"`
}

// ActionReply is the success/failure envelope shared by the mutating endpoints.
type ActionReply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RunReply is returned by POST /run.
type RunReply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	JobId   string `json:"job_id,omitempty"`
}

// VideoListReply is returned by GET /api/videos.
type VideoListReply struct {
	Success bool    `json:"success"`
	Videos  []Video `json:"videos"`
}

// UploadReply is returned by POST /upload.
type UploadReply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	VideoId string `json:"video_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Channel describes the connected upload channel.
type Channel struct {
	Title           string `json:"title"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
	Thumbnail       string `json:"thumbnail,omitempty"`
}

// ChannelReply is returned by GET /api/youtube/channel.
type ChannelReply struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Channel *Channel `json:"channel,omitempty"`
}

// AuthReply is returned by GET /api/youtube/auth.
type AuthReply struct {
	Success      bool   `json:"success"`
	AuthRequired bool   `json:"auth_required,omitempty"`
	AuthURL      string `json:"auth_url,omitempty"`
	Message      string `json:"message,omitempty"`
}

// UploadSettings are the persisted upload defaults shown in the settings page.
type UploadSettings struct {
	Tags          string `json:"tags"`
	PrivacyStatus string `json:"privacy_status"`
	AutoUpload    bool   `json:"auto_upload"`
}

// ShortsSettings are the persisted generation defaults.
type ShortsSettings struct {
	MaxDuration    int    `json:"max_duration"`
	VerticalFormat bool   `json:"vertical_format"`
	FastPaced      bool   `json:"fast_paced"`
	Style          string `json:"style"`
}

// SettingsReply is returned by GET /api/youtube/settings.
type SettingsReply struct {
	Success bool           `json:"success"`
	Upload  UploadSettings `json:"upload"`
	Shorts  ShortsSettings `json:"shorts"`
}
