package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Pipeline *pipelineConfig
}

type dbConfig struct {
	Path string `envconfig:"SHORTSMITH_DB_PATH" default:"shortsmith.db"`
}

type svcConfig struct {
	Address              string        `envconfig:"SHORTSMITH_ADDRESS" default:":8080"`
	MetricsAddress       string        `envconfig:"SHORTSMITH_METRICS_ADDRESS" default:":8081"`
	BaseUrl              string        `envconfig:"SHORTSMITH_BASE_URL" default:"http://localhost:8080"`
	LogLevel             string        `envconfig:"SHORTSMITH_LOG_LEVEL" default:"info"`
	OutputDir            string        `envconfig:"SHORTSMITH_OUTPUT_DIR" default:"output"`
	ThumbnailDir         string        `envconfig:"SHORTSMITH_THUMBNAIL_DIR" default:"thumbnails"`
	WorkDir              string        `envconfig:"SHORTSMITH_WORK_DIR" default:"work"`
	JobRetention         time.Duration `envconfig:"SHORTSMITH_JOB_RETENTION" default:"60s"`
	CorsAllowedOrigins   []string      `envconfig:"SHORTSMITH_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	GracefulShutdownTime time.Duration `envconfig:"SHORTSMITH_SHUTDOWN_GRACE" default:"5s"`
}

type pipelineConfig struct {
	OpenAIKey      string `envconfig:"SHORTSMITH_OPENAI_API_KEY" default:""`
	OpenAIModel    string `envconfig:"SHORTSMITH_OPENAI_MODEL" default:"gpt-4o-mini"`
	ElevenLabsKey  string `envconfig:"SHORTSMITH_ELEVENLABS_API_KEY" default:""`
	DefaultVoiceId string `envconfig:"SHORTSMITH_DEFAULT_VOICE_ID" default:"21m00Tcm4TlvDq8ikWAM"`
	PexelsKey      string `envconfig:"SHORTSMITH_PEXELS_API_KEY" default:""`
	FfmpegPath     string `envconfig:"SHORTSMITH_FFMPEG_PATH" default:"ffmpeg"`
	MaxDuration    int    `envconfig:"SHORTSMITH_SHORTS_MAX_DURATION" default:"60"`

	// YouTube OAuth client credentials. Upload stays disabled until both are set
	// and the operator completed the auth flow.
	YoutubeClientId     string `envconfig:"SHORTSMITH_YOUTUBE_CLIENT_ID" default:""`
	YoutubeClientSecret string `envconfig:"SHORTSMITH_YOUTUBE_CLIENT_SECRET" default:""`
	YoutubeTokenFile    string `envconfig:"SHORTSMITH_YOUTUBE_TOKEN_FILE" default:"youtube_token.json"`
	YoutubeRedirectUrl  string `envconfig:"SHORTSMITH_YOUTUBE_REDIRECT_URL" default:"http://localhost:8080/api/youtube/callback"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault ignores the process environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{Path: ":memory:"},
		Service: &svcConfig{
			Address:              ":8080",
			MetricsAddress:       ":8081",
			BaseUrl:              "http://localhost:8080",
			LogLevel:             "info",
			OutputDir:            "output",
			ThumbnailDir:         "thumbnails",
			WorkDir:              "work",
			JobRetention:         60 * time.Second,
			GracefulShutdownTime: 5 * time.Second,
		},
		Pipeline: &pipelineConfig{
			OpenAIModel: "gpt-4o-mini",
			FfmpegPath:  "ffmpeg",
			MaxDuration: 60,
		},
	}
}
