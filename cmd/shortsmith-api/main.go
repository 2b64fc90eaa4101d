package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apiserver "github.com/shortsmith/shortsmith/internal/api_server"
	"github.com/shortsmith/shortsmith/internal/config"
	"github.com/shortsmith/shortsmith/internal/events"
	handlers "github.com/shortsmith/shortsmith/internal/handlers/v1alpha1"
	"github.com/shortsmith/shortsmith/internal/pipeline/elevenlabs"
	"github.com/shortsmith/shortsmith/internal/pipeline/ffmpeg"
	"github.com/shortsmith/shortsmith/internal/pipeline/openai"
	"github.com/shortsmith/shortsmith/internal/pipeline/pexels"
	"github.com/shortsmith/shortsmith/internal/pipeline/youtube"
	"github.com/shortsmith/shortsmith/internal/runner"
	"github.com/shortsmith/shortsmith/internal/service"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/pkg/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		zap.S().Fatalw("reading configuration", "error", err)
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	zap.S().Named("main").Info("Starting Shorts automation service")
	defer zap.S().Named("main").Info("Shorts automation service stopped")

	db, err := store.InitDB(cfg)
	if err != nil {
		zap.S().Named("main").Fatalw("initializing data store", "error", err)
	}

	s := store.NewStore(db)
	defer s.Close()

	if err := s.InitialMigration(); err != nil {
		zap.S().Named("main").Fatalw("running initial migration", "error", err)
	}

	notifier := events.NewCenter()
	pipe := buildPipeline(cfg)

	jobRunner := runner.New(s, notifier, pipe, runner.Config{
		OutputDir:    cfg.Service.OutputDir,
		ThumbnailDir: cfg.Service.ThumbnailDir,
		WorkDir:      cfg.Service.WorkDir,
		JobRetention: cfg.Service.JobRetention,
		MaxDuration:  cfg.Pipeline.MaxDuration,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := jobRunner.Start(ctx); err != nil {
		zap.S().Named("main").Fatalw("starting job runner", "error", err)
	}

	settingsService := service.NewSettingsService(s)
	handler := handlers.NewServiceHandler(
		service.NewJobService(s, jobRunner),
		service.NewStatusService(s, notifier),
		service.NewVideoService(s, cfg.Service.OutputDir, cfg.Service.ThumbnailDir),
		service.NewUploadService(s, pipe.Uploader, settingsService, notifier, cfg.Service.OutputDir, cfg.Service.ThumbnailDir),
		settingsService,
		service.NewChannelService(pipe.Uploader),
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		listener, err := newListener(cfg.Service.Address)
		if err != nil {
			return fmt.Errorf("creating listener: %w", err)
		}
		return apiserver.New(cfg, handler, listener).Run(groupCtx)
	})

	group.Go(func() error {
		listener, err := newListener(cfg.Service.MetricsAddress)
		if err != nil {
			return fmt.Errorf("creating metrics listener: %w", err)
		}
		return apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener).Run(groupCtx)
	})

	if err := group.Wait(); err != nil {
		zap.S().Named("main").Errorw("server terminated", "error", err)
	}
	jobRunner.Wait(cfg.Service.GracefulShutdownTime)
}

// buildPipeline constructs whichever collaborators have credentials. Missing
// keys disable their stage rather than failing startup; jobs that need a
// disabled stage report the error at run time.
func buildPipeline(cfg *config.Config) runner.Pipeline {
	pipe := runner.Pipeline{}
	mainLog := zap.S().Named("main")

	if scripts, err := openai.New(cfg.Pipeline.OpenAIKey, cfg.Pipeline.OpenAIModel); err != nil {
		mainLog.Warnw("script generation disabled", "error", err)
	} else {
		pipe.Scripts = scripts
	}

	if narrator, err := elevenlabs.New(cfg.Pipeline.ElevenLabsKey, cfg.Pipeline.DefaultVoiceId); err != nil {
		mainLog.Warnw("narration disabled", "error", err)
	} else {
		pipe.Narrator = narrator
	}

	if footage, err := pexels.New(cfg.Pipeline.PexelsKey); err != nil {
		mainLog.Warnw("stock footage disabled", "error", err)
	} else {
		pipe.Footage = footage
	}

	assembler := ffmpeg.New(cfg.Pipeline.FfmpegPath)
	pipe.Assembler = assembler
	pipe.Thumbnailer = assembler

	if uploader, err := youtube.New(youtube.Config{
		ClientID:     cfg.Pipeline.YoutubeClientId,
		ClientSecret: cfg.Pipeline.YoutubeClientSecret,
		RedirectURL:  cfg.Pipeline.YoutubeRedirectUrl,
		TokenFile:    cfg.Pipeline.YoutubeTokenFile,
	}); err != nil {
		mainLog.Warnw("platform upload disabled", "error", err)
	} else {
		pipe.Uploader = uploader
	}

	return pipe
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
