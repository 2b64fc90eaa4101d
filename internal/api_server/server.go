package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/config"
	handlers "github.com/shortsmith/shortsmith/internal/handlers/v1alpha1"
	"github.com/shortsmith/shortsmith/pkg/metrics"
	"github.com/shortsmith/shortsmith/pkg/middleware"
)

// Server hosts the dashboard API and the produced media files.
type Server struct {
	cfg      *config.Config
	handler  *handlers.ServiceHandler
	listener net.Listener
}

func New(cfg *config.Config, handler *handlers.ServiceHandler, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		handler:  handler,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsAllowedOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	registerRoutes(router, s.handler)

	// Produced media served straight off disk for the gallery preview.
	router.Handle("/videos/*", http.StripPrefix("/videos/", http.FileServer(http.Dir(s.cfg.Service.OutputDir))))
	router.Handle("/thumbnails/*", http.StripPrefix("/thumbnails/", http.FileServer(http.Dir(s.cfg.Service.ThumbnailDir))))

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), s.cfg.Service.GracefulShutdownTime)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

func registerRoutes(router chi.Router, h *handlers.ServiceHandler) {
	router.Get("/health", h.Health)
	router.Get("/status", h.GetStatus)

	router.Post("/run", h.RunAutomation)
	router.Post("/job/{id}/pause", h.PauseJob)
	router.Post("/job/{id}/resume", h.ResumeJob)
	router.Post("/job/{id}/cancel", h.CancelJob)

	router.Get("/api/videos", h.ListVideos)
	router.Post("/upload", h.UploadVideo)
	router.Post("/video/{id}/delete", h.DeleteVideo)

	router.Get("/api/youtube/channel", h.GetChannel)
	router.Get("/api/youtube/auth", h.GetAuth)
	router.Get("/api/youtube/callback", h.AuthCallback)
	router.Get("/api/youtube/settings", h.GetSettings)
	router.Post("/settings/shorts", h.SaveShortsSettings)
	router.Post("/settings/youtube", h.SaveUploadSettings)
}
