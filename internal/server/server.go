package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/entrepages/diary-api/internal/config"
	"github.com/entrepages/diary-api/internal/database"
	"github.com/entrepages/diary-api/internal/report"
)

// Server wires the store, the report generator and the HTTP boundary
// together. One instance serves all requests.
type Server struct {
	cfg      *config.Config
	db       *database.Database
	reports  *report.Generator
	validate *validator.Validate
	logger   *zap.Logger
}

func New(cfg *config.Config, db *database.Database, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		db:       db,
		reports:  report.NewGenerator(db),
		validate: validator.New(),
		logger:   logger,
	}
}

// Router configures all routes and middleware. The uploads directory and the
// info endpoint stay outside the API-key check, matching the public surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "x-api-key"},
	}))

	r.Get("/", s.handleInfo)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.cfg.UploadDir))))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Get("/diary-entries", s.handleListEntries)
		r.Get("/diary-entries/stats", s.handleStats)
		r.Get("/diary-entries/favorites", s.handleListFavorites)
		r.Get("/diary-entries/mood/{mood}", s.handleListByMood)
		r.Get("/diary-entries/{id}", s.handleGetEntry)
		r.Post("/diary-entries", s.handleCreateEntry)
		r.Put("/diary-entries/{id}", s.handleUpdateEntry)
		r.Patch("/diary-entries/{id}/favorite", s.handleToggleFavorite)
		r.Delete("/diary-entries/{id}", s.handleDeleteEntry)

		r.Get("/report/pdf", s.handleReportPDF)
	})

	return r
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "EntrePages API - Digital Diary",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"diaryEntries": "/api/diary-entries",
			"reports":      "/api/report/pdf",
		},
	})
}
