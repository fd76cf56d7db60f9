package handlers

import (
	"net/http"

	"github.com/William2897/aoy-registration-form/internal/config"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, registrationHandler *RegistrationHandler) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{cfg.FrontendURL},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("AOY Registration API", "1.0.0")
	api := humachi.New(r, apiConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-registration",
		Method:        http.MethodPost,
		Path:          "/api/registration",
		Summary:       "Create a registration",
		DefaultStatus: http.StatusCreated,
	}, registrationHandler.HandleCreate)

	huma.Get(api, "/api/registration/{id}", registrationHandler.HandleGet)
	huma.Put(api, "/api/registration/{id}", registrationHandler.HandleUpdate)
	huma.Delete(api, "/api/registration/{id}", registrationHandler.HandleDelete)
	huma.Post(api, "/api/registration/{id}/confirm", registrationHandler.HandleConfirm)
}
