package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/expeditoe/backend/internal/auth"
	"github.com/expeditoe/backend/internal/book"
	"github.com/expeditoe/backend/internal/config"
	"github.com/expeditoe/backend/internal/httputil"
	"github.com/expeditoe/backend/internal/logging"
	"github.com/expeditoe/backend/internal/user"
)

// NewRouter creates and configures the HTTP router. The split between the
// public group and the authenticated group is the single place route
// protection is declared.
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	userHandler *user.Handler,
	bookHandler *book.Handler,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Public routes: registration, login, and the whole password recovery
	// flow. A caller who forgot their password has no token to present.
	r.Group(func(r chi.Router) {
		r.Post("/v1/users", authHandler.Register)
		r.Post("/v1/login", authHandler.Login)
		r.Post("/v1/forgot-password", authHandler.ForgotPassword)
		r.Get("/v1/reset-password/validate-link", authHandler.ValidateResetLink)
		r.Post("/v1/reset-password", authHandler.ResetPassword)
	})

	// Everything else requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Post("/v1/change-password", authHandler.ChangePassword)

		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/{userId}", userHandler.GetUser)
			r.Put("/{userId}", userHandler.UpdateUser)
			r.Put("/suspend/{userId}", userHandler.ToggleSuspension)
		})

		r.Route("/v1/roles", func(r chi.Router) {
			r.Post("/", userHandler.CreateRole)
			r.Get("/", userHandler.ListRoles)
			r.Get("/{roleId}", userHandler.GetRole)
			r.Put("/{roleId}", userHandler.UpdateRole)
			r.Delete("/{roleId}", userHandler.DeleteRole)
			r.Post("/{roleId}/assign", userHandler.AssignRole)
		})

		r.Route("/v1/books", func(r chi.Router) {
			r.Post("/", bookHandler.CreateBook)
			r.Get("/", bookHandler.ListBooks)
			r.Put("/", bookHandler.UpdateBook)

			r.Post("/category", bookHandler.CreateCategory)
			r.Put("/category/{id}", bookHandler.UpdateCategory)
			r.Delete("/category/{id}", bookHandler.DeleteCategory)

			r.Post("/advertisment", bookHandler.CreateAdvert)
			r.Put("/advertisment/{id}", bookHandler.UpdateAdvert)
			r.Delete("/advertisment/{id}", bookHandler.DeleteAdvert)
			r.Get("/advertisments/all", bookHandler.ListAdverts)
			r.Get("/advertisments/{id}", bookHandler.GetAdvert)

			r.Get("/favorites/{userId}", bookHandler.ListFavorites)
			r.Get("/publishers/all", bookHandler.ListPublishers)

			r.Get("/{id}", bookHandler.GetBook)
			r.Delete("/{id}", bookHandler.DeleteBook)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
