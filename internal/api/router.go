package api

import (
	"net/http"
	"time"

	"codearena/internal/api/handler"
	"codearena/internal/app/service"
	"codearena/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	taskService *service.TaskService,
	submissionService *service.SubmissionService,
	contestService *service.ContestService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in the context;
	// the Authenticator middleware enforces it per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(public chi.Router) {
			authHandler.RegisterRoutes(public)
		})

		taskHandler := handler.NewTaskHandler(taskService)
		v1.Route("/tasks", taskHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		contestHandler := handler.NewContestHandler(contestService)
		v1.Route("/contests", contestHandler.RegisterRoutes)
	})

	return r
}
