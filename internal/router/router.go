package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/marwayahua/study-smart-egypt/internal/handlers"
	"github.com/marwayahua/study-smart-egypt/internal/middleware"
	"github.com/marwayahua/study-smart-egypt/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	cardHandler *handlers.CardHandler,
	reviewHandler *handlers.ReviewHandler,
	examHandler *handlers.ExamHandler,
	statsHandler *handlers.StatsHandler,
	generateHandler *handlers.GenerateHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Flashcard Routes ────
		r.Route("/cards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", cardHandler.Create)
			r.Get("/", cardHandler.List)
			r.Get("/due", cardHandler.Due)
			r.Delete("/{id}", cardHandler.Delete)
			r.Post("/{id}/rating", cardHandler.Rate)
			r.Get("/{id}/history", cardHandler.History)
		})

		// ──── Review Session Routes ────
		r.Route("/reviews", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", reviewHandler.Start)
			r.Get("/session", reviewHandler.Get)
			r.Post("/mode", reviewHandler.ChooseMode)
			r.Post("/reveal", reviewHandler.Reveal)
			r.Post("/answer", reviewHandler.Answer)
			r.Post("/rate", reviewHandler.Rate)
			r.Post("/exit", reviewHandler.Exit)
		})

		// ──── Exam Routes ────
		r.Route("/exams", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", examHandler.Create)
			r.Get("/", examHandler.List)
			r.Get("/upcoming", examHandler.Upcoming)
			r.Get("/multiplier", examHandler.Multiplier)
			r.Delete("/{id}", examHandler.Delete)
		})

		// ──── Stats Routes ────
		r.Route("/stats", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", statsHandler.Get)
		})

		// ──── AI Generation Routes ────
		r.Route("/generate", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", generateHandler.Generate)
			r.Get("/jobs/{id}", generateHandler.GetJob)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
