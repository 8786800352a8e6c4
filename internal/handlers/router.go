package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Version        string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func NewRouter(accounts AccountService, db Pinger, log *zap.Logger, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(accounts, log)
	userHandler := NewUserHandler(accounts, log)
	infoHandler := NewInfoHandler(cfg.Version, db, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Location"},
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(corsHandler.Handler)
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	router.Get("/", infoHandler.Root)
	router.Get("/health", infoHandler.Health)

	router.Route("/api/Auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/api/Users", func(r chi.Router) {
		r.Get("/email/{email}", userHandler.GetUserByEmail)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})

	return router
}
