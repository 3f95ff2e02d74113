package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/portfolio-chat/backend/internal/handler/chat"
	"github.com/portfolio-chat/backend/internal/handler/health"
	middlewarePkg "github.com/portfolio-chat/backend/internal/middleware"
	chatService "github.com/portfolio-chat/backend/internal/service/chat"
)

// Options control how errors and service info are reported.
type Options struct {
	// Title is the API name returned by the index route.
	Title string
	// ErrorDetails attaches the underlying error to 500 responses.
	ErrorDetails bool
}

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	healthHandler := health.New(chatSvc, opts.Title)
	chatHandler := chat.New(chatSvc, opts.ErrorDetails)
	wsHandler := chat.NewWebSocketHandler(chatSvc, opts.ErrorDetails)

	healthHandler.RegisterRoutes(r)
	chatHandler.RegisterRoutes(r)
	wsHandler.RegisterWebSocketRoutes(r)

	return r
}
