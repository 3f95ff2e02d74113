package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio-chat/backend/internal/service/ai"
	"github.com/portfolio-chat/backend/pkg/utils"
)

// Version is reported by the index route.
const Version = "1.0.0"

// Clock yields formatted snapshots of the current time.
type Clock interface {
	Now() ai.DateTime
}

// Handler serves liveness and service information.
type Handler struct {
	clock Clock
	title string
}

// New creates the handler. title is the API name shown on the index route.
func New(clock Clock, title string) *Handler {
	return &Handler{clock: clock, title: title}
}

// RegisterRoutes 注册健康检查与首页路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/", h.handleIndex)
}

// Status is the health check body. All time fields come from one snapshot.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Check builds a health status from the clock.
func Check(clock Clock) Status {
	now := clock.Now()
	return Status{
		Status:    "OK",
		Timestamp: now.Timestamp,
		Date:      now.Date,
		Time:      now.Time,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, Check(h.clock))
}

// Index describes the service and its routes.
func Index(title string) map[string]any {
	return map[string]any{
		"message": title,
		"version": Version,
		"status":  "running",
		"endpoints": map[string]string{
			"chat":          "POST /chat",
			"chat_ws":       "GET /chat/ws",
			"health":        "GET /health",
			"clear_session": "DELETE /chat/{session_id}",
			"sessions":      "GET /sessions",
		},
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, Index(h.title))
}
