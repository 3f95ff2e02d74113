package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfolio-chat/backend/internal/logging"
	"github.com/portfolio-chat/backend/internal/model/chat"
	chatService "github.com/portfolio-chat/backend/internal/service/chat"
	"github.com/portfolio-chat/backend/pkg/utils"
)

const maxBodyBytes = 64 << 10

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc     *chatService.Service
	withDetails bool
}

// New 创建聊天处理器。withDetails 为 true 时 500 响应附带错误详情。
func New(chatSvc *chatService.Service, withDetails bool) *Handler {
	return &Handler{
		chatSvc:     chatSvc,
		withDetails: withDetails,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Delete("/chat/{sessionID}", h.handleClearSession)
	r.Get("/sessions", h.handleListSessions)
}

// chatPayload 同时兼容 session_id 与前端使用的 sessionId。
type chatPayload struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	LegacyID  string `json:"sessionId"`
}

// Request converts the payload into a service request.
func (p chatPayload) Request() chat.Request {
	id := p.SessionID
	if id == "" {
		id = p.LegacyID
	}
	return chat.Request{Message: p.Message, SessionID: id}
}

// handleChat 转发一条访客消息并返回模型回复
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatPayload
	if err := utils.DecodeJSON(w, r, maxBodyBytes, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exchange, err := h.chatSvc.Chat(r.Context(), payload.Request())
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, exchange)
}

// handleClearSession 删除指定会话
func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.chatSvc.ClearSession(sessionID); err != nil {
		h.respondFailure(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat session cleared successfully"})
}

// handleListSessions 列出活跃会话，仅用于调试
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.chatSvc.Sessions()
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"active_sessions": ids,
		"count":           len(ids),
	})
}

func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	failure := chatService.Describe(err, h.withDetails)

	entry := logging.FromContext(r.Context()).WithError(err).WithField("status", failure.Status)
	switch {
	case failure.Status >= http.StatusInternalServerError:
		entry.Error("chat request failed")
	case errors.Is(err, chatService.ErrEmptyMessage):
		entry.Debug("chat request rejected")
	default:
		entry.Warn("chat request failed")
	}

	utils.RespondJSON(w, failure.Status, failure)
}
