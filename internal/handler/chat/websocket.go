package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/portfolio-chat/backend/internal/logging"
	"github.com/portfolio-chat/backend/internal/model/chat"
	chatService "github.com/portfolio-chat/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// WebSocketHandler 通过 WebSocket 提供与 POST /chat 相同的对话能力
type WebSocketHandler struct {
	chatSvc     *chatService.Service
	withDetails bool
	readTimeout time.Duration
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc *chatService.Service, withDetails bool) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc:     chatSvc,
		withDetails: withDetails,
		readTimeout: readTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type outgoingFrame struct {
	Type      string `json:"type"`
	Response  string `json:"response,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   string `json:"details,omitempty"`
}

// handleWebSocket 处理WebSocket连接。未指定 session_id 的帧使用连接级的会话。
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connSession := uuid.NewString()
	log := logging.FromContext(r.Context()).WithField("connection_session", connSession)
	log.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	writes := make(chan outgoingFrame, 8)
	go h.writeLoop(ctx, cancel, conn, writes)

	for {
		var payload chatPayload
		if err := conn.ReadJSON(&payload); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("websocket read error")
			}
			return
		}
		req := payload.Request()
		if req.SessionID == "" {
			req.SessionID = connSession
		}

		frame := h.exchange(ctx, req)
		// The provider call may outlast the read deadline.
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		select {
		case writes <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) exchange(ctx context.Context, req chat.Request) outgoingFrame {
	exchange, err := h.chatSvc.Chat(ctx, req)
	if err != nil {
		failure := chatService.Describe(err, h.withDetails)
		logging.FromContext(ctx).WithError(err).WithField("status", failure.Status).Warn("websocket chat failed")
		return outgoingFrame{
			Type:      "error",
			SessionID: req.SessionID,
			Error:     failure.Message,
			Details:   failure.Details,
		}
	}

	return outgoingFrame{
		Type:      "reply",
		Response:  exchange.Reply,
		SessionID: exchange.SessionID,
		Timestamp: exchange.Timestamp,
	}
}

// writeLoop 串行写出回复帧并定期发送ping消息
func (h *WebSocketHandler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, frames <-chan outgoingFrame) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.flush(conn, frames)
			return
		case frame := <-frames:
			if err := conn.WriteJSON(frame); err != nil {
				logging.FromContext(ctx).WithError(err).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes replies already queued when the connection winds down.
func (h *WebSocketHandler) flush(conn *websocket.Conn, frames <-chan outgoingFrame) {
	for {
		select {
		case frame := <-frames:
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		default:
			return
		}
	}
}
