package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-chat/backend/internal/handler/health"
	"github.com/portfolio-chat/backend/internal/middleware"
	"github.com/portfolio-chat/backend/internal/model/chat"
	chatService "github.com/portfolio-chat/backend/internal/service/chat"
)

// Handler serves the chat API from an API Gateway HTTP API. Sessions live as
// long as the warm container does.
type Handler struct {
	chatSvc     *chatService.Service
	withDetails bool
}

// New creates the serverless handler.
func New(chatSvc *chatService.Service, withDetails bool) *Handler {
	return &Handler{chatSvc: chatSvc, withDetails: withDetails}
}

type chatPayload struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	LegacyID  string `json:"sessionId"`
}

// Handle routes one API Gateway v2 request.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	path := routePath(req)

	switch {
	case method == http.MethodOptions:
		return respond(http.StatusNoContent, nil), nil
	case method == http.MethodPost && path == "/chat":
		return h.chat(ctx, req), nil
	case method == http.MethodDelete && strings.HasPrefix(path, "/chat/"):
		return h.clearSession(strings.TrimPrefix(path, "/chat/")), nil
	case method == http.MethodGet && path == "/health":
		return respond(http.StatusOK, health.Check(h.chatSvc)), nil
	default:
		return respond(http.StatusNotFound, map[string]string{"error": "Not found"}), nil
	}
}

func (h *Handler) chat(ctx context.Context, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	body := req.Body
	if req.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return respond(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	var payload chatPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return respond(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = payload.LegacyID
	}

	exchange, err := h.chatSvc.Chat(ctx, chat.Request{Message: payload.Message, SessionID: sessionID})
	if err != nil {
		return h.failure(err)
	}
	return respond(http.StatusOK, exchange)
}

func (h *Handler) clearSession(rawID string) events.APIGatewayV2HTTPResponse {
	sessionID, err := url.PathUnescape(rawID)
	if err != nil {
		return respond(http.StatusBadRequest, map[string]string{"error": "invalid session id"})
	}
	if err := h.chatSvc.ClearSession(sessionID); err != nil {
		return h.failure(err)
	}
	return respond(http.StatusOK, map[string]string{"message": "Chat session cleared successfully"})
}

func (h *Handler) failure(err error) events.APIGatewayV2HTTPResponse {
	f := chatService.Describe(err, h.withDetails)
	logrus.WithError(err).WithField("status", f.Status).Warn("chat request failed")
	return respond(f.Status, f)
}

// routePath strips the stage prefix API Gateway adds for named stages.
func routePath(req events.APIGatewayV2HTTPRequest) string {
	path := req.RawPath
	if stage := req.RequestContext.Stage; stage != "" && stage != "$default" {
		path = strings.TrimPrefix(path, "/"+stage)
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func respond(status int, v any) events.APIGatewayV2HTTPResponse {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, val := range middleware.CORSHeaders {
		headers[k] = val
	}

	resp := events.APIGatewayV2HTTPResponse{StatusCode: status, Headers: headers}
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			logrus.WithError(err).Error("failed to encode response")
			resp.StatusCode = http.StatusInternalServerError
			b = []byte(`{"error":"Something went wrong. Please try again later."}`)
		}
		resp.Body = string(b)
	}
	return resp
}
