package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/auth"
	"github.com/facultyportal/research-engine/pkg/logging"
	"github.com/facultyportal/research-engine/pkg/models"
	"github.com/facultyportal/research-engine/pkg/services"
)

// ChatbotHandler exposes the natural-language query endpoint.
type ChatbotHandler struct {
	chatbot services.ChatbotService
	logger  *zap.Logger
}

// NewChatbotHandler creates the chatbot handler.
func NewChatbotHandler(chatbot services.ChatbotService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot, logger: logger.Named("chatbot_handler")}
}

// RegisterRoutes registers chatbot routes on the given mux. Every route
// requires a verified profile.
func (h *ChatbotHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/chatbot/query", authMiddleware.RequireProfile(h.Query))
}

// Query handles POST /api/chatbot/query.
//
// A policy denial is not an error: it returns 200 with
// {"success":false,"message":"Access not allowed"}. Validator rejections
// are 400s, execution failures 500s; in both cases the client sees a fixed
// message while the cause is logged server-side.
func (h *ChatbotHandler) Query(w http.ResponseWriter, r *http.Request) {
	profile, ok := auth.GetProfile(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "bad_request", "Question is required")
		return
	}

	result, err := h.chatbot.HandleQuestion(r.Context(), profile, req.Question)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if result.Denied {
		if err := WriteJSON(w, http.StatusOK, models.DeniedResponse{
			Success: false,
			Message: "Access not allowed",
		}); err != nil {
			h.logger.Error("failed to encode denial response", zap.Error(err))
		}
		return
	}

	rows := result.Rows
	if rows == nil {
		rows = []models.Row{}
	}
	if err := WriteJSON(w, http.StatusOK, models.ChatResponse{
		SQL:    result.SQL,
		Result: rows,
	}); err != nil {
		h.logger.Error("failed to encode chat response", zap.Error(err))
	}
}

// writeError maps error kinds to fixed client messages. Raw downstream
// errors never reach the response body.
func (h *ChatbotHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotReadOnly):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_query", "Only SELECT queries allowed")
	case errors.Is(err, apperrors.ErrWriteOperation):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_query", "Write operations are not allowed")
	case errors.Is(err, apperrors.ErrUnsafeQuestion):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_question", "Question contains disallowed content")
	case errors.Is(err, apperrors.ErrGeneration):
		h.logger.Error("sql generation failed", zap.String("cause", logging.SanitizeError(err)))
		_ = ErrorResponse(w, http.StatusBadGateway, "generation_failed", "Could not generate a query for this question")
	case errors.Is(err, apperrors.ErrExecution):
		h.logger.Error("query execution failed", zap.String("cause", logging.SanitizeError(err)))
		_ = ErrorResponse(w, http.StatusInternalServerError, "execution_failed", "Query execution failed")
	default:
		h.logger.Error("chatbot request failed", zap.String("cause", logging.SanitizeError(err)))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
