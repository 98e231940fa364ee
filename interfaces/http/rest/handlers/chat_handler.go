package handlers

import (
	"net/http"

	"meetgraph/application/services"
	"meetgraph/pkg/auth"
	"meetgraph/pkg/common"
	"meetgraph/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxChatBodyBytes = 16 << 10

// ChatHandler handles chat thread endpoints
type ChatHandler struct {
	chat   *services.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// SendMessageRequest is the body of POST /api/v1/chats/{targetUserID}
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// GetThread handles GET /api/v1/chats/{targetUserID}
func (h *ChatHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	targetUserID := chi.URLParam(r, "targetUserID")

	thread, err := h.chat.GetThread(r.Context(), userCtx.UserID, targetUserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSONWithCount(w, http.StatusOK, thread, len(thread))
}

// SendMessage handles POST /api/v1/chats/{targetUserID}
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req SendMessageRequest
	if err := common.ParseJSONBody(r, &req, maxChatBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	targetUserID := chi.URLParam(r, "targetUserID")

	msg, err := h.chat.SendMessage(r.Context(), userCtx.UserID, targetUserID, req.Text)
	if err != nil {
		h.logger.Info("Message rejected",
			zap.String("senderID", userCtx.UserID),
			zap.String("recipientID", targetUserID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, msg)
}
