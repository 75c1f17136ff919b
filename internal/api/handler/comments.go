package handler

import (
	"net/http"

	"github.com/mcoot/nightshift/internal/api/response"
	"github.com/mcoot/nightshift/internal/services/chat"
)

// CommentHandler exposes the global comment feed
type CommentHandler struct {
	chat *chat.Service
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(chat *chat.Service) *CommentHandler {
	return &CommentHandler{chat: chat}
}

// List handles GET /api/v1/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments := h.chat.Comments()
	response.JSON(w, http.StatusOK, response.CommentList{Comments: comments, Count: len(comments)})
}
