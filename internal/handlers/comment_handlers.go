package handlers

import (
	"encoding/json"
	"net/http"

	"taskmanager/internal/handlers/dto"
	"taskmanager/internal/logger"

	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService CommentService
}

func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	var request dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.Add(r.Context(), caller.ID, taskID, request.Text)
	if err != nil {
		respondError(w, err, "add_comment")
		return
	}

	responseWithJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByTask(r.Context(), taskID)
	if err != nil {
		respondError(w, err, "list_comments")
		return
	}

	responseWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	var request dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: invalid JSON body", zap.Error(err))
		responseWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), caller.ID, commentID, request.Text)
	if err != nil {
		respondError(w, err, "update_comment")
		return
	}

	responseWithJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), caller.ID, commentID); err != nil {
		respondError(w, err, "delete_comment")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.MessageResponse{Message: "Comment deleted successfully"})
}
