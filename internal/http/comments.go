package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) listComments(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondError(c, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		respondError(c, http.StatusBadRequest, "invalid limit")
		return
	}

	comments, err := h.comments.ListByVideo(c.Request.Context(), videoID, page, limit)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = toCommentResponse(&comments[i])
	}
	respond(c, http.StatusOK, resp, "comments retrieved successfully")
}

func (h *Handler) addComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), videoID, user.ID, req.Content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, toCommentResponse(comment), "comment created successfully")
}

func (h *Handler) updateComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), commentID, user.ID, req.Content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, toCommentResponse(comment), "comment updated successfully")
}

func (h *Handler) deleteComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID, user.ID); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "comment deleted successfully")
}
