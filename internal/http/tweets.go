package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type tweetRequest struct {
	Content string `json:"content"`
}

func (h *Handler) createTweet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tweet, err := h.tweets.Create(c.Request.Context(), user.ID, req.Content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, toTweetResponse(tweet), "tweet created successfully")
}

func (h *Handler) listUserTweets(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	tweets, err := h.tweets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	resp := make([]TweetResponse, len(tweets))
	for i := range tweets {
		resp[i] = toTweetResponse(&tweets[i])
	}
	respond(c, http.StatusOK, resp, "tweets fetched successfully")
}

func (h *Handler) updateTweet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "tweetId")
	if !ok {
		return
	}

	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tweet, err := h.tweets.Update(c.Request.Context(), tweetID, user.ID, req.Content)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, toTweetResponse(tweet), "tweet updated successfully")
}

func (h *Handler) deleteTweet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tweetID, ok := parseIDParam(c, "tweetId")
	if !ok {
		return
	}

	if err := h.tweets.Delete(c.Request.Context(), tweetID, user.ID); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "tweet deleted successfully")
}
