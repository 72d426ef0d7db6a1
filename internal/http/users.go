package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"viewtube/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	ctx := c.Request.Context()

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "avatar file is missing in the request")
		return
	}

	avatarURL, err := h.media.UploadImage(ctx, avatarFile)
	if err != nil {
		respondError(c, http.StatusBadRequest, "error while uploading avatar")
		return
	}

	var coverURL string
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverURL = h.media.UploadOptionalImage(ctx, coverFile)
	}

	user, err := h.users.Register(ctx, service.RegisterInput{
		FullName:      c.PostForm("fullName"),
		Email:         c.PostForm("email"),
		Username:      c.PostForm("username"),
		Password:      c.PostForm("password"),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		// account creation failed, media objects would otherwise leak
		h.media.Remove(ctx, avatarURL)
		h.media.Remove(ctx, coverURL)
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, toUserResponse(user), "user registered successfully")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		respondError(c, http.StatusBadRequest, "enter username or email")
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, gin.H{
		"user":         toUserResponse(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

func (h *Handler) refreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(c, http.StatusUnauthorized, "unauthorized request: no refresh token provided")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *Handler) logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), user.ID); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out successfully")
}

func (h *Handler) changePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

func (h *Handler) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, toUserResponse(user), "current user fetched successfully")
}

func (h *Handler) updateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.UpdateAccount(c.Request.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, toUserResponse(updated), "account details updated successfully")
}

func (h *Handler) updateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", "avatar updated successfully")
}

func (h *Handler) updateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", "cover image updated successfully")
}

func (h *Handler) updateImage(c *gin.Context, field, successMessage string) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	file, err := c.FormFile(field)
	if err != nil {
		respondError(c, http.StatusBadRequest, field+" file is missing in the request")
		return
	}

	objectURL, err := h.media.UploadImage(ctx, file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "error while uploading "+field)
		return
	}

	var previous string
	var updated = user
	if field == "avatar" {
		previous = user.AvatarURL
		updated, err = h.users.UpdateAvatar(ctx, user.ID, objectURL)
	} else {
		previous = user.CoverImageURL
		updated, err = h.users.UpdateCoverImage(ctx, user.ID, objectURL)
	}
	if err != nil {
		h.media.Remove(ctx, objectURL)
		h.respondServiceError(c, err)
		return
	}

	// the replaced object is no longer referenced
	h.media.Remove(ctx, previous)

	respond(c, http.StatusOK, toUserResponse(updated), successMessage)
}

func (h *Handler) channelProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	username := c.Param("username")
	if username == "" {
		respondError(c, http.StatusBadRequest, "username parameter is missing")
		return
	}

	profile, err := h.users.ChannelProfile(c.Request.Context(), username, user.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, toChannelProfileResponse(profile), "user channel fetched successfully")
}

func (h *Handler) watchHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	history, err := h.users.WatchHistory(c.Request.Context(), user.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	entries := make([]WatchHistoryEntry, len(history))
	for i := range history {
		entries[i] = toWatchHistoryEntry(history[i])
	}
	respond(c, http.StatusOK, entries, "watch history fetched successfully")
}
