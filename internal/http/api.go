package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"viewtube/internal/media"
	"viewtube/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	auth     service.AuthService
	tweets   service.TweetService
	comments service.CommentService
	media    *media.Uploader
	logger   *logrus.Logger

	corsOrigin   string
	cookieSecure bool
	accessTTL    time.Duration
	refreshTTL   time.Duration
	limiter      *ipLimiter
}

// Options groups the request-layer settings the handler needs from config.
type Options struct {
	CORSOrigin     string
	CookieSecure   bool
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	LoginPerMinute int
	LoginBurst     int
}

func NewHandler(
	users service.UserService,
	auth service.AuthService,
	tweets service.TweetService,
	comments service.CommentService,
	uploader *media.Uploader,
	logger *logrus.Logger,
	opts Options,
) *Handler {
	return &Handler{
		users:        users,
		auth:         auth,
		tweets:       tweets,
		comments:     comments,
		media:        uploader,
		logger:       logger,
		corsOrigin:   opts.CORSOrigin,
		cookieSecure: opts.CookieSecure,
		accessTTL:    opts.AccessTTL,
		refreshTTL:   opts.RefreshTTL,
		limiter:      newIPLimiter(opts.LoginPerMinute, opts.LoginBurst),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.corsMiddleware(), h.requestLogger())

	api := router.Group("/api/v1")

	api.GET("/healthcheck", h.healthcheck)

	users := api.Group("/users")
	{
		users.POST("/register", h.register)
		users.POST("/login", h.throttle(), h.login)
		users.POST("/refresh-token", h.throttle(), h.refreshToken)
		users.POST("/logout", h.requireAuth(), h.logout)
		users.POST("/change-password", h.requireAuth(), h.changePassword)
		users.GET("/me", h.requireAuth(), h.me)
		users.PATCH("/update-account", h.requireAuth(), h.updateAccount)
		users.PATCH("/avatar", h.requireAuth(), h.updateAvatar)
		users.PATCH("/cover-image", h.requireAuth(), h.updateCoverImage)
		users.GET("/channel/:username", h.requireAuth(), h.channelProfile)
		users.GET("/watch-history", h.requireAuth(), h.watchHistory)
	}

	tweets := api.Group("/tweets", h.requireAuth())
	{
		tweets.POST("", h.createTweet)
		tweets.GET("/user/:userId", h.listUserTweets)
		tweets.PATCH("/:tweetId", h.updateTweet)
		tweets.DELETE("/:tweetId", h.deleteTweet)
	}

	comments := api.Group("/comments", h.requireAuth())
	{
		comments.GET("/:videoId", h.listComments)
		comments.POST("/:videoId", h.addComment)
		comments.PATCH("/c/:commentId", h.updateComment)
		comments.DELETE("/c/:commentId", h.deleteComment)
	}
}

func (h *Handler) healthcheck(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{}, "OK")
}

// apiResponse is the uniform success envelope.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiErrorResponse is the uniform failure envelope.
type apiErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, apiErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}

// respondServiceError maps service sentinels onto HTTP statuses.
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrWrongPassword):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpiredOrUsed):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		respondError(c, http.StatusConflict, err.Error())
	default:
		h.logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// parseIDParam reads a positive integer path parameter; responds 400 on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	origin := h.corsOrigin
	if origin == "" {
		origin = "*"
	}
	// browsers reject credentialed requests against a wildcard origin
	allowCredentials := origin != "*"
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if allowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Infof("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
