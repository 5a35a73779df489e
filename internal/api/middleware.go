package api

import (
	"alcyxob/gymtracker/internal/service"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	requestIDHeader  = "X-Request-ID"
)

// AuthMiddleware resolves the bearer credential to a user id.
// A missing header is 401; anything present but unusable is 403.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			abortWithError(c, http.StatusForbidden, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := authService.Authenticate(token)
		if err != nil {
			abortWithError(c, http.StatusForbidden, "Invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		// Later log lines for this request carry the user id.
		logger := zerolog.Ctx(c.Request.Context()).With().Str("user_id", userID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// RequestLogger attaches a per-request logger to the request context and logs
// one line per request once it completes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLogger := logger.With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := zerolog.Ctx(c.Request.Context()).Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = zerolog.Ctx(c.Request.Context()).Error()
		case status >= http.StatusBadRequest:
			event = zerolog.Ctx(c.Request.Context()).Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request handled")
	}
}

// CORS builds the cross-origin policy for the configured origins. "*" (or an
// empty list) allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        10 * time.Minute,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithInternalError logs the cause and answers with a generic message.
func abortWithInternalError(c *gin.Context, err error, message string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(message)
	abortWithError(c, http.StatusInternalServerError, message)
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// mustUserID reads the authenticated user id or aborts with 401.
func mustUserID(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}
