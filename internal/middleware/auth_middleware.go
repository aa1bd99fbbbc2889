package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorBody mirrors the envelope in internal/api to avoid an import cycle.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
}

func errorResponse(message string) errorBody {
	return errorBody{Error: errorDetail{Message: message}}
}

// TokenVerifier verifies an ID token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware authenticates requests with a Firebase ID token.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A nil verifier is a setup
// error; authenticated routes cannot function without one.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("token verifier is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken checks the Authorization header for a valid bearer ID token
// and, on success, stores the caller's identity in the request context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("Authorization header format must be 'Bearer {token}'"))
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			// Generic message to the client; details stay server-side.
			m.logger.Warn("ID token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("Invalid or expired authentication token"))
			return
		}

		c.Set("userID", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		if name, ok := token.Claims["name"].(string); ok {
			c.Set("userDisplayName", name)
		}
		if picture, ok := token.Claims["picture"].(string); ok {
			c.Set("userPhotoURL", picture)
		}

		c.Next()
	}
}
