package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	"github.com/ikkim/motoparts-backend/internal/errors"
	"github.com/ikkim/motoparts-backend/pkg/util"
)

// Context keys for the authenticated subject
const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// SubjectResolver loads the subject named by a verified token.
type SubjectResolver interface {
	GetUserByID(id string) (*model.User, error)
}

type AuthMiddleware struct {
	jwt      *util.JWTManager
	resolver SubjectResolver
}

func NewAuthMiddleware(jwt *util.JWTManager, resolver SubjectResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:      jwt,
		resolver: resolver,
	}
}

// Authenticate requires a bearer session token whose subject still exists.
// The subject is re-read from the store on every request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.AbortWithError(c, http.StatusUnauthorized, errors.AuthUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwt.Parse(token)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			switch {
			case stderrors.Is(err, util.ErrExpiredToken):
				errors.AbortWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session has expired")
			default:
				errors.AbortWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid session token")
			}
			return
		}

		user, err := m.resolver.GetUserByID(claims.UserID())
		if err != nil {
			if stderrors.Is(err, service.ErrUserNotFound) {
				log.Warn("Token subject no longer exists", map[string]interface{}{
					"user_id": claims.UserID(),
				})
				errors.AbortWithError(c, http.StatusUnauthorized, errors.AuthUnauthorized, "Authentication required")
				return
			}
			log.Error("Failed to resolve token subject", err, map[string]interface{}{
				"user_id": claims.UserID(),
			})
			errors.AbortWithError(c, http.StatusInternalServerError, errors.InternalServerError, "Something went wrong, please try again later")
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
		})

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetCurrentUser extracts the authenticated user from context
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
