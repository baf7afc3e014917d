package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodiehub/coupon"
	"github.com/yeremiapane/foodiehub/services"
	"github.com/yeremiapane/foodiehub/utils"
)

const (
	SessionHeader = "X-Session-Token"
	SessionKey    = "session"
)

// AuthMiddleware guards back-office routes with the admin JWT.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// SessionMiddleware resolves the storefront session from X-Session-Token
// and stores it under SessionKey.
func SessionMiddleware(sessions *services.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token = c.Query("session")
		}
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("session token missing"))
			c.Abort()
			return
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		sess := sessions.Get(claims.SessionID, coupon.User{
			Name:  claims.UserName,
			Email: claims.UserEmail,
		})
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware.
func CurrentSession(c *gin.Context) (*services.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*services.Session)
	return sess, ok
}
