// Package middleware holds the gin middleware chain: bearer authentication,
// rate limiting, CORS, access logging and request metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/valeriaulyamaeva/finflow/internal/auth"
	"github.com/valeriaulyamaeva/finflow/internal/service"
	"github.com/valeriaulyamaeva/finflow/models"
)

const userIDKey = "userId"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup resolves the user a token was issued to. *service.Users
// satisfies it.
type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token, or whose token
// names a user that no longer exists, and stores the user id in the gin
// context.
func RequireAuth(verifier TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != "Bearer" || token == "" {
			unauthorized(c)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug("token rejected")
			unauthorized(c)
			return
		}

		if _, err := users.Get(c.Request.Context(), claims.UserID); err != nil {
			if service.IsKind(err, service.KindNotFound) {
				logrus.WithField("user_id", claims.UserID).Debug("token for deleted user")
				unauthorized(c)
				return
			}
			logrus.WithError(err).Error("resolve token subject")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": service.MsgInternal})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": service.MsgUnauthorized})
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
