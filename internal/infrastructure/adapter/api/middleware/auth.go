package middleware

import (
	"slices"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "daily-earn/session"

// SetSession stores the verified session on the request
func SetSession(c *gin.Context, session *entity.Session) {
	c.Set(sessionContextKey, session)
}

// SessionFromContext returns the verified session stored by the auth middleware
func SessionFromContext(c *gin.Context) (*entity.Session, bool) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*entity.Session)
	return session, ok && session != nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid, unrevoked session token.
// With roles given, the session's role must be one of them.
func RequireAuth(sessions usecase.SessionUseCase, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			_ = c.Error(domainerr.ErrUnauthorized)
			c.Abort()
			return
		}

		session, err := sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, session.Role) {
			_ = c.Error(domainerr.ErrForbidden)
			c.Abort()
			return
		}

		SetSession(c, session)
		c.Next()
	}
}

// OptionalAuth attaches a user session when a valid token is present and
// otherwise lets the request through anonymously
func OptionalAuth(sessions usecase.SessionUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			session, err := sessions.Authenticate(c.Request.Context(), token)
			if err == nil && session.Role == entity.RoleUser {
				SetSession(c, session)
			}
		}
		c.Next()
	}
}

// RequireRole narrows an authenticated group to the given roles
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			_ = c.Error(domainerr.ErrUnauthorized)
			c.Abort()
			return
		}
		if !slices.Contains(roles, session.Role) {
			_ = c.Error(domainerr.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
