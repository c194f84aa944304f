package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/service"
	"eshelf/internal/middleware/auth"
)

const (
	userKey     = "user"
	identityKey = "identity"
)

// Authenticator resolves a bearer token to an active user.
// service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects the request unless it carries a valid bearer token
// for an active user. The sanitized user is stored in the context.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authn.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Set(identityKey, auth.Present(user))
		c.Next()
	}
}

// OptionalAuth never rejects. A verified user becomes Present, anything
// else (no header, bad token, disabled account) is Anonymous.
func OptionalAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.Anonymous()
		if token := bearerToken(c); token != "" {
			if user, err := authn.Authenticate(c.Request.Context(), token); err == nil {
				identity = auth.Present(user)
				c.Set(userKey, user)
			}
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole checks if the user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != requiredRole {
			_ = c.Error(service.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin is a convenience function for requiring admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// CurrentUser returns the user stored by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// IdentityFrom returns the caller's identity; Anonymous when no auth
// middleware ran.
func IdentityFrom(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Anonymous()
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
