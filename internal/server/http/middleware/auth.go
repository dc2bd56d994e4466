package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/storefront/internal/pkg/auth"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

const (
	// CustomerIDContextKey is a gin context key for authenticated customer identifier.
	CustomerIDContextKey = "customerID"
	// AdminKeyHeader carries the operator key of admin routes.
	AdminKeyHeader = "X-Admin-Key"
	authCookieName = "storefront_token"
)

// TokenParser resolves a bearer credential to a customer identifier.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AdminAuthorizer checks operator keys.
type AdminAuthorizer interface {
	AuthorizeAdmin(key string) error
}

// AuthRequired ensures customer is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "missing credentials")
			return
		}

		customerID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortUnauthorized(c, err.Error())
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error", Code: "internal"})
			return
		}

		c.Set(CustomerIDContextKey, customerID)
		c.Next()
	}
}

// AdminRequired guards operator routes with the X-Admin-Key header.
func AdminRequired(authorizer AdminAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authorizer.AuthorizeAdmin(c.GetHeader(AdminKeyHeader))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, pkgAuth.ErrInvalidAdminKey):
			abortUnauthorized(c, err.Error())
		case errors.Is(err, pkgAuth.ErrAdminDisabled):
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error(), Code: "forbidden"})
		default:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error", Code: "internal"})
		}
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: message, Code: "unauthorized"})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
