package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/apperr"
	"library-api/internal/platform/httpx"
)

const (
	CtxLibrarianKey = "librarian_id"
	CtxRoleKey      = "role"
)

// RequireAuth: Authorization: Bearer <token> を検証して context に sub/role を詰める
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, tokenStr, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			httpx.Fail(c, apperr.Unauthorized("missing bearer token"))
			return
		}

		claims, err := s.Parse(strings.TrimSpace(tokenStr))
		if err != nil {
			httpx.Fail(c, err)
			return
		}

		c.Set(CtxLibrarianKey, claims.Subject)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole は RequireAuth の後段に置く
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if _, ok := allowed[role]; !ok || role == "" {
			httpx.Fail(c, apperr.Forbidden("forbidden"))
			return
		}
		c.Next()
	}
}
