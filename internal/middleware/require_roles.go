package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// RequireRoles admits the request when the caller's role ranks at least as
// high as one of the required roles. An empty required set admits everyone
// who passed authentication. The middleware must run behind the session
// middleware; a request without claims is rejected.
func RequireRoles(roles ...schemas.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
		if !ok {
			utils.WriteAndLogError(ctx, schemas.RoleRequired, http.StatusForbidden, errors.New("no session claims on request"))
			ctx.Abort()
			return
		}

		role, _ := claims["role"].(string)
		if !schemas.HasRequiredRole(roles, schemas.Role(role)) {
			utils.WriteAndLogError(ctx, schemas.InsufficientRole, http.StatusForbidden, errors.New("caller role "+role+" does not satisfy requirement"))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
