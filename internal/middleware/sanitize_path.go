package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var pathPolicy = bluemonday.StrictPolicy()

// SanitizePath strips any markup from the request path before routing.
func SanitizePath() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Request.URL.Path = pathPolicy.Sanitize(ctx.Request.URL.Path)
		ctx.Next()
	}
}
