// Package middleware provides the request middlewares of the HTTP surface.
package middleware

import (
	"github.com/gin-gonic/gin"

	"stories-v13/internal/utils"
)

// InjectTrace assigns every request a trace id and echoes it in the response.
func InjectTrace() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		traceId := utils.GenerateTraceId()
		ctx.Set(utils.TraceIdKey.String(), traceId)
		ctx.Header("X-Trace-Id", traceId)
		ctx.Next()
	}
}
