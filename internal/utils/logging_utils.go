package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const serviceName = "stories-v13"

// GenerateTraceId returns a fresh trace id for an incoming request.
func GenerateTraceId() string {
	return uuid.New().String()
}

func logEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	default:
		entry.Info(message)
	}
}

// LogMessage logs a message outside of a request scope.
func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName,
	})

	logEntry(entry, level, message)
}

// LogMessageWithFields logs a message with the trace id of the current request.
func LogMessageWithFields(ctx *gin.Context, level, message string) {
	entry := log.WithFields(log.Fields{
		"traceId": ctx.GetString(TraceIdKey.String()),
		"service": serviceName,
	})

	logEntry(entry, level, message)
}

// LogMessageWithFieldsAndError logs a message together with the causing error.
func LogMessageWithFieldsAndError(ctx *gin.Context, level, message string, err error) {
	entry := log.WithFields(log.Fields{
		"traceId": ctx.GetString(TraceIdKey.String()),
		"service": serviceName,
		"error":   err,
	})

	logEntry(entry, level, message)
}
