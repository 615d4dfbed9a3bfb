package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// ValidateAndSanitizeStruct binds the JSON body into a fresh instance of the
// given request type, strips markup from its string fields and validates it.
// The sanitized payload is stored in the context for the handler. The argument
// only serves as a template; a new instance is allocated per request.
func ValidateAndSanitizeStruct(obj interface{}) gin.HandlerFunc {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	return func(ctx *gin.Context) {
		payload := reflect.New(objType).Interface()

		if err := ctx.ShouldBindJSON(payload); err != nil {
			utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
			ctx.Abort()
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(payload); err != nil {
			utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
			ctx.Abort()
			return
		}

		if err := validator.Validate.Struct(payload); err != nil {
			utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
			ctx.Abort()
			return
		}

		ctx.Set(utils.SanitizedPayloadKey.String(), payload)
		ctx.Next()
	}
}
