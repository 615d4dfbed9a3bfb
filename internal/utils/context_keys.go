package utils

// contextKey is a type used for context keys to avoid conflicts with other
// packages' context keys.
type contextKey struct {
	name string
}

// String returns the string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// ClaimsKey is the context key under which the access guard stores the
// verified session claims of the current request.
var ClaimsKey = &contextKey{"claims"}

// TraceIdKey is the context key under which the trace id of the current
// request is stored.
var TraceIdKey = &contextKey{"traceId"}

// SanitizedPayloadKey is the context key under which the validation middleware
// stores the sanitized request body.
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}
