package utils

const (
	// UsernameKey is the key for username used in routing parameters.
	UsernameKey = "username"

	// TokenParamKey is the key for the verification token in query parameters.
	TokenParamKey = "token"

	// GenreParamKey is the key for the genre filter in query parameters.
	GenreParamKey = "genre"

	// OffsetParamKey is the key for offset used in pagination query parameters.
	OffsetParamKey = "offset"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"
)
