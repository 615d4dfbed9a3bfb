package managers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

const (
	tokenIssuer = "stories-v13"

	// SessionLifetime is how long an issued session token stays valid.
	SessionLifetime = time.Hour

	// SessionCookieName is the cookie a browser client may carry the
	// session token in. The Authorization header takes precedence.
	SessionCookieName = "auth_token"
)

// JWTMgr issues and validates session tokens.
type JWTMgr interface {
	GenerateClaims(userId, email string, role schemas.Role) jwt.Claims
	GenerateJWT(claims jwt.Claims) (string, error)
	ValidateJWT(token string) (jwt.Claims, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager handles the signing and verification of session tokens with a
// shared HMAC secret.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a new JWTManager with the given signing secret.
func NewJWTManager(secret string) JWTMgr {
	log.Info("Initializing JWT manager")
	return &JWTManager{secret: []byte(secret)}
}

// GenerateClaims builds the claim set for a session token. The subject is the
// user id; email and role ride along so request handling does not need a
// database round trip to authorize.
func (jwtMgr *JWTManager) GenerateClaims(userId, email string, role schemas.Role) jwt.Claims {
	now := time.Now()

	return jwt.MapClaims{
		"iss":   tokenIssuer,
		"iat":   now.Unix(),
		"exp":   now.Add(SessionLifetime).Unix(),
		"sub":   userId,
		"email": email,
		"role":  string(role),
	}
}

// GenerateJWT signs the given claims with HS256.
func (jwtMgr *JWTManager) GenerateJWT(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtMgr.secret)
}

// ValidateJWT parses and verifies the given token string and returns its
// claims. Expired, tampered or foreign-algorithm tokens are rejected.
func (jwtMgr *JWTManager) ValidateJWT(tokenString string) (jwt.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtMgr.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return token.Claims, nil
}

// JWTMiddleware returns a middleware that authenticates the request. It reads
// the token from the Authorization header first and falls back to the session
// cookie. Every failure mode yields the same generic unauthorized error so
// callers cannot tell which part of the check failed.
func (jwtMgr *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)
		if tokenString == "" {
			utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no session token provided"))
			ctx.Abort()
			return
		}

		claims, err := jwtMgr.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, err)
			ctx.Abort()
			return
		}

		ctx.Set(utils.ClaimsKey.String(), claims)
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	if cookie, err := ctx.Cookie(SessionCookieName); err == nil {
		return cookie
	}

	return ""
}
