// Package handlers implements the HTTP handlers of the API. Handlers own the
// SQL they run and use explicit transactions where multiple statements must
// take effect together.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"stories-v13/internal/config"
	"stories-v13/internal/managers"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

const (
	// passwordHashCost is the bcrypt cost used for new password hashes.
	passwordHashCost = 12

	// verificationLifetime is how long a verification token and code stay valid.
	verificationLifetime = 10 * time.Minute

	// verificationTokenBytes is the entropy of the link token before hex encoding.
	verificationTokenBytes = 48
)

// verificationCodePattern matches a six-digit verification code after trimming.
var verificationCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// AuthHdl outlines the account lifecycle operations.
type AuthHdl interface {
	Register(ctx *gin.Context)
	VerifyEmail(ctx *gin.Context)
	VerifyEmailCode(ctx *gin.Context)
	ResendVerification(ctx *gin.Context)
	Login(ctx *gin.Context)
}

// AuthHandler implements registration, email verification and login.
type AuthHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr

	publicBaseURL string
	secureCookies bool
	verifyMX      bool
}

// NewAuthHandler returns a new AuthHandler using the given managers.
func NewAuthHandler(databaseManager managers.DatabaseMgr, jwtManager managers.JWTMgr, mailManager managers.MailMgr, cfg *config.Config) AuthHdl {
	return &AuthHandler{
		DatabaseManager: databaseManager,
		JWTManager:      jwtManager,
		MailManager:     mailManager,
		publicBaseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		secureCookies:   cfg.Environment == "production",
		verifyMX:        cfg.Mail.VerifyMX,
	}
}

// Register creates a new unverified account together with its verification
// record and default privacy row, then attempts to deliver the verification
// mail. Mail delivery failure does not fail the registration; it is reported
// back as emailSent=false.
func (handler *AuthHandler) Register(ctx *gin.Context) {
	registrationRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	email := normalizeIdentifier(registrationRequest.Email)
	username := normalizeIdentifier(registrationRequest.Username)

	// Reachability checking is opt-in; syntactic validation already ran.
	if handler.verifyMX && !utils.GetValidator().VerifyEmail(email) {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, errors.New("email domain not reachable"))
		return
	}

	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	// Check that neither the email nor the username is taken.
	queryString := "SELECT email, username FROM users WHERE email = $1 OR username = $2"
	rows, err := tx.Query(ctx, queryString, email, username)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var foundEmail, foundUsername string
		if err = rows.Scan(&foundEmail, &foundUsername); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		if foundEmail == email {
			err = errors.New("email already registered")
			utils.WriteAndLogError(ctx, schemas.EmailTaken, http.StatusConflict, err)
			return
		}

		err = errors.New("username already taken")
		utils.WriteAndLogError(ctx, schemas.UsernameTaken, http.StatusConflict, err)
		return
	}
	rows.Close()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), passwordHashCost)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	userId := uuid.New()
	createdAt := time.Now()

	queryString = "INSERT INTO users (user_id, email, username, password_hash, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)"
	if _, err = tx.Exec(ctx, queryString, userId, email, username, passwordHash, schemas.RoleUser, createdAt); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, code, err := generateVerificationSecrets()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "INSERT INTO email_verification_tokens (verification_id, user_id, token, code, expires_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(ctx, queryString, uuid.New(), userId, token, code, createdAt.Add(verificationLifetime)); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = insertDefaultPrivacy(ctx, tx, userId); err != nil {
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	// Mail goes out after the commit so a delivery failure cannot undo the
	// account. The outcome is reported to the caller either way.
	emailSent := true
	if mailErr := handler.MailManager.SendVerificationMail(email, username, code, handler.verificationLink(token)); mailErr != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Verification mail could not be delivered", mailErr)
		emailSent = false
	}

	message := "Registration successful. Please check your inbox to verify your email."
	if !emailSent {
		message = "Registration successful, but the verification email could not be sent. Please request a new one."
	}

	utils.WriteAndLogResponse(ctx, &schemas.RegistrationDTO{Message: message, EmailSent: emailSent}, http.StatusCreated)
}

// VerifyEmail handles the link flow: the token arrives as a query parameter.
func (handler *AuthHandler) VerifyEmail(ctx *gin.Context) {
	token := strings.TrimSpace(ctx.Query(utils.TokenParamKey))
	if token == "" {
		utils.WriteAndLogError(ctx, schemas.VerificationTokenRequired, http.StatusBadRequest, errors.New("empty verification token"))
		return
	}

	pool := handler.DatabaseManager.GetPool()

	var verificationId, userId uuid.UUID
	var expiresAt time.Time
	queryString := "SELECT verification_id, user_id, expires_at FROM email_verification_tokens WHERE token = $1"
	if err := pool.QueryRow(ctx, queryString, token).Scan(&verificationId, &userId, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.VerificationTokenNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if time.Now().After(expiresAt) {
		// The stale record is removed outside the failing request so the
		// cleanup persists.
		handler.deleteVerificationRecord(ctx, verificationId)
		utils.WriteAndLogError(ctx, schemas.VerificationTokenExpired, http.StatusBadRequest, errors.New("verification token expired"))
		return
	}

	var emailVerifiedAt *time.Time
	queryString = "SELECT email_verified_at FROM users WHERE user_id = $1"
	if err := pool.QueryRow(ctx, queryString, userId).Scan(&emailVerifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The record points at a user that no longer exists; burn it.
			handler.deleteVerificationRecord(ctx, verificationId)
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	handler.consumeVerification(ctx, verificationId, userId, emailVerifiedAt)
}

// VerifyEmailCode handles the manual flow: the caller enters the six digit
// code next to their email address.
func (handler *AuthHandler) VerifyEmailCode(ctx *gin.Context) {
	verifyRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.VerifyEmailCodeRequest)
	email := normalizeIdentifier(verifyRequest.Email)

	// The code is matched in trimmed form, like the email.
	code := strings.TrimSpace(verifyRequest.Code)
	if !verificationCodePattern.MatchString(code) {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, errors.New("malformed verification code"))
		return
	}

	pool := handler.DatabaseManager.GetPool()

	var userId uuid.UUID
	var emailVerifiedAt *time.Time
	queryString := "SELECT user_id, email_verified_at FROM users WHERE email = $1"
	if err := pool.QueryRow(ctx, queryString, email).Scan(&userId, &emailVerifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	var verificationId uuid.UUID
	var expiresAt time.Time
	queryString = "SELECT verification_id, expires_at FROM email_verification_tokens WHERE user_id = $1 AND code = $2"
	if err := pool.QueryRow(ctx, queryString, userId, code).Scan(&verificationId, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.VerificationCodeNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if time.Now().After(expiresAt) {
		handler.deleteVerificationRecord(ctx, verificationId)
		utils.WriteAndLogError(ctx, schemas.VerificationCodeExpired, http.StatusBadRequest, errors.New("verification code expired"))
		return
	}

	handler.consumeVerification(ctx, verificationId, userId, emailVerifiedAt)
}

// ResendVerification replaces the verification record of an unverified
// account with a fresh one and sends a new mail.
func (handler *AuthHandler) ResendVerification(ctx *gin.Context) {
	resendRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ResendVerificationRequest)
	email := normalizeIdentifier(resendRequest.Email)

	pool := handler.DatabaseManager.GetPool()

	var userId uuid.UUID
	var username string
	var emailVerifiedAt *time.Time
	queryString := "SELECT user_id, username, email_verified_at FROM users WHERE email = $1"
	if err := pool.QueryRow(ctx, queryString, email).Scan(&userId, &username, &emailVerifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if emailVerifiedAt != nil {
		utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "The email is already verified."}, http.StatusOK)
		return
	}

	tx := utils.BeginTransaction(ctx, pool)
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	queryString = "DELETE FROM email_verification_tokens WHERE user_id = $1"
	if _, err = tx.Exec(ctx, queryString, userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, code, err := generateVerificationSecrets()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString = "INSERT INTO email_verification_tokens (verification_id, user_id, token, code, expires_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(ctx, queryString, uuid.New(), userId, token, code, time.Now().Add(verificationLifetime)); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	emailSent := true
	if mailErr := handler.MailManager.SendVerificationMail(email, username, code, handler.verificationLink(token)); mailErr != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Verification mail could not be delivered", mailErr)
		emailSent = false
	}

	message := "A new verification email has been sent."
	if !emailSent {
		message = "A new verification code was created, but the email could not be sent."
	}

	utils.WriteAndLogResponse(ctx, &schemas.RegistrationDTO{Message: message, EmailSent: emailSent}, http.StatusOK)
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password yield the same error so the two cases cannot be told apart;
// a correct but unverified account gets a distinct message.
func (handler *AuthHandler) Login(ctx *gin.Context) {
	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)
	email := normalizeIdentifier(loginRequest.Email)

	pool := handler.DatabaseManager.GetPool()

	var userId uuid.UUID
	var storedEmail, passwordHash string
	var role schemas.Role
	var emailVerifiedAt *time.Time
	queryString := "SELECT user_id, email, password_hash, role, email_verified_at FROM users WHERE email = $1"
	if err := pool.QueryRow(ctx, queryString, email).Scan(&userId, &storedEmail, &passwordHash, &role, &emailVerifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(ctx, schemas.InvalidCredentials, http.StatusUnauthorized, err)
		return
	}

	if emailVerifiedAt == nil {
		utils.WriteAndLogError(ctx, schemas.EmailNotVerified, http.StatusUnauthorized, errors.New("email not verified"))
		return
	}

	// Best effort; a failed timestamp update must not block the login.
	queryString = "UPDATE users SET last_login_at = $1 WHERE user_id = $2"
	if _, err := pool.Exec(ctx, queryString, time.Now(), userId); err != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Could not update last login timestamp", err)
	}

	claims := handler.JWTManager.GenerateClaims(userId.String(), storedEmail, role)
	token, err := handler.JWTManager.GenerateJWT(claims)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(managers.SessionCookieName, token, int(managers.SessionLifetime.Seconds()), "/", "", handler.secureCookies, true)

	loginDto := &schemas.LoginDTO{
		Message:   "Login successful.",
		Token:     token,
		ExpiresIn: "1h",
	}
	utils.WriteAndLogResponse(ctx, loginDto, http.StatusOK)
}

// consumeVerification finishes a verification whose record and user both
// exist. An already verified user gets a no-op with its own message; the
// record is burned either way.
func (handler *AuthHandler) consumeVerification(ctx *gin.Context, verificationId, userId uuid.UUID, emailVerifiedAt *time.Time) {
	if emailVerifiedAt != nil {
		handler.deleteVerificationRecord(ctx, verificationId)
		utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "The email is already verified."}, http.StatusOK)
		return
	}

	tx := utils.BeginTransaction(ctx, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() {
		utils.RollbackTransaction(ctx, tx, err)
	}()

	queryString := "UPDATE users SET email_verified_at = $1, updated_at = $1 WHERE user_id = $2"
	if _, err = tx.Exec(ctx, queryString, time.Now(), userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM email_verification_tokens WHERE verification_id = $1"
	if _, err = tx.Exec(ctx, queryString, verificationId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Email verified successfully. You can now log in."}, http.StatusOK)
}

// deleteVerificationRecord removes an expired record with a single statement
// on the pool so the cleanup outlives the failing request.
func (handler *AuthHandler) deleteVerificationRecord(ctx *gin.Context, verificationId uuid.UUID) {
	queryString := "DELETE FROM email_verification_tokens WHERE verification_id = $1"
	if _, err := handler.DatabaseManager.GetPool().Exec(ctx, queryString, verificationId); err != nil {
		utils.LogMessageWithFieldsAndError(ctx, "warn", "Could not delete expired verification record", err)
	}
}

func (handler *AuthHandler) verificationLink(token string) string {
	return handler.publicBaseURL + "/api/auth/verify-email?" + utils.TokenParamKey + "=" + token
}

// insertDefaultPrivacy creates the privacy row a fresh account starts with.
func insertDefaultPrivacy(ctx *gin.Context, tx pgx.Tx, userId uuid.UUID) error {
	privacy := schemas.DefaultPrivacy()

	queryString := "INSERT INTO user_privacy (user_id, profile_visibility, show_bio, show_website, show_discord, show_twitter, " +
		"show_instagram, show_email, show_created_at, show_favorites, show_stats, show_last_seen, allow_dms) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)"
	if _, err := tx.Exec(ctx, queryString, userId, privacy.ProfileVisibility, privacy.ShowBio, privacy.ShowWebsite,
		privacy.ShowDiscord, privacy.ShowTwitter, privacy.ShowInstagram, privacy.ShowEmail, privacy.ShowCreatedAt,
		privacy.ShowFavorites, privacy.ShowStats, privacy.ShowLastSeen, privacy.AllowDMs); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}

// normalizeIdentifier trims surrounding whitespace and lowercases the value.
// Emails and usernames are stored and compared in this canonical form.
func normalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// generateVerificationSecrets returns a fresh link token and six digit code.
func generateVerificationSecrets() (string, string, error) {
	tokenBytes := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", err
	}

	codeValue, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", err
	}

	return hex.EncodeToString(tokenBytes), fmt.Sprintf("%06d", codeValue.Int64()), nil
}
