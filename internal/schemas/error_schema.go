// Package schemas defines the data structures exchanged between the handlers,
// the database and the clients, including the error catalog.
package schemas

// CustomError is a struct that represents a custom error
// Code is a stable identifier the frontend can switch on
// Message is a human-readable description of the error
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest is returned when the request body or query parameters are invalid.
	BadRequest = &CustomError{"ERR-001", "The request is invalid. Please check the request and try again."}
	// EmailTaken is returned when registering with an email that already belongs to a user.
	EmailTaken = &CustomError{"ERR-002", "The email is already registered. Please use another email."}
	// UsernameTaken is returned when registering with a username that already belongs to a user.
	UsernameTaken = &CustomError{"ERR-003", "The username is already taken. Please try another username."}
	// UserNotFound is returned when no user matches the given email or username.
	UserNotFound = &CustomError{"ERR-004", "The user was not found. Please check the input and try again."}
	// VerificationTokenRequired is returned when the verification link carries no token.
	VerificationTokenRequired = &CustomError{"ERR-005", "A verification token is required."}
	// VerificationTokenNotFound is returned when no verification record matches the token.
	VerificationTokenNotFound = &CustomError{"ERR-006", "The verification token was not found."}
	// VerificationTokenExpired is returned when the verification record has expired.
	VerificationTokenExpired = &CustomError{"ERR-007", "The verification token has expired. Please request a new one."}
	// VerificationCodeNotFound is returned when no verification record matches the email and code pair.
	VerificationCodeNotFound = &CustomError{"ERR-008", "The verification code was not found."}
	// VerificationCodeExpired is returned when the verification code has expired.
	VerificationCodeExpired = &CustomError{"ERR-009", "The verification code has expired. Please request a new one."}
	// InvalidCredentials is returned for an unknown email or a wrong password, with
	// one shared message so the two cases cannot be told apart.
	InvalidCredentials = &CustomError{"ERR-010", "The credentials are invalid. Please check your email and password."}
	// EmailNotVerified is returned when the credentials are correct but the email is unverified.
	EmailNotVerified = &CustomError{"ERR-011", "You need to verify your email before logging in."}
	// Unauthorized is returned when the session token is missing, malformed, expired or forged.
	Unauthorized = &CustomError{"ERR-012", "The request is unauthorized. Please log in to your account."}
	// RoleRequired is returned when a protected route is reached without an identity.
	RoleRequired = &CustomError{"ERR-013", "A role is required to access this resource."}
	// InsufficientRole is returned when the caller's role rank does not meet the requirement.
	InsufficientRole = &CustomError{"ERR-014", "Your role does not allow access to this resource."}
	// ProfileNotAvailable is returned when a public profile is private.
	ProfileNotAvailable = &CustomError{"ERR-015", "The profile is not available."}
	// FileRequired is returned when an upload endpoint receives no file.
	FileRequired = &CustomError{"ERR-016", "A file is required."}
	// FileTooLarge is returned when an uploaded file exceeds the size limit.
	FileTooLarge = &CustomError{"ERR-017", "The file is too large. The maximum size is 2 MiB."}
	// StorageNotConfigured is returned when object storage is not configured.
	StorageNotConfigured = &CustomError{"ERR-018", "Object storage is not configured."}
	// DatabaseError is returned when a database operation fails unexpectedly.
	DatabaseError = &CustomError{"ERR-019", "A database error occurred. Please try again later."}
	// InternalServerError is returned for any other unexpected failure.
	InternalServerError = &CustomError{"ERR-020", "An internal error occurred. Please try again later."}
)
