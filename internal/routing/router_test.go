package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"stories-v13/internal/config"
	"stories-v13/internal/managers"
	"stories-v13/internal/managers/mocks"
	"stories-v13/internal/schemas"
)

type registrationPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          "8080",
		Environment:   "test",
		PublicBaseURL: "http://localhost:8080",
	}
}

func setupMocks(t *testing.T) (*mocks.MockDatabaseManager, managers.JWTMgr, *mocks.MockMailManager, *mocks.MockStorageManager) {
	t.Helper()

	poolMock, err := pgxmock.NewPool()
	if err != nil {
		log.Errorf("Error creating mock database pool: %v", err)
	}

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	jwtMgr := managers.NewJWTManager("test-secret")

	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendVerificationMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything, mock.Anything).Return(nil)

	storageMgrMock := &mocks.MockStorageManager{}

	return databaseMgrMock, jwtMgr, mailMgrMock, storageMgrMock
}

func newTestServer(t *testing.T) (*httpexpect.Expect, pgxmock.PgxPoolIface, managers.JWTMgr, func()) {
	t.Helper()

	databaseMgrMock, jwtMgr, mailMgrMock, storageMgrMock := setupMocks(t)
	storageMgrMock.On("Configured").Return(false)

	router := InitRouter(testConfig(), databaseMgrMock, mailMgrMock, jwtMgr, storageMgrMock)
	server := httptest.NewServer(router)

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	return httpexpect.Default(t, server.URL), poolMock, jwtMgr, server.Close
}

func TestRegistration(t *testing.T) {
	validRequest := registrationPayload{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "Sup3r$ecret",
	}

	testCases := []struct {
		name         string
		payload      registrationPayload
		status       int
		responseBody map[string]interface{}
	}{
		{
			"ValidRegistration",
			validRequest,
			http.StatusCreated,
			map[string]interface{}{
				"message":   "Registration successful. Please check your inbox to verify your email.",
				"emailSent": true,
			},
		},
		{
			"WeakPassword",
			registrationPayload{Username: "ana", Email: "ana@example.com", Password: "password"},
			http.StatusBadRequest,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-001",
					"message": "The request is invalid. Please check the request and try again.",
				},
			},
		},
		{
			"DuplicateEmail",
			validRequest,
			http.StatusConflict,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-002",
					"message": "The email is already registered. Please use another email.",
				},
			},
		},
		{
			"DuplicateUsername",
			validRequest,
			http.StatusConflict,
			map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "ERR-003",
					"message": "The username is already taken. Please try another username.",
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expect, poolMock, _, closeServer := newTestServer(t)
			defer closeServer()

			switch tc.name {
			case "ValidRegistration":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT email, username").
					WithArgs(tc.payload.Email, tc.payload.Username).
					WillReturnRows(pgxmock.NewRows([]string{"email", "username"}))
				poolMock.ExpectExec("INSERT INTO users").
					WithArgs(pgxmock.AnyArg(), tc.payload.Email, tc.payload.Username, pgxmock.AnyArg(), schemas.RoleUser, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectExec("INSERT INTO email_verification_tokens").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectExec("INSERT INTO user_privacy").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			case "DuplicateEmail":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT email, username").
					WithArgs(tc.payload.Email, tc.payload.Username).
					WillReturnRows(pgxmock.NewRows([]string{"email", "username"}).AddRow(tc.payload.Email, "someoneelse"))
				poolMock.ExpectRollback()
			case "DuplicateUsername":
				poolMock.ExpectBegin()
				poolMock.ExpectQuery("SELECT email, username").
					WithArgs(tc.payload.Email, tc.payload.Username).
					WillReturnRows(pgxmock.NewRows([]string{"email", "username"}).AddRow("someone@else.com", tc.payload.Username))
				poolMock.ExpectRollback()
			}

			response := expect.POST("/api/auth/register").WithJSON(tc.payload).Expect().Status(tc.status)
			response.JSON().IsEqual(tc.responseBody)

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	t.Run("EmptyToken", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		response := expect.GET("/api/auth/verify-email").Expect().Status(http.StatusBadRequest)
		response.JSON().Path("$.error.code").IsEqual("ERR-005")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnknownToken", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT verification_id, user_id, expires_at").
			WithArgs("deadbeef").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "user_id", "expires_at"}))

		response := expect.GET("/api/auth/verify-email").WithQuery("token", "deadbeef").Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-006")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()

		poolMock.ExpectQuery("SELECT verification_id, user_id, expires_at").
			WithArgs("cafebabe").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "user_id", "expires_at"}).
				AddRow(verificationId, userId, time.Now().Add(5*time.Minute)))
		poolMock.ExpectQuery("SELECT email_verified_at").
			WithArgs(userId).
			WillReturnRows(pgxmock.NewRows([]string{"email_verified_at"}).AddRow(nil))
		poolMock.ExpectBegin()
		poolMock.ExpectExec("UPDATE users SET email_verified_at").
			WithArgs(pgxmock.AnyArg(), userId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		poolMock.ExpectCommit()

		response := expect.GET("/api/auth/verify-email").WithQuery("token", "cafebabe").Expect().Status(http.StatusOK)
		response.JSON().Path("$.message").String().Contains("verified")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()

		poolMock.ExpectQuery("SELECT verification_id, user_id, expires_at").
			WithArgs("0ldt0ken").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "user_id", "expires_at"}).
				AddRow(verificationId, uuid.New(), time.Now().Add(-time.Minute)))
		// The stale record is removed even though the request fails.
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		response := expect.GET("/api/auth/verify-email").WithQuery("token", "0ldt0ken").Expect().Status(http.StatusBadRequest)
		response.JSON().Path("$.error.code").IsEqual("ERR-007")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("DanglingUser", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()

		poolMock.ExpectQuery("SELECT verification_id, user_id, expires_at").
			WithArgs("cafebabe").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "user_id", "expires_at"}).
				AddRow(verificationId, userId, time.Now().Add(5*time.Minute)))
		// The user behind the record is gone, so the record is burned and the
		// request fails.
		poolMock.ExpectQuery("SELECT email_verified_at").
			WithArgs(userId).
			WillReturnRows(pgxmock.NewRows([]string{"email_verified_at"}))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		response := expect.GET("/api/auth/verify-email").WithQuery("token", "cafebabe").Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-004")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("AlreadyVerified", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()
		verifiedAt := time.Now().Add(-time.Hour)

		poolMock.ExpectQuery("SELECT verification_id, user_id, expires_at").
			WithArgs("cafebabe").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "user_id", "expires_at"}).
				AddRow(verificationId, userId, time.Now().Add(5*time.Minute)))
		poolMock.ExpectQuery("SELECT email_verified_at").
			WithArgs(userId).
			WillReturnRows(pgxmock.NewRows([]string{"email_verified_at"}).AddRow(&verifiedAt))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		response := expect.GET("/api/auth/verify-email").WithQuery("token", "cafebabe").Expect().Status(http.StatusOK)
		response.JSON().Path("$.message").IsEqual("The email is already verified.")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestVerifyEmailCode(t *testing.T) {
	t.Run("ValidCode", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()

		poolMock.ExpectQuery("SELECT user_id, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email_verified_at"}).
				AddRow(userId, nil))
		poolMock.ExpectQuery("SELECT verification_id, expires_at").
			WithArgs(userId, "123456").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "expires_at"}).
				AddRow(verificationId, time.Now().Add(5*time.Minute)))
		poolMock.ExpectBegin()
		poolMock.ExpectExec("UPDATE users SET email_verified_at").
			WithArgs(pgxmock.AnyArg(), userId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		poolMock.ExpectCommit()

		payload := map[string]string{"email": "ana@example.com", "code": "123456"}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusOK)
		response.JSON().Path("$.message").String().Contains("verified")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("WhitespaceCode", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()

		// The code is matched in trimmed form.
		poolMock.ExpectQuery("SELECT user_id, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email_verified_at"}).
				AddRow(userId, nil))
		poolMock.ExpectQuery("SELECT verification_id, expires_at").
			WithArgs(userId, "123456").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "expires_at"}).
				AddRow(verificationId, time.Now().Add(5*time.Minute)))
		poolMock.ExpectBegin()
		poolMock.ExpectExec("UPDATE users SET email_verified_at").
			WithArgs(pgxmock.AnyArg(), userId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		poolMock.ExpectCommit()

		payload := map[string]string{"email": "ana@example.com", "code": " 123456 "}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusOK)
		response.JSON().Path("$.message").String().Contains("verified")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		verificationId := uuid.New()
		userId := uuid.New()

		poolMock.ExpectQuery("SELECT user_id, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email_verified_at"}).
				AddRow(userId, nil))
		poolMock.ExpectQuery("SELECT verification_id, expires_at").
			WithArgs(userId, "123456").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "expires_at"}).
				AddRow(verificationId, time.Now().Add(-time.Minute)))
		poolMock.ExpectExec("DELETE FROM email_verification_tokens").
			WithArgs(verificationId).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		payload := map[string]string{"email": "ana@example.com", "code": "123456"}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusBadRequest)
		response.JSON().Path("$.error.code").IsEqual("ERR-009")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT user_id, email_verified_at").
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email_verified_at"}))

		payload := map[string]string{"email": "ghost@example.com", "code": "123456"}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-004")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnknownCode", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		userId := uuid.New()

		poolMock.ExpectQuery("SELECT user_id, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email_verified_at"}).
				AddRow(userId, nil))
		poolMock.ExpectQuery("SELECT verification_id, expires_at").
			WithArgs(userId, "654321").
			WillReturnRows(pgxmock.NewRows([]string{"verification_id", "expires_at"}))

		payload := map[string]string{"email": "ana@example.com", "code": "654321"}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-008")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("MalformedCode", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		payload := map[string]string{"email": "ana@example.com", "code": "12ab"}
		response := expect.POST("/api/auth/verify-email-code").WithJSON(payload).Expect().Status(http.StatusBadRequest)
		response.JSON().Path("$.error.code").IsEqual("ERR-001")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestLogin(t *testing.T) {
	password := "Sup3r$ecret"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	verifiedAt := time.Now().Add(-time.Hour)

	t.Run("ValidLogin", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		userId := uuid.New()
		poolMock.ExpectQuery("SELECT user_id, email, password_hash, role, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email", "password_hash", "role", "email_verified_at"}).
				AddRow(userId, "ana@example.com", string(hash), schemas.RoleUser, &verifiedAt))
		poolMock.ExpectExec("UPDATE users SET last_login_at").
			WithArgs(pgxmock.AnyArg(), userId).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		payload := map[string]string{"email": "ana@example.com", "password": password}
		response := expect.POST("/api/auth/login").WithJSON(payload).Expect().Status(http.StatusOK)
		response.JSON().Path("$.token").String().NotEmpty()
		response.JSON().Path("$.expiresIn").IsEqual("1h")
		response.Cookie("auth_token").Value().NotEmpty()

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT user_id, email, password_hash, role, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email", "password_hash", "role", "email_verified_at"}).
				AddRow(uuid.New(), "ana@example.com", string(hash), schemas.RoleUser, &verifiedAt))

		payload := map[string]string{"email": "ana@example.com", "password": "Wr0ng!pass"}
		response := expect.POST("/api/auth/login").WithJSON(payload).Expect().Status(http.StatusUnauthorized)
		response.JSON().Path("$.error.code").IsEqual("ERR-010")
		response.JSON().Path("$.error.message").IsEqual("The credentials are invalid. Please check your email and password.")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT user_id, email, password_hash, role, email_verified_at").
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email", "password_hash", "role", "email_verified_at"}))

		// Unknown email and wrong password must be indistinguishable.
		payload := map[string]string{"email": "nobody@example.com", "password": password}
		response := expect.POST("/api/auth/login").WithJSON(payload).Expect().Status(http.StatusUnauthorized)
		response.JSON().Path("$.error.code").IsEqual("ERR-010")
		response.JSON().Path("$.error.message").IsEqual("The credentials are invalid. Please check your email and password.")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnverifiedEmail", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT user_id, email, password_hash, role, email_verified_at").
			WithArgs("ana@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "email", "password_hash", "role", "email_verified_at"}).
				AddRow(uuid.New(), "ana@example.com", string(hash), schemas.RoleUser, nil))

		payload := map[string]string{"email": "ana@example.com", "password": password}
		response := expect.POST("/api/auth/login").WithJSON(payload).Expect().Status(http.StatusUnauthorized)
		response.JSON().Path("$.error.code").IsEqual("ERR-011")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestGetMe(t *testing.T) {
	t.Run("NoToken", func(t *testing.T) {
		expect, _, _, closeServer := newTestServer(t)
		defer closeServer()

		response := expect.GET("/api/users/me").Expect().Status(http.StatusUnauthorized)
		response.JSON().Path("$.error.code").IsEqual("ERR-012")
	})

	t.Run("TamperedToken", func(t *testing.T) {
		expect, _, jwtMgr, closeServer := newTestServer(t)
		defer closeServer()

		token, _ := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(uuid.New().String(), "ana@example.com", schemas.RoleUser))
		tampered := token[:len(token)-2] + "xx"

		response := expect.GET("/api/users/me").WithHeader("Authorization", "Bearer "+tampered).Expect().Status(http.StatusUnauthorized)
		response.JSON().Path("$.error.code").IsEqual("ERR-012")
	})

	t.Run("ValidToken", func(t *testing.T) {
		expect, poolMock, jwtMgr, closeServer := newTestServer(t)
		defer closeServer()

		userId := uuid.New()
		now := time.Now()
		token, _ := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(userId.String(), "ana@example.com", schemas.RoleUser))

		poolMock.ExpectQuery("SELECT u.user_id, u.email, u.username").
			WithArgs(userId.String()).
			WillReturnRows(pgxmock.NewRows([]string{
				"user_id", "email", "username", "display_name", "role", "bio", "avatar_key", "banner_key",
				"website_url", "discord_tag", "twitter_url", "instagram_url", "language", "theme",
				"email_verified_at", "last_login_at", "created_at", "updated_at",
				"profile_visibility", "show_bio", "show_website", "show_discord", "show_twitter", "show_instagram",
				"show_email", "show_created_at", "show_favorites", "show_stats", "show_last_seen", "allow_dms",
			}).AddRow(
				userId.String(), "ana@example.com", "ana", nil, schemas.RoleUser, nil, nil, nil,
				nil, nil, nil, nil, "en", "dark",
				&now, &now, &now, &now,
				"PUBLIC", true, true, false, true, true,
				false, true, false, true, false, false,
			))

		response := expect.GET("/api/users/me").WithHeader("Authorization", "Bearer "+token).Expect().Status(http.StatusOK)
		response.JSON().Object().HasValue("username", "ana")
		response.JSON().Object().HasValue("email", "ana@example.com")
		response.JSON().Path("$.privacy.profileVisibility").IsEqual("PUBLIC")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestPublicProfile(t *testing.T) {
	t.Run("PrivateProfileHidden", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		userId := uuid.New()
		now := time.Now()

		poolMock.ExpectQuery("SELECT u.user_id, u.username").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{
				"user_id", "username", "display_name", "bio", "avatar_key", "banner_key", "website_url",
				"discord_tag", "twitter_url", "instagram_url", "created_at", "last_login_at",
				"profile_visibility", "show_bio", "show_website", "show_discord", "show_twitter", "show_instagram",
				"show_created_at", "show_stats", "show_last_seen",
			}).AddRow(
				&userId, "ghost", nil, nil, nil, nil, nil,
				nil, nil, nil, &now, &now,
				"PRIVATE", true, true, false, true, true,
				true, true, false,
			))

		response := expect.GET("/api/users/ghost").Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-015")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		expect, poolMock, _, closeServer := newTestServer(t)
		defer closeServer()

		poolMock.ExpectQuery("SELECT u.user_id, u.username").
			WithArgs("nobody").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

		response := expect.GET("/api/users/nobody").Expect().Status(http.StatusNotFound)
		response.JSON().Path("$.error.code").IsEqual("ERR-004")

		if err := poolMock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestBrandingUpload(t *testing.T) {
	t.Run("UserRoleRejected", func(t *testing.T) {
		expect, _, jwtMgr, closeServer := newTestServer(t)
		defer closeServer()

		token, _ := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(uuid.New().String(), "ana@example.com", schemas.RoleUser))

		response := expect.POST("/api/admin/branding/logo").
			WithHeader("Authorization", "Bearer "+token).
			WithMultipart().WithFileBytes("file", "logo.png", []byte("not-a-real-png")).
			Expect().Status(http.StatusForbidden)
		response.JSON().Path("$.error.code").IsEqual("ERR-014")
	})

	t.Run("OwnerWithoutStorage", func(t *testing.T) {
		expect, _, jwtMgr, closeServer := newTestServer(t)
		defer closeServer()

		token, _ := jwtMgr.GenerateJWT(jwtMgr.GenerateClaims(uuid.New().String(), "owner@example.com", schemas.RoleOwner))

		response := expect.POST("/api/admin/branding/logo").
			WithHeader("Authorization", "Bearer "+token).
			WithMultipart().WithFileBytes("file", "logo.png", []byte("not-a-real-png")).
			Expect().Status(http.StatusBadRequest)
		response.JSON().Path("$.error.code").IsEqual("ERR-018")
	})
}

func TestHealth(t *testing.T) {
	expect, poolMock, _, closeServer := newTestServer(t)
	defer closeServer()

	poolMock.ExpectPing()

	expect.GET("/health").Expect().Status(http.StatusOK)

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
