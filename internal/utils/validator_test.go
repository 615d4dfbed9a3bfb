package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stories-v13/internal/schemas"
)

func TestPasswordValidation(t *testing.T) {
	validator := GetValidator()

	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"ValidPassword", "Sup3r$ecret", true},
		{"MissingUpper", "sup3r$ecret", false},
		{"MissingLower", "SUP3R$ECRET", false},
		{"MissingDigit", "Super$ecret", false},
		{"MissingSpecial", "Sup3rSecret", false},
		{"NonASCII", "Sup3r$ecrét", false},
		{"TooShort", "S3$a", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := schemas.RegistrationRequest{
				Username: "ana",
				Email:    "ana@example.com",
				Password: tc.password,
			}

			err := validator.Validate.Struct(request)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUsernameValidation(t *testing.T) {
	validator := GetValidator()

	testCases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"Simple", "ana", true},
		{"WithSeparators", "ana.k_v-13", true},
		{"WithSpace", "ana k", false},
		{"WithAt", "ana@k", false},
		{"TooShort", "an", false},
		{"TooLong", "anaanaanaanaanaanaana", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := schemas.RegistrationRequest{
				Username: tc.username,
				Email:    "ana@example.com",
				Password: "Sup3r$ecret",
			}

			err := validator.Validate.Struct(request)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSanitizeData(t *testing.T) {
	validator := GetValidator()

	bio := "<script>alert(1)</script>plain"
	request := &schemas.ChangeProfileRequest{Bio: &bio}

	require.NoError(t, validator.SanitizeData(request))
	assert.Equal(t, "plain", *request.Bio)
}

func TestSanitizeDataRejectsNonPointer(t *testing.T) {
	validator := GetValidator()

	assert.Error(t, validator.SanitizeData(schemas.ChangeProfileRequest{}))
}
