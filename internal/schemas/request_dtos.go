package schemas

// RegistrationRequest is a struct that represents a registration request
// Username is required and must be less than 20 characters
// Email is required and must be a valid email
// Password is required, at least 8 characters, and must mix upper, lower,
// digit and symbol (enforced server-side, not only in the browser form)
type RegistrationRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20,username_validation"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password_validation"`
}

// VerifyEmailCodeRequest is a struct that represents a manual code entry request
// Code is trimmed and checked against the six-digit format by the handler
type VerifyEmailCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResendVerificationRequest is a struct that represents a resend request
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangeProfileRequest is a struct that represents a partial profile update.
// Every field is optional; absent fields are left untouched.
type ChangeProfileRequest struct {
	DisplayName  *string `json:"displayName" validate:"omitempty,min=2,max=50"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	AvatarKey    *string `json:"avatarKey" validate:"omitempty,max=255"`
	BannerKey    *string `json:"bannerKey" validate:"omitempty,max=255"`
	WebsiteURL   *string `json:"websiteUrl" validate:"omitempty,url,max=255"`
	DiscordTag   *string `json:"discordTag" validate:"omitempty,max=64"`
	TwitterURL   *string `json:"twitterUrl" validate:"omitempty,url,max=255"`
	InstagramURL *string `json:"instagramUrl" validate:"omitempty,url,max=255"`
	Language     *string `json:"language" validate:"omitempty,max=10"`
	Theme        *string `json:"theme" validate:"omitempty,max=10"`
}

// ChangePrivacyRequest is a struct that represents a partial privacy update.
// Every field is optional; absent fields are left untouched.
type ChangePrivacyRequest struct {
	ProfileVisibility *string `json:"profileVisibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	ShowBio           *bool   `json:"showBio"`
	ShowWebsite       *bool   `json:"showWebsite"`
	ShowDiscord       *bool   `json:"showDiscord"`
	ShowTwitter       *bool   `json:"showTwitter"`
	ShowInstagram     *bool   `json:"showInstagram"`
	ShowEmail         *bool   `json:"showEmail"`
	ShowCreatedAt     *bool   `json:"showCreatedAt"`
	ShowFavorites     *bool   `json:"showFavorites"`
	ShowStats         *bool   `json:"showStats"`
	ShowLastSeen      *bool   `json:"showLastSeen"`
	AllowDMs          *bool   `json:"allowDMs"`
}
