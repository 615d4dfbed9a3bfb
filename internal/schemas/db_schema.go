package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	ID              *uuid.UUID `json:"id"`                // Unique identifier for the user.
	Email           string     `json:"email"`             // Email address, stored lowercased.
	Username        string     `json:"username"`          // Username, stored lowercased.
	DisplayName     *string    `json:"displayName"`       // Display name as originally typed.
	PasswordHash    string     `json:"-"`                 // Bcrypt hash, never serialized.
	Role            Role       `json:"role"`              // Role in the privilege hierarchy.
	Bio             *string    `json:"bio"`               // Free-form profile text.
	AvatarKey       *string    `json:"avatarKey"`         // Object storage key of the avatar.
	BannerKey       *string    `json:"bannerKey"`         // Object storage key of the banner.
	WebsiteURL      *string    `json:"websiteUrl"`        // Personal website.
	DiscordTag      *string    `json:"discordTag"`        // Discord handle.
	TwitterURL      *string    `json:"twitterUrl"`        // Twitter profile.
	InstagramURL    *string    `json:"instagramUrl"`      // Instagram profile.
	Language        string     `json:"language"`          // UI language preference.
	Theme           string     `json:"theme"`             // UI theme preference.
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`   // Set exactly once by a successful verification.
	LastLoginAt     *time.Time `json:"lastLoginAt"`       // Updated on each successful login.
	CreatedAt       *time.Time `json:"createdAt"`         // Timestamp when the user was created.
	UpdatedAt       *time.Time `json:"updatedAt"`         // Timestamp of the last update.
}

// VerificationToken is a single-use proof of email ownership, created together
// with the user and deleted on first use, expiry or cleanup.
type VerificationToken struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the record.
	UserID    *uuid.UUID `json:"user_id"`    // Owning user.
	Token     string     `json:"token"`      // Long random hex string for the link flow.
	Code      string     `json:"code"`       // Short numeric code for the manual flow.
	ExpiresAt *time.Time `json:"expires_at"` // Timestamp when the record expires.
}

// UserPrivacy holds the visibility flags of a user profile.
type UserPrivacy struct {
	UserID            *uuid.UUID `json:"userId"`
	ProfileVisibility string     `json:"profileVisibility"`
	ShowBio           bool       `json:"showBio"`
	ShowWebsite       bool       `json:"showWebsite"`
	ShowDiscord       bool       `json:"showDiscord"`
	ShowTwitter       bool       `json:"showTwitter"`
	ShowInstagram     bool       `json:"showInstagram"`
	ShowEmail         bool       `json:"showEmail"`
	ShowCreatedAt     bool       `json:"showCreatedAt"`
	ShowFavorites     bool       `json:"showFavorites"`
	ShowStats         bool       `json:"showStats"`
	ShowLastSeen      bool       `json:"showLastSeen"`
	AllowDMs          bool       `json:"allowDMs"`
}

// Profile visibility values.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// DefaultPrivacy returns the privacy flags a fresh account starts with.
func DefaultPrivacy() UserPrivacy {
	return UserPrivacy{
		ProfileVisibility: VisibilityPublic,
		ShowBio:           true,
		ShowWebsite:       true,
		ShowDiscord:       false,
		ShowTwitter:       true,
		ShowInstagram:     true,
		ShowEmail:         false,
		ShowCreatedAt:     true,
		ShowFavorites:     false,
		ShowStats:         true,
		ShowLastSeen:      false,
		AllowDMs:          false,
	}
}
