package schemas

import "time"

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// MessageDTO is a struct that represents a plain status response
type MessageDTO struct {
	Message string `json:"message"`
}

// RegistrationDTO is a struct that represents a registration response
// EmailSent reports whether the verification mail actually went out, so the
// client can degrade gracefully when mail delivery is unavailable
type RegistrationDTO struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"emailSent"`
}

// LoginDTO is a struct that represents a login response
// Token is the signed session token, ExpiresIn a human-readable lifetime label
type LoginDTO struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
}

// MeDTO is the full own-account view returned by /users/me.
type MeDTO struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	Username        string      `json:"username"`
	DisplayName     *string     `json:"displayName"`
	Role            Role        `json:"role"`
	Bio             *string     `json:"bio"`
	AvatarKey       *string     `json:"avatarKey"`
	BannerKey       *string     `json:"bannerKey"`
	WebsiteURL      *string     `json:"websiteUrl"`
	DiscordTag      *string     `json:"discordTag"`
	TwitterURL      *string     `json:"twitterUrl"`
	InstagramURL    *string     `json:"instagramUrl"`
	Language        string      `json:"language"`
	Theme           string      `json:"theme"`
	EmailVerifiedAt *time.Time  `json:"emailVerifiedAt"`
	LastLoginAt     *time.Time  `json:"lastLoginAt"`
	CreatedAt       *time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time  `json:"updatedAt"`
	Privacy         UserPrivacy `json:"privacy"`
}

// PublicProfileDTO is the privacy-filtered view of a profile returned by
// /users/:username. Hidden fields stay nil and are omitted from the JSON.
type PublicProfileDTO struct {
	Username          string            `json:"username"`
	DisplayName       *string           `json:"displayName,omitempty"`
	AvatarURL         *string           `json:"avatarUrl,omitempty"`
	BannerURL         *string           `json:"bannerUrl,omitempty"`
	ProfileVisibility string            `json:"profileVisibility"`
	Bio               *string           `json:"bio,omitempty"`
	WebsiteURL        *string           `json:"websiteUrl,omitempty"`
	DiscordTag        *string           `json:"discordTag,omitempty"`
	TwitterURL        *string           `json:"twitterUrl,omitempty"`
	InstagramURL      *string           `json:"instagramUrl,omitempty"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty"`
	LastLoginAt       *time.Time        `json:"lastLoginAt,omitempty"`
	Stats             *ProfileStatsDTO  `json:"stats,omitempty"`
}

// ProfileStatsDTO carries the public counters of a profile.
type ProfileStatsDTO struct {
	StoriesPublished int `json:"storiesPublished"`
}

// ProfileDTO is the echo of an updated profile.
type ProfileDTO struct {
	Message string `json:"message"`
	Profile MeDTO  `json:"profile"`
}

// PrivacyDTO is the echo of an updated privacy record.
type PrivacyDTO struct {
	Message string      `json:"message"`
	Privacy UserPrivacy `json:"privacy"`
}

// GenreDTO is a struct that represents a genre entry
type GenreDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryDTO is a struct that represents a category entry
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryGroupDTO is a struct that represents a category group with its categories
type CategoryGroupDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Order      int           `json:"order"`
	Categories []CategoryDTO `json:"categories"`
}

// TaxonomyDTO is a struct that represents the full taxonomy response
type TaxonomyDTO struct {
	Genres []GenreDTO         `json:"genres"`
	Groups []CategoryGroupDTO `json:"groups"`
}

// BrandingDTO is a struct that represents the public branding response
type BrandingDTO struct {
	LogoURL *string `json:"logoUrl"`
}

// LogoDTO is a struct that represents the response to a logo upload
type LogoDTO struct {
	LogoKey string `json:"logoKey"`
	LogoURL string `json:"logoUrl"`
}

// AuthorDTO is a struct that represents a story author
type AuthorDTO struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"displayName"`
}

// StoryDTO is a struct that represents a story in a listing
type StoryDTO struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	Summary   *string   `json:"summary"`
	Author    AuthorDTO `json:"author"`
	Genre     *string   `json:"genre"`
	CreatedAt string    `json:"createdAt"`
}

// PaginatedResponse wraps a record subset with its pagination envelope.
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination describes the window of a paginated response.
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}

// MetadataDTO is a struct that represents the version metadata response
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
