package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"stories-v13/internal/config"
	"stories-v13/internal/managers"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// UserHdl outlines the account and profile operations.
type UserHdl interface {
	GetMe(ctx *gin.Context)
	ChangeProfile(ctx *gin.Context)
	ChangePrivacy(ctx *gin.Context)
	GetPublicProfile(ctx *gin.Context)
}

// UserHandler implements the own-account views and the privacy filtered
// public profile.
type UserHandler struct {
	DatabaseManager managers.DatabaseMgr

	assetBaseURL string
}

// NewUserHandler returns a new UserHandler using the given managers.
func NewUserHandler(databaseManager managers.DatabaseMgr, cfg *config.Config) UserHdl {
	return &UserHandler{
		DatabaseManager: databaseManager,
		assetBaseURL:    strings.TrimRight(cfg.Storage.AssetBaseURL, "/"),
	}
}

// GetMe returns the full own-account view of the caller.
func (handler *UserHandler) GetMe(ctx *gin.Context) {
	userId, ok := callerId(ctx)
	if !ok {
		return
	}

	me, err := handler.fetchMe(ctx, userId)
	if err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, me, http.StatusOK)
}

// ChangeProfile applies a partial update to the caller's profile. Absent
// fields are left untouched.
func (handler *UserHandler) ChangeProfile(ctx *gin.Context) {
	userId, ok := callerId(ctx)
	if !ok {
		return
	}

	changeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangeProfileRequest)

	queryString := "UPDATE users SET " +
		"display_name = COALESCE($1, display_name), " +
		"bio = COALESCE($2, bio), " +
		"avatar_key = COALESCE($3, avatar_key), " +
		"banner_key = COALESCE($4, banner_key), " +
		"website_url = COALESCE($5, website_url), " +
		"discord_tag = COALESCE($6, discord_tag), " +
		"twitter_url = COALESCE($7, twitter_url), " +
		"instagram_url = COALESCE($8, instagram_url), " +
		"language = COALESCE($9, language), " +
		"theme = COALESCE($10, theme), " +
		"updated_at = $11 WHERE user_id = $12"
	if _, err := handler.DatabaseManager.GetPool().Exec(ctx, queryString,
		changeRequest.DisplayName, changeRequest.Bio, changeRequest.AvatarKey, changeRequest.BannerKey,
		changeRequest.WebsiteURL, changeRequest.DiscordTag, changeRequest.TwitterURL, changeRequest.InstagramURL,
		changeRequest.Language, changeRequest.Theme, time.Now(), userId); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	me, err := handler.fetchMe(ctx, userId)
	if err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.ProfileDTO{Message: "Profile updated.", Profile: *me}, http.StatusOK)
}

// ChangePrivacy applies a partial update to the caller's privacy flags.
// The current row is read, patched in memory and written back as a whole, so
// an account that somehow lost its privacy row gets a fresh one.
func (handler *UserHandler) ChangePrivacy(ctx *gin.Context) {
	userId, ok := callerId(ctx)
	if !ok {
		return
	}

	changeRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangePrivacyRequest)
	pool := handler.DatabaseManager.GetPool()

	privacy := schemas.DefaultPrivacy()
	queryString := "SELECT profile_visibility, show_bio, show_website, show_discord, show_twitter, show_instagram, " +
		"show_email, show_created_at, show_favorites, show_stats, show_last_seen, allow_dms FROM user_privacy WHERE user_id = $1"
	err := pool.QueryRow(ctx, queryString, userId).Scan(&privacy.ProfileVisibility, &privacy.ShowBio, &privacy.ShowWebsite,
		&privacy.ShowDiscord, &privacy.ShowTwitter, &privacy.ShowInstagram, &privacy.ShowEmail, &privacy.ShowCreatedAt,
		&privacy.ShowFavorites, &privacy.ShowStats, &privacy.ShowLastSeen, &privacy.AllowDMs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	applyPrivacyPatch(&privacy, changeRequest)

	queryString = "INSERT INTO user_privacy (user_id, profile_visibility, show_bio, show_website, show_discord, show_twitter, " +
		"show_instagram, show_email, show_created_at, show_favorites, show_stats, show_last_seen, allow_dms) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) " +
		"ON CONFLICT (user_id) DO UPDATE SET profile_visibility = $2, show_bio = $3, show_website = $4, show_discord = $5, " +
		"show_twitter = $6, show_instagram = $7, show_email = $8, show_created_at = $9, show_favorites = $10, " +
		"show_stats = $11, show_last_seen = $12, allow_dms = $13"
	if _, err = pool.Exec(ctx, queryString, userId, privacy.ProfileVisibility, privacy.ShowBio, privacy.ShowWebsite,
		privacy.ShowDiscord, privacy.ShowTwitter, privacy.ShowInstagram, privacy.ShowEmail, privacy.ShowCreatedAt,
		privacy.ShowFavorites, privacy.ShowStats, privacy.ShowLastSeen, privacy.AllowDMs); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.PrivacyDTO{Message: "Privacy settings updated.", Privacy: privacy}, http.StatusOK)
}

// GetPublicProfile returns the privacy filtered view of a profile. A private
// profile is indistinguishable from a missing one.
func (handler *UserHandler) GetPublicProfile(ctx *gin.Context) {
	username := normalizeIdentifier(ctx.Param(utils.UsernameKey))
	pool := handler.DatabaseManager.GetPool()

	var user schemas.User
	privacy := schemas.DefaultPrivacy()
	queryString := "SELECT u.user_id, u.username, u.display_name, u.bio, u.avatar_key, u.banner_key, u.website_url, " +
		"u.discord_tag, u.twitter_url, u.instagram_url, u.created_at, u.last_login_at, " +
		"p.profile_visibility, p.show_bio, p.show_website, p.show_discord, p.show_twitter, p.show_instagram, " +
		"p.show_created_at, p.show_stats, p.show_last_seen " +
		"FROM users u JOIN user_privacy p ON p.user_id = u.user_id WHERE u.username = $1"
	err := pool.QueryRow(ctx, queryString, username).Scan(&user.ID, &user.Username, &user.DisplayName, &user.Bio,
		&user.AvatarKey, &user.BannerKey, &user.WebsiteURL, &user.DiscordTag, &user.TwitterURL, &user.InstagramURL,
		&user.CreatedAt, &user.LastLoginAt,
		&privacy.ProfileVisibility, &privacy.ShowBio, &privacy.ShowWebsite, &privacy.ShowDiscord, &privacy.ShowTwitter,
		&privacy.ShowInstagram, &privacy.ShowCreatedAt, &privacy.ShowStats, &privacy.ShowLastSeen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if privacy.ProfileVisibility == schemas.VisibilityPrivate {
		utils.WriteAndLogError(ctx, schemas.ProfileNotAvailable, http.StatusNotFound, errors.New("profile is private"))
		return
	}

	profile := &schemas.PublicProfileDTO{
		Username:          user.Username,
		DisplayName:       user.DisplayName,
		AvatarURL:         handler.assetURL(user.AvatarKey),
		BannerURL:         handler.assetURL(user.BannerKey),
		ProfileVisibility: privacy.ProfileVisibility,
	}

	if privacy.ShowBio {
		profile.Bio = user.Bio
	}
	if privacy.ShowWebsite {
		profile.WebsiteURL = user.WebsiteURL
	}
	if privacy.ShowDiscord {
		profile.DiscordTag = user.DiscordTag
	}
	if privacy.ShowTwitter {
		profile.TwitterURL = user.TwitterURL
	}
	if privacy.ShowInstagram {
		profile.InstagramURL = user.InstagramURL
	}
	if privacy.ShowCreatedAt {
		profile.CreatedAt = user.CreatedAt
	}
	if privacy.ShowLastSeen {
		profile.LastLoginAt = user.LastLoginAt
	}

	if privacy.ShowStats {
		var storiesPublished int
		queryString = "SELECT COUNT(*) FROM stories WHERE author_id = $1 AND published_at IS NOT NULL"
		if err = pool.QueryRow(ctx, queryString, user.ID).Scan(&storiesPublished); err != nil {
			utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		profile.Stats = &schemas.ProfileStatsDTO{StoriesPublished: storiesPublished}
	}

	utils.WriteAndLogResponse(ctx, profile, http.StatusOK)
}

// fetchMe loads the own-account view. Errors are already written to the
// response when a non-nil error returns.
func (handler *UserHandler) fetchMe(ctx *gin.Context, userId string) (*schemas.MeDTO, error) {
	me := &schemas.MeDTO{}

	queryString := "SELECT u.user_id, u.email, u.username, u.display_name, u.role, u.bio, u.avatar_key, u.banner_key, " +
		"u.website_url, u.discord_tag, u.twitter_url, u.instagram_url, u.language, u.theme, u.email_verified_at, " +
		"u.last_login_at, u.created_at, u.updated_at, " +
		"p.profile_visibility, p.show_bio, p.show_website, p.show_discord, p.show_twitter, p.show_instagram, " +
		"p.show_email, p.show_created_at, p.show_favorites, p.show_stats, p.show_last_seen, p.allow_dms " +
		"FROM users u JOIN user_privacy p ON p.user_id = u.user_id WHERE u.user_id = $1"
	err := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, userId).Scan(&me.ID, &me.Email, &me.Username,
		&me.DisplayName, &me.Role, &me.Bio, &me.AvatarKey, &me.BannerKey, &me.WebsiteURL, &me.DiscordTag, &me.TwitterURL,
		&me.InstagramURL, &me.Language, &me.Theme, &me.EmailVerifiedAt, &me.LastLoginAt, &me.CreatedAt, &me.UpdatedAt,
		&me.Privacy.ProfileVisibility, &me.Privacy.ShowBio, &me.Privacy.ShowWebsite, &me.Privacy.ShowDiscord,
		&me.Privacy.ShowTwitter, &me.Privacy.ShowInstagram, &me.Privacy.ShowEmail, &me.Privacy.ShowCreatedAt,
		&me.Privacy.ShowFavorites, &me.Privacy.ShowStats, &me.Privacy.ShowLastSeen, &me.Privacy.AllowDMs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.UserNotFound, http.StatusNotFound, err)
			return nil, err
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, err
	}

	return me, nil
}

func (handler *UserHandler) assetURL(key *string) *string {
	if key == nil || handler.assetBaseURL == "" {
		return nil
	}

	url := handler.assetBaseURL + "/" + strings.TrimLeft(*key, "/")
	return &url
}

// callerId extracts the user id from the session claims of the request.
func callerId(ctx *gin.Context) (string, bool) {
	claims, ok := ctx.Value(utils.ClaimsKey.String()).(jwt.MapClaims)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no session claims on request"))
		return "", false
	}

	userId, _ := claims["sub"].(string)
	if userId == "" {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized, errors.New("session claims carry no subject"))
		return "", false
	}

	return userId, true
}

func applyPrivacyPatch(privacy *schemas.UserPrivacy, patch *schemas.ChangePrivacyRequest) {
	if patch.ProfileVisibility != nil {
		privacy.ProfileVisibility = *patch.ProfileVisibility
	}
	if patch.ShowBio != nil {
		privacy.ShowBio = *patch.ShowBio
	}
	if patch.ShowWebsite != nil {
		privacy.ShowWebsite = *patch.ShowWebsite
	}
	if patch.ShowDiscord != nil {
		privacy.ShowDiscord = *patch.ShowDiscord
	}
	if patch.ShowTwitter != nil {
		privacy.ShowTwitter = *patch.ShowTwitter
	}
	if patch.ShowInstagram != nil {
		privacy.ShowInstagram = *patch.ShowInstagram
	}
	if patch.ShowEmail != nil {
		privacy.ShowEmail = *patch.ShowEmail
	}
	if patch.ShowCreatedAt != nil {
		privacy.ShowCreatedAt = *patch.ShowCreatedAt
	}
	if patch.ShowFavorites != nil {
		privacy.ShowFavorites = *patch.ShowFavorites
	}
	if patch.ShowStats != nil {
		privacy.ShowStats = *patch.ShowStats
	}
	if patch.ShowLastSeen != nil {
		privacy.ShowLastSeen = *patch.ShowLastSeen
	}
	if patch.AllowDMs != nil {
		privacy.AllowDMs = *patch.AllowDMs
	}
}
