package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stories-v13/internal/managers"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

// maxLogoSize is the upload limit for the site logo.
const maxLogoSize = 2 << 20

const logoURLSettingKey = "logo_url"

// BrandingHdl outlines the site branding operations.
type BrandingHdl interface {
	GetPublicBranding(ctx *gin.Context)
	UploadLogo(ctx *gin.Context)
}

// BrandingHandler serves the public branding and the owner-only logo upload.
type BrandingHandler struct {
	DatabaseManager managers.DatabaseMgr
	StorageManager  managers.StorageMgr
}

// NewBrandingHandler returns a new BrandingHandler using the given managers.
func NewBrandingHandler(databaseManager managers.DatabaseMgr, storageManager managers.StorageMgr) BrandingHdl {
	return &BrandingHandler{
		DatabaseManager: databaseManager,
		StorageManager:  storageManager,
	}
}

// GetPublicBranding returns the current site logo URL, or null when no logo
// has been uploaded yet.
func (handler *BrandingHandler) GetPublicBranding(ctx *gin.Context) {
	var logoURL string
	queryString := "SELECT value FROM site_settings WHERE key = $1"
	err := handler.DatabaseManager.GetPool().QueryRow(ctx, queryString, logoURLSettingKey).Scan(&logoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogResponse(ctx, &schemas.BrandingDTO{LogoURL: nil}, http.StatusOK)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.BrandingDTO{LogoURL: &logoURL}, http.StatusOK)
}

// UploadLogo stores a new site logo in object storage and records its public
// URL in the site settings. The route is restricted to the owner role.
func (handler *BrandingHandler) UploadLogo(ctx *gin.Context) {
	if !handler.StorageManager.Configured() {
		utils.WriteAndLogError(ctx, schemas.StorageNotConfigured, http.StatusBadRequest, managers.ErrStorageNotConfigured)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.FileRequired, http.StatusBadRequest, err)
		return
	}

	if fileHeader.Size > maxLogoSize {
		utils.WriteAndLogError(ctx, schemas.FileTooLarge, http.StatusBadRequest, errors.New("logo exceeds size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	logoKey := "branding/logo-" + uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	logoURL, err := handler.StorageManager.UploadObject(ctx, logoKey, contentType, file)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	queryString := "INSERT INTO site_settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = $2"
	if _, err = handler.DatabaseManager.GetPool().Exec(ctx, queryString, logoURLSettingKey, logoURL); err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.LogoDTO{LogoKey: logoKey, LogoURL: logoURL}, http.StatusOK)
}
