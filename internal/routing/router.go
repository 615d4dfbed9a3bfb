// Package routing wires the middlewares and handlers into the gin engine.
package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stories-v13/internal/config"
	"stories-v13/internal/handlers"
	"stories-v13/internal/managers"
	"stories-v13/internal/middleware"
	"stories-v13/internal/schemas"
	"stories-v13/internal/utils"
)

const apiName = "storiesV13"

// InitRouter builds the gin engine with all middlewares and routes attached.
func InitRouter(cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, storageMgr managers.StorageMgr) *gin.Engine {
	router := gin.New()

	setupCommonMiddleware(router)
	setupRoutes(router, cfg, databaseMgr, mailMgr, jwtMgr, storageMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(middleware.InjectTrace())
	router.Use(middleware.LogRequest())
	router.Use(middleware.SanitizePath())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "Origin"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
}

func setupRoutes(router *gin.Engine, cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, storageMgr managers.StorageMgr) {
	// Version route
	router.GET("/", func(ctx *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: "v1",
			ApiName:    apiName,
		}
		ctx.JSON(http.StatusOK, metadata)
	})

	// Health route
	router.GET("/health", func(ctx *gin.Context) {
		if err := databaseMgr.GetPool().Ping(ctx); err != nil {
			ctx.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		ctx.Status(http.StatusOK)
	})

	authHandler := handlers.NewAuthHandler(databaseMgr, jwtMgr, mailMgr, cfg)
	userHandler := handlers.NewUserHandler(databaseMgr, cfg)
	taxonomyHandler := handlers.NewTaxonomyHandler(databaseMgr)
	brandingHandler := handlers.NewBrandingHandler(databaseMgr, storageMgr)
	storyHandler := handlers.NewStoryHandler(databaseMgr)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		authRoutes(auth, authHandler)

		users := api.Group("/users")
		userRoutes(users, userHandler, jwtMgr)

		api.GET("/taxonomy", taxonomyHandler.GetTaxonomy)
		api.GET("/stories", storyHandler.ListStories)
		api.GET("/public/branding", brandingHandler.GetPublicBranding)

		admin := api.Group("/admin")
		admin.Use(jwtMgr.JWTMiddleware())
		adminRoutes(admin, brandingHandler)
	}
}

func authRoutes(authRouter *gin.RouterGroup, authHandler handlers.AuthHdl) {
	authRouter.POST("/register", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), authHandler.Register)
	authRouter.GET("/verify-email", authHandler.VerifyEmail)
	authRouter.POST("/verify-email-code", middleware.ValidateAndSanitizeStruct(&schemas.VerifyEmailCodeRequest{}), authHandler.VerifyEmailCode)
	authRouter.POST("/resend-verification", middleware.ValidateAndSanitizeStruct(&schemas.ResendVerificationRequest{}), authHandler.ResendVerification)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), authHandler.Login)
}

func userRoutes(userRouter *gin.RouterGroup, userHandler handlers.UserHdl, jwtMgr managers.JWTMgr) {
	me := userRouter.Group("/me")
	me.Use(jwtMgr.JWTMiddleware())
	me.GET("", userHandler.GetMe)
	me.PATCH("/profile", middleware.ValidateAndSanitizeStruct(&schemas.ChangeProfileRequest{}), userHandler.ChangeProfile)
	me.PATCH("/privacy", middleware.ValidateAndSanitizeStruct(&schemas.ChangePrivacyRequest{}), userHandler.ChangePrivacy)

	userRouter.GET("/:"+utils.UsernameKey, userHandler.GetPublicProfile)
}

func adminRoutes(adminRouter *gin.RouterGroup, brandingHandler handlers.BrandingHdl) {
	adminRouter.POST("/branding/logo", middleware.RequireRoles(schemas.RoleOwner), brandingHandler.UploadLogo)
}
