// server/internal/api/routes/routes.go
package routes

import (
	"agrifield-api-server/config"
	"agrifield-api-server/internal/api/handlers"
	"agrifield-api-server/internal/api/middleware"
	"agrifield-api-server/internal/repository"
	"agrifield-api-server/internal/s3"
	"agrifield-api-server/internal/service"
	"agrifield-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupRouter wires repositories, services and handlers and declares the
// route tree.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	userRepo := repository.NewMongoUserRepository(db)
	fieldRepo := repository.NewMongoFieldRepository(db)
	activityRepo := repository.NewMongoActivityRepository(db)

	userService := service.NewUserService(userRepo, cfg.Google.ClientID, logger)
	fieldService := service.NewFieldService(fieldRepo, activityRepo, cfg.Bin.FieldTTL, logger)
	activityService := service.NewActivityService(activityRepo, fieldRepo, cfg.Bin.ActivityTTL, logger)

	authHandler := &handlers.AuthHandler{Users: userService}
	fieldHandler := &handlers.FieldHandler{Fields: fieldService, Hub: wsHub}
	activityHandler := &handlers.ActivityHandler{Activities: activityService, Hub: wsHub}
	binHandler := &handlers.BinHandler{Fields: fieldService, Activities: activityService, Hub: wsHub}
	uploadHandler := &handlers.UploadHandler{S3Uploader: s3Uploader}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// Websocket authenticates via query token inside the handler.
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === PUBLIC ROUTES ===
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/google", authHandler.GoogleLogin)
		}

		// === PROTECTED ROUTES ===
		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate())
		{
			profile := protected.Group("/auth")
			{
				profile.GET("/profile/:id", authHandler.GetProfile)
				profile.PUT("/update-profile/:id", authHandler.UpdateProfile)
			}

			fields := protected.Group("/fields")
			{
				fields.GET("/", fieldHandler.GetFields)
				fields.POST("/", fieldHandler.CreateField)
				fields.GET("/:id", fieldHandler.GetFieldByID)
				fields.DELETE("/:id", fieldHandler.DeleteField)
			}

			activities := protected.Group("/activities")
			{
				activities.POST("/", activityHandler.CreateActivity)
				activities.GET("/:fieldId", activityHandler.GetActivitiesForField)
				activities.PATCH("/:id", activityHandler.MarkCompleted)
				activities.DELETE("/:id", activityHandler.DeleteActivity)
			}

			// Recycle bin lives under its own prefix so field/activity ids
			// keep their wildcard routes.
			bin := protected.Group("/bin")
			{
				bin.GET("/fields", binHandler.GetFieldBin)
				bin.GET("/activities", binHandler.GetActivityBin)
				bin.POST("/fields/:id/restore", binHandler.RestoreField)
				bin.POST("/activities/:id/restore", binHandler.RestoreActivity)
			}

			uploads := protected.Group("/uploads")
			{
				uploads.POST("/field-image", uploadHandler.UploadFieldImage)
			}
		}
	}

	return router
}
