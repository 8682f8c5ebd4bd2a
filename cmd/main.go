package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/riteshk28/CELPIP-Practice-sub000/config"
	"github.com/riteshk28/CELPIP-Practice-sub000/database"
	adminctrl "github.com/riteshk28/CELPIP-Practice-sub000/internal/controller/admin"
	userctrl "github.com/riteshk28/CELPIP-Practice-sub000/internal/controller/user"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/logger"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/middleware"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/repository"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title CELPIP Practice API
// @version 1.0
// @description Backend for CELPIP test preparation: authoring, timed delivery sessions, auto-grading and AI writing evaluation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewPracticeSetRepository,
			repository.NewAttemptRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewGradingService,
			service.NewWritingEvaluationService,
			service.NewSpeechService,
			service.NewAdminSetService,
			service.NewCatalogService,
			service.NewAttemptService,
			service.NewSessionService,
		),

		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewSetController,
			userctrl.NewAttemptController,
			userctrl.NewSessionController,
			adminctrl.NewSetController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	sessionService service.SessionService,
	authCtrl *userctrl.AuthController,
	setCtrl *userctrl.SetController,
	attemptCtrl *userctrl.AttemptController,
	sessionCtrl *userctrl.SessionController,
	adminSetCtrl *adminctrl.SetController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authCtrl.Signup)
		authGroup.POST("/login", authCtrl.Login)
	}

	userGroup := api.Group("")
	userGroup.Use(middleware.RequireAuth(authService))
	{
		userGroup.GET("/sets", setCtrl.GetPublishedSets)
		userGroup.GET("/sets/:set_id", setCtrl.GetSetDetails)

		userGroup.POST("/sets/:set_id/sessions", sessionCtrl.StartSession)
		userGroup.GET("/sessions/:session_id", sessionCtrl.GetSession)
		userGroup.POST("/sessions/:session_id/events", sessionCtrl.DispatchEvent)
		userGroup.DELETE("/sessions/:session_id", sessionCtrl.ExitSession)

		userGroup.POST("/attempts", attemptCtrl.SubmitAttempt)
		userGroup.GET("/users/me/attempts", attemptCtrl.GetMyAttempts)
		userGroup.POST("/evaluate-writing", attemptCtrl.EvaluateWriting)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAuth(authService), middleware.RequireAdmin())
	{
		adminGroup.GET("/sets", adminSetCtrl.GetAllSets)
		adminGroup.POST("/sets", adminSetCtrl.SaveSet)
		adminGroup.DELETE("/sets/:set_id", adminSetCtrl.DeleteSet)
		adminGroup.POST("/speech", adminSetCtrl.GenerateSpeech)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("CELPIP Practice API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			sessionService.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.PracticeSet{},
		&model.Section{},
		&model.Part{},
		&model.Segment{},
		&model.Question{},
		&model.Attempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
