package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minhvu/Skillport/config"
	"github.com/minhvu/Skillport/database"
	_ "github.com/minhvu/Skillport/docs" // Swagger docs - auto-generated
	adminctrl "github.com/minhvu/Skillport/internal/controller/admin"
	userctrl "github.com/minhvu/Skillport/internal/controller/user"
	"github.com/minhvu/Skillport/internal/logger"
	"github.com/minhvu/Skillport/internal/middleware"
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"github.com/minhvu/Skillport/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Skillport Assessment API
// @version 1.0
// @description REST backend for the Skillport assessment portal: question bank, timed-session submissions, results and profiles.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewResultRepository,
			repository.NewUserRepository,
			repository.NewProfileRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAssessmentService,
			service.NewSubmissionService,
			service.NewProfileService,
			service.NewAuthService,
			service.NewSeedService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewAuthController,
			userctrl.NewAssessmentController,
			userctrl.NewProfileController,
			adminctrl.NewSeedController,
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
			Str("user_agent", param.Request.UserAgent()).
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
	authCtrl *userctrl.AuthController,
	assessmentCtrl *userctrl.AssessmentController,
	profileCtrl *userctrl.ProfileController,
	seedCtrl *adminctrl.SeedController,
) {
	// Uploaded avatars are served straight from disk.
	router.Static(userctrl.AvatarURLPrefix, cfg.Uploads.Dir)

	api := router.Group("/api/v1")
	{
		api.POST("/signup", authCtrl.Signup)
		api.POST("/login", authCtrl.Login)

		assessment := api.Group("/assessment")
		{
			assessment.GET("/overview", assessmentCtrl.GetOverview)
			assessment.GET("/questions", assessmentCtrl.GetQuestions)
			assessment.POST("/submit", middleware.RequireAuth(cfg), assessmentCtrl.SubmitAssessment)
			assessment.GET("/result/:result_id", middleware.RequireAuth(cfg), assessmentCtrl.GetResult)
		}

		profile := api.Group("/profile", middleware.RequireAuth(cfg))
		{
			profile.GET("/me", profileCtrl.GetMyProfile)
			profile.PUT("/me", profileCtrl.UpdateMyProfile)
			profile.POST("/avatar", profileCtrl.UploadAvatar)
			profile.GET("/history", profileCtrl.GetHistory)
			profile.GET("/trend", profileCtrl.GetTrend)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/assessment/seed-csv", seedCtrl.SeedFromCSV)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Skillport API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
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
		&model.Profile{},
		&model.Question{},
		&model.QuestionOption{},
		&model.Result{},
		&model.ResultAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
