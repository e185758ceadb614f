package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pedrorichil/aprovaia/internal/adaptive"
	"github.com/pedrorichil/aprovaia/internal/ai"
	"github.com/pedrorichil/aprovaia/internal/cache"
	"github.com/pedrorichil/aprovaia/internal/config"
	"github.com/pedrorichil/aprovaia/internal/db"
	"github.com/pedrorichil/aprovaia/internal/event"
	"github.com/pedrorichil/aprovaia/internal/handlers"
	"github.com/pedrorichil/aprovaia/internal/middleware"
	"github.com/pedrorichil/aprovaia/internal/models"
	"github.com/pedrorichil/aprovaia/internal/repository"
	"github.com/pedrorichil/aprovaia/internal/service"
	"github.com/pedrorichil/aprovaia/internal/vector"
)

func main() {
	config.Load()
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	database := db.Client.Database(cfg.MongoDatabase)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Repositories
	userRepo := repository.NewUserRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	answerRepo := repository.NewAnswerRepository(database)
	proficiencyRepo := repository.NewProficiencyRepository(database)
	if err := proficiencyRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create proficiency indexes: %v", err)
	}

	// RabbitMQ: domain events plus the background job queues
	publisher, err := event.NewPublisher(cfg.RabbitMQURI, cfg.EventExchange)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Gemini
	aiClient, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	// ChromaDB
	chromaClient := vector.NewChromaClient(cfg.ChromaURL)
	if err := chromaClient.EnsureCollection(ctx); err != nil {
		log.Fatalf("Failed to prepare vector collection: %v", err)
	}

	// Redis dashboard cache. Optional: the dashboard recomputes on a miss.
	var dashboardCache cache.DashboardCache
	if redisOpts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		log.Printf("Invalid REDIS_URL, dashboard caching disabled: %v", err)
	} else {
		dashboardCache = cache.NewDashboardCache(redis.NewClient(redisOpts))
	}

	// Adaptive core
	catalog := service.NewCatalog(questionRepo, answerRepo)
	selector := adaptive.NewSelector(proficiencyRepo, catalog)
	updater := adaptive.NewUpdater(proficiencyRepo, answerRepo, aiClient)
	seeder := adaptive.NewSeeder(proficiencyRepo)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	studentService := service.NewStudentService(questionRepo, answerRepo, proficiencyRepo, selector, updater, publisher)
	onboardingService := service.NewOnboardingService(userRepo, seeder)
	teacherService := service.NewTeacherService(userRepo, answerRepo, proficiencyRepo, dashboardCache)
	contentService := service.NewContentService(questionRepo, aiClient, chromaClient)
	toolsService := service.NewToolsService(aiClient)

	// Background workers
	consumer, err := event.NewConsumer(cfg.RabbitMQURI)
	if err != nil {
		log.Fatalf("Failed to create job consumer: %v", err)
	}
	defer consumer.Close()
	err = consumer.Start(
		func(ctx context.Context, job event.AnalysisJob) error {
			err := studentService.ProcessAnalysis(ctx, job.AnswerID)
			if errors.Is(err, service.ErrAnswerNotFound) || errors.Is(err, adaptive.ErrQuestionMissing) {
				return fmt.Errorf("%w: %v", event.ErrDiscard, err)
			}
			return err
		},
		func(ctx context.Context, job event.ExamJob) error {
			return contentService.IngestExam(ctx, job)
		},
	)
	if err != nil {
		log.Fatalf("Failed to start job consumer: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	studentHandler := handlers.NewStudentHandler(studentService, userRepo)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	teacherHandler := handlers.NewTeacherHandler(teacherService)
	contentHandler := handlers.NewContentHandler(contentService)
	toolsHandler := handlers.NewToolsHandler(toolsService)
	adminHandler := handlers.NewAdminHandler(contentService, publisher, cfg.UploadDir)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", func(c *gin.Context) {
			authHandler.Register(c)
			publishEvent(c, publisher, "user.registered", nil)
		})
		auth.POST("/login", authHandler.Login)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTSecret))

	student := api.Group("/student")
	{
		student.GET("/me", studentHandler.Me)
		student.GET("/progress", studentHandler.Progress)
		student.GET("/assessment/next-question", func(c *gin.Context) {
			studentHandler.NextQuestion(c)
			publishEvent(c, publisher, "question.requested", gin.H{
				"profile_id": c.GetString(middleware.ContextProfileID),
			})
		})
		student.POST("/assessment/answer", func(c *gin.Context) {
			studentHandler.SubmitAnswer(c)
			publishEvent(c, publisher, "answer.submitted", gin.H{
				"profile_id": c.GetString(middleware.ContextProfileID),
			})
		})
		student.GET("/answers/:id/analysis", studentHandler.AnswerAnalysis)
	}

	api.POST("/onboarding/complete", onboardingHandler.Complete)

	teacher := api.Group("/teacher")
	teacher.Use(middleware.RequireRole(models.RoleTeacher))
	{
		teacher.GET("/dashboard", teacherHandler.Dashboard)
		teacher.GET("/students/:id", teacherHandler.StudentDetails)
	}

	tools := api.Group("/tools")
	{
		tools.POST("/grade-essay", toolsHandler.GradeEssay)
		tools.POST("/ask-tutor", toolsHandler.AskTutor)
		tools.POST("/summarize-content", toolsHandler.Summarize)
	}

	content := api.Group("/content")
	content.Use(middleware.RequireRole(models.RoleAdmin))
	{
		content.POST("/questions", contentHandler.CreateQuestion)
		content.GET("/questions/:id/similar", contentHandler.SimilarQuestions)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/exams/upload", adminHandler.UploadExam)
		admin.PUT("/questions/:id/answer-key", adminHandler.UpdateAnswerKey)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

type eventSink interface {
	Publish(eventType string, payload interface{}) error
}

// publishEvent emits the domain event only when the wrapped handler wrote a
// success response; rejected requests must not look like domain facts.
func publishEvent(c *gin.Context, sink eventSink, eventType string, payload interface{}) {
	if c.Writer.Status() >= 300 {
		return
	}
	if err := sink.Publish(eventType, payload); err != nil {
		log.Printf("Failed to publish %s: %v", eventType, err)
	}
}
