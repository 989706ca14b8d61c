package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eduai-companion/go-api/internal/config"
	"github.com/eduai-companion/go-api/internal/database"
	"github.com/eduai-companion/go-api/internal/handler"
	"github.com/eduai-companion/go-api/internal/middleware"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
	"github.com/eduai-companion/go-api/internal/router"
	"github.com/eduai-companion/go-api/internal/service"
	"github.com/eduai-companion/go-api/internal/worker"
	"github.com/eduai-companion/go-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Course{},
		&models.Assignment{},
		&models.Submission{},
		&models.LessonPlan{},
		&models.Quiz{},
		&models.QuizAttempt{},
		&models.StudentProgress{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	aiClient, err := ai.NewClient(ai.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
		Timeout: cfg.OllamaTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create AI client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	lessonPlanRepo := repository.NewLessonPlanRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	var events service.EventPublisher
	if natsConn != nil {
		events = natsConn
	}

	gradingService := service.NewGradingService(submissionRepo, assignmentRepo, aiClient, events, logger)

	queue := worker.NewGradingQueue(gradingService, cfg.GradingWorkers, cfg.GradingQueueSize, logger)
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	queue.Start(queueCtx)

	studentService := service.NewStudentService(studentRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, aiClient, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, queue, validate, logger)
	quizService := service.NewQuizService(quizRepo, courseRepo, studentRepo, aiClient, validate, logger)
	lessonPlanService := service.NewLessonPlanService(lessonPlanRepo, courseRepo, aiClient, validate, logger)
	progressService := service.NewProgressService(studentRepo, submissionRepo, quizRepo, assignmentRepo, redisClient, cfg.ProgressCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    handler.NewStudentHandler(studentService, progressService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, gradingService, logger),
		QuizHandler:       handler.NewQuizHandler(quizService, logger),
		LessonPlanHandler: handler.NewLessonPlanHandler(lessonPlanService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, queue)
}

func waitForShutdown(app *fiber.App, queue *worker.GradingQueue) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// Let in-flight grading finish before the process exits.
	if err := queue.Shutdown(ctx); err != nil {
		log.Printf("grading queue drain failed: %v", err)
	}

	log.Println("server stopped")
}
