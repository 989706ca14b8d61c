package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduai-companion/go-api/internal/config"
	"github.com/eduai-companion/go-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler    *handler.StudentHandler
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	QuizHandler       *handler.QuizHandler
	LessonPlanHandler *handler.LessonPlanHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/students"))
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses"))
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments")

		// Submissions register first so /assignments/submissions is not
		// captured by the /assignments/:id parameter route.
		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.Register(assignments.Group("/submissions"))
		}

		deps.AssignmentHandler.Register(assignments)
	}

	if deps.QuizHandler != nil {
		deps.QuizHandler.Register(api.Group("/quizzes"))
	}

	if deps.LessonPlanHandler != nil {
		deps.LessonPlanHandler.Register(api.Group("/lesson-plans"))
	}
}
