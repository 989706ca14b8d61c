package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/service"
	"github.com/eduai-companion/go-api/internal/utils"
	"github.com/eduai-companion/go-api/pkg/ai"
)

// LessonPlanHandler wires lesson plan HTTP routes.
type LessonPlanHandler struct {
	service service.LessonPlanService
	logger  zerolog.Logger
}

// NewLessonPlanHandler constructs the handler.
func NewLessonPlanHandler(service service.LessonPlanService, logger zerolog.Logger) *LessonPlanHandler {
	return &LessonPlanHandler{
		service: service,
		logger:  logger.With().Str("component", "lesson_plan_handler").Logger(),
	}
}

// Register attaches lesson plan endpoints to the router group.
func (h *LessonPlanHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/generate", h.generate)
	router.Delete("/:id", h.delete)
}

func (h *LessonPlanHandler) list(c *fiber.Ctx) error {
	courseID, err := parseQueryUintPtr(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	plans, err := h.service.List(c.Context(), courseID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "lesson plans retrieved", plans)
}

func (h *LessonPlanHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	plan, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson plan retrieved", plan)
}

func (h *LessonPlanHandler) generate(c *fiber.Ctx) error {
	var payload dto.LessonPlanGenerateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := h.service.Generate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson plan generated", plan)
}

func (h *LessonPlanHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson plan deleted", fiber.Map{"id": id})
}

func (h *LessonPlanHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var backendErr *ai.BackendError
	switch {
	case errors.Is(err, service.ErrLessonPlanNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson plan not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.As(err, &backendErr):
		h.logger.Error().Err(err).Msg("AI backend unavailable")
		return utils.SendError(c, fiber.StatusInternalServerError, "error generating lesson plan")
	default:
		return h.internalError(c, err)
	}
}

func (h *LessonPlanHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
