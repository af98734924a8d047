package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/pkg/serverutils"
	"ai-planner-be/internal/service"
)

type IScheduleController interface {
	RegisterRoutes(r fiber.Router)
	Daily(ctx *fiber.Ctx) error
	Weekly(ctx *fiber.Ctx) error
	Range(ctx *fiber.Ctx) error
	Statistics(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type scheduleController struct {
	plannerService service.IPlannerService
}

func NewScheduleController(plannerService service.IPlannerService) IScheduleController {
	return &scheduleController{
		plannerService: plannerService,
	}
}

func (c *scheduleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/schedule/v1")
	h.Get("statistics", c.Statistics)
	h.Get("export", c.Export)
	h.Get("range", c.Range)
	h.Get("daily/:date", c.Daily)
	h.Get("weekly/:week", c.Weekly)
}

func (c *scheduleController) Daily(ctx *fiber.Ctx) error {
	date := ctx.Params("date")

	res, err := c.plannerService.GetDailySchedule(ctx.Context(), date)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get daily schedule", res))
}

func (c *scheduleController) Weekly(ctx *fiber.Ctx) error {
	week, err := strconv.Atoi(ctx.Params("week"))
	if err != nil {
		return apperr.Validation("week must be a number, got %q", ctx.Params("week"))
	}

	res, err := c.plannerService.GetWeeklySchedule(ctx.Context(), week)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get weekly schedule", res))
}

func (c *scheduleController) Range(ctx *fiber.Ctx) error {
	start := ctx.Query("start")
	end := ctx.Query("end")
	if start == "" || end == "" {
		return apperr.Validation("query parameters start and end are required")
	}

	res, err := c.plannerService.GetScheduleRange(ctx.Context(), start, end)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get schedule range", res))
}

func (c *scheduleController) Statistics(ctx *fiber.Ctx) error {
	res, err := c.plannerService.GetStatistics(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get statistics", res))
}

func (c *scheduleController) Export(ctx *fiber.Ctx) error {
	res, err := c.plannerService.Export(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export planning document", res))
}
