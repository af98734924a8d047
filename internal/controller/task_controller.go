package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/pkg/serverutils"
	"ai-planner-be/internal/service"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	CreateDaily(ctx *fiber.Ctx) error
	UpdateDaily(ctx *fiber.Ctx) error
	DeleteDaily(ctx *fiber.Ctx) error
	CreateWeekly(ctx *fiber.Ctx) error
	UpdateWeekly(ctx *fiber.Ctx) error
	DeleteWeekly(ctx *fiber.Ctx) error
}

type taskController struct {
	plannerService service.IPlannerService
}

func NewTaskController(plannerService service.IPlannerService) ITaskController {
	return &taskController{
		plannerService: plannerService,
	}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/task/v1")
	h.Post("daily", c.CreateDaily)
	h.Put("daily", c.UpdateDaily)
	h.Delete("daily", c.DeleteDaily)
	h.Post("weekly", c.CreateWeekly)
	h.Put("weekly", c.UpdateWeekly)
	h.Delete("weekly", c.DeleteWeekly)
}

// createDailyResponse pairs the stored task with what the conflict policy
// did to it, so clients can tell the user when a window moved.
type createDailyResponse struct {
	Task    interface{} `json:"task"`
	Outcome string      `json:"outcome"`
}

func (c *taskController) CreateDaily(ctx *fiber.Ctx) error {
	var req dto.CreateDailyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	task, outcome, err := c.plannerService.AddDailyTask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create daily task", createDailyResponse{
		Task:    task,
		Outcome: outcome,
	}))
}

func (c *taskController) UpdateDaily(ctx *fiber.Ctx) error {
	var req dto.UpdateDailyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	task, outcome, err := c.plannerService.UpdateDailyTask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update daily task", createDailyResponse{
		Task:    task,
		Outcome: outcome,
	}))
}

func (c *taskController) DeleteDaily(ctx *fiber.Ctx) error {
	var req dto.RemoveDailyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.plannerService.RemoveDailyTask(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete daily task", nil))
}

func (c *taskController) CreateWeekly(ctx *fiber.Ctx) error {
	var req dto.CreateWeeklyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	task, err := c.plannerService.AddWeeklyTask(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create weekly task", task))
}

func (c *taskController) UpdateWeekly(ctx *fiber.Ctx) error {
	var req dto.UpdateWeeklyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	task, err := c.plannerService.UpdateWeeklyTask(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update weekly task", task))
}

func (c *taskController) DeleteWeekly(ctx *fiber.Ctx) error {
	var req dto.RemoveWeeklyTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.plannerService.RemoveWeeklyTask(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete weekly task", nil))
}
