package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/mapper"
	"ai-planner-be/internal/pkg/serverutils"
	"ai-planner-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Profile(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService   service.IChatService
	memoryService service.IMemoryService
	chatMapper    *mapper.ChatMapper
}

func NewChatController(chatService service.IChatService, memoryService service.IMemoryService) IChatController {
	return &chatController{
		chatService:   chatService,
		memoryService: memoryService,
		chatMapper:    mapper.NewChatMapper(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.Send)
	h.Get("history", c.History)
	h.Get("search", c.Search)
	h.Get("stats", c.Stats)
	h.Get("profile", c.Profile)
	h.Delete("session", c.ClearSession)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	res := c.memoryService.RecentContext(ctx.Context(), limit)
	return ctx.JSON(serverutils.SuccessResponse("Success get history", c.chatMapper.ToHistoryItems(res)))
}

func (c *chatController) Search(ctx *fiber.Ctx) error {
	keyword := ctx.Query("q")
	if keyword == "" {
		return apperr.Validation("query parameter q is required")
	}
	limit, _ := strconv.Atoi(ctx.Query("limit", "5"))

	res := c.memoryService.SearchHistory(ctx.Context(), keyword, limit)
	return ctx.JSON(serverutils.SuccessResponse("Success search history", c.chatMapper.ToHistoryItems(res)))
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	res := c.memoryService.Stats(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get memory stats", res))
}

func (c *chatController) Profile(ctx *fiber.Ctx) error {
	res := c.memoryService.Profile(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get user profile", res))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	if err := c.memoryService.ClearSession(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}
