package controller

import (
	"notebook-be/internal/dto"
	"notebook-be/internal/pkg/apperror"
	"notebook-be/internal/pkg/serverutils"
	"notebook-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListSteps(ctx *fiber.Ctx) error
	AddStep(ctx *fiber.Ctx) error
	ReorderSteps(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebooks")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Get("/:id/steps", c.ListSteps)
	h.Post("/:id/steps", c.AddStep)
	h.Put("/:id/steps/order", c.ReorderSteps)
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Wrap(apperror.Validation, "invalid request body", err)
	}
	return serverutils.ValidateRequest(out)
}

func (c *notebookController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all notebooks", res))
}

func (c *notebookController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNotebookRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create notebook", res))
}

func (c *notebookController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show notebook", res))
}

func (c *notebookController) ListSteps(ctx *fiber.Ctx) error {
	res, err := c.service.ListSteps(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notebook steps", res))
}

func (c *notebookController) AddStep(ctx *fiber.Ctx) error {
	var req dto.CreateNotebookStepRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AddStep(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success add notebook step", res))
}

func (c *notebookController) ReorderSteps(ctx *fiber.Ctx) error {
	var req dto.ReorderStepsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ReorderSteps(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reorder notebook steps", res))
}
