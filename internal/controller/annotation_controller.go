package controller

import (
	"net/url"
	"strings"

	"video-annotate/internal/dto"
	"video-annotate/internal/pkg/serverutils"
	"video-annotate/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnnotationController interface {
	RegisterRoutes(r fiber.Router)
	Matching(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type annotationController struct {
	service service.IAnnotationService
}

func NewAnnotationController(service service.IAnnotationService) IAnnotationController {
	return &annotationController{service: service}
}

func (c *annotationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/annotation/v1")
	h.Get("/matching/:userName", c.Matching)
	h.Get("/stats", c.Stats)
	h.Post("/share", c.Share)
	h.Delete("/:id", c.Delete)
}

func (c *annotationController) Matching(ctx *fiber.Ctx) error {
	userName, err := url.PathUnescape(ctx.Params("userName"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid userName")
	}
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return serverutils.NewBadRequestError("userName is required")
	}

	res, err := c.service.Matching(ctx.UserContext(), userName)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending annotations", res))
}

func (c *annotationController) Delete(ctx *fiber.Ctx) error {
	res, err := c.service.Acknowledge(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Annotation acknowledged", res))
}

func (c *annotationController) Share(ctx *fiber.Ctx) error {
	var req dto.ShareAnnotationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError(err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Share(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Annotation shared", res))
}

func (c *annotationController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Annotation stats", res))
}
