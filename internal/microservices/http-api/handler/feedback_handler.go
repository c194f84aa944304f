package handler

import (
	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/microservices/http-api/service"
)

type FeedbackHandler struct {
	svc service.FeedbackService
}

func NewFeedbackHandler(svc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func (h *FeedbackHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.POST("", guards.Optional, h.Create)
	rg.GET("/my-feedback", guards.Auth, h.MyFeedback)

	rg.GET("", guards.Auth, guards.Admin, h.List)
	rg.PUT("/:id", guards.Auth, guards.Admin, h.Update)
	rg.DELETE("/:id", guards.Auth, guards.Admin, h.Delete)
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	f, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, f)
}

func (h *FeedbackHandler) MyFeedback(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	list, err := h.svc.MyFeedback(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, list)
}

func (h *FeedbackHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, dto.DefaultPageSize)
	filter := repository.FeedbackFilter{Status: c.Query("status"), ErrorType: c.Query("error_type")}

	list, total, counts, err := h.svc.List(ctx, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, list, page, total, counts)
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	admin, found := currentUser(c)
	if !found {
		return
	}
	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	f, err := h.svc.Update(ctx, admin, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, f)
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, "feedback deleted")
}
