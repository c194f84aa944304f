package handler

import (
	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/service"
)

const bookReviewsPageSize = 10

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.GET("/book/:isbn", h.ListByBook)

	rg.GET("/my-reviews", guards.Auth, h.MyReviews)
	rg.POST("", guards.Auth, h.Create)
	rg.PUT("/:id", guards.Auth, h.Update)
	rg.DELETE("/:id", guards.Auth, h.Delete)
	rg.POST("/:id/like", guards.Auth, h.ToggleLike)
}

func (h *ReviewHandler) ListByBook(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, bookReviewsPageSize)
	reviews, total, stats, err := h.svc.ListByBook(ctx, c.Param("isbn"), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, dto.FromModelsToReviewResponses(reviews), page, total, stats)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	review, err := h.svc.Create(ctx, user.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, dto.FromModelToReviewResponse(review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	review, err := h.svc.Update(ctx, user, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, dto.FromModelToReviewResponse(review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	if err := h.svc.Delete(ctx, user, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, "review deleted")
}

func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	resp, err := h.svc.ToggleLike(ctx, user.ID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, resp)
}

func (h *ReviewHandler) MyReviews(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	reviews, err := h.svc.MyReviews(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, reviews)
}
