package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/microservices/http-api/service"
)

type DonationHandler struct {
	svc service.DonationService
}

func NewDonationHandler(svc service.DonationService) *DonationHandler {
	return &DonationHandler{svc: svc}
}

func (h *DonationHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.POST("", guards.Optional, h.Create)
	rg.GET("/status/:transactionId", h.Status)

	rg.GET("/my-donations", guards.Auth, h.MyDonations)

	rg.GET("", guards.Auth, guards.Admin, h.List)
	rg.PUT("/:id", guards.Auth, guards.Admin, h.Update)
}

func (h *DonationHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	d, err := h.svc.Create(ctx, middleware.IdentityFrom(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Message: "thank you for your donation",
		Data: dto.DonationReceipt{
			TransactionID: d.TransactionID,
			Amount:        d.Amount,
			Status:        d.Status,
			Method:        d.Method,
		},
	})
}

func (h *DonationHandler) Status(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.svc.Status(ctx, c.Param("transactionId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, dto.DonationStatusResponse{
		TransactionID: d.TransactionID,
		Amount:        d.Amount,
		Status:        d.Status,
		Method:        d.Method,
		CreatedAt:     d.CreatedAt.Format(time.RFC3339),
	})
}

func (h *DonationHandler) MyDonations(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	list, total, err := h.svc.MyDonations(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    list,
		Stats:   dto.MyDonationStats{TotalDonated: total},
	})
}

func (h *DonationHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, dto.DefaultPageSize)
	filter := repository.DonationFilter{Status: c.Query("status"), Method: c.Query("method")}

	list, total, err := h.svc.List(ctx, filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, list, page, total, stats)
}

func (h *DonationHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	d, err := h.svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, d)
}
