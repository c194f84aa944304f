package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/service"
)

// requestTimeout bounds the store work of a single request.
const requestTimeout = 5 * time.Second

// Guards are the auth middlewares a route table attaches to its routes.
type Guards struct {
	Auth     gin.HandlerFunc
	Optional gin.HandlerFunc
	Admin    gin.HandlerFunc
}

// NewGuards builds the guards around one authenticator.
func NewGuards(authn middleware.Authenticator) Guards {
	return Guards{
		Auth:     middleware.AuthMiddleware(authn),
		Optional: middleware.OptionalAuth(authn),
		Admin:    middleware.RequireAdmin(),
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// currentUser returns the authenticated user or records ErrUnauthenticated.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(service.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

// pageFromQuery reads ?page and ?limit, ignoring values that do not parse.
func pageFromQuery(c *gin.Context, defaultLimit int) dto.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return dto.NewPageRequest(page, limit, defaultLimit)
}

func intQuery(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Data: data})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: msg})
}

func paged(c *gin.Context, data any, page dto.PageRequest, total int64, stats any) {
	c.JSON(http.StatusOK, dto.Envelope{
		Success:    true,
		Data:       data,
		Pagination: dto.NewPagination(page.Page, page.Limit, total),
		Stats:      stats,
	})
}
