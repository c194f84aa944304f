package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterRoutes mounts the user routes; all of them require a signed-in user.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.Use(guards.Auth)

	rg.PUT("/profile", h.UpdateProfile)

	rg.GET("/favorites", h.Favorites)
	rg.POST("/favorites/:isbn", h.AddFavorite)
	rg.DELETE("/favorites/:isbn", h.RemoveFavorite)

	rg.GET("/bookmarks", h.Bookmarks)
	rg.POST("/bookmarks/:isbn", h.AddBookmark)
	rg.DELETE("/bookmarks/:isbn", h.RemoveBookmark)

	rg.GET("/reading-history", h.ReadingHistory)
	rg.POST("/reading-history/:isbn", h.UpdateReadingProgress)
	rg.DELETE("/reading-history/:isbn", h.RemoveReadingHistory)

	rg.GET("", guards.Admin, h.List)
	rg.PUT("/:id/toggle-active", guards.Admin, h.ToggleActive)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	updated, err := h.svc.UpdateProfile(ctx, user.ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, dto.ProfileFromModel(updated))
}

func (h *UserHandler) Favorites(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	books, err := h.svc.Favorites(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, books)
}

func (h *UserHandler) AddFavorite(c *gin.Context) {
	h.mutateSet(c, h.svc.AddFavorite, "book added to favorites", favorites)
}

func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	h.mutateSet(c, h.svc.RemoveFavorite, "book removed from favorites", favorites)
}

func (h *UserHandler) Bookmarks(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	books, err := h.svc.Bookmarks(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, books)
}

func (h *UserHandler) AddBookmark(c *gin.Context) {
	h.mutateSet(c, h.svc.AddBookmark, "book bookmarked", bookmarks)
}

func (h *UserHandler) RemoveBookmark(c *gin.Context) {
	h.mutateSet(c, h.svc.RemoveBookmark, "bookmark removed", bookmarks)
}

type setMutation func(ctx context.Context, userID, isbn string) ([]string, error)

func favorites(members []string) any { return dto.FavoritesResponse{Favorites: members} }
func bookmarks(members []string) any { return dto.BookmarksResponse{Bookmarks: members} }

func (h *UserHandler) mutateSet(c *gin.Context, mutate setMutation, msg string, wrap func([]string) any) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	members, err := mutate(ctx, user.ID, c.Param("isbn"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: msg, Data: wrap(members)})
}

func (h *UserHandler) ReadingHistory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	history, err := h.svc.ReadingHistory(ctx, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, history)
}

func (h *UserHandler) UpdateReadingProgress(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	var req dto.ReadingProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	entry, err := h.svc.UpdateReadingProgress(ctx, user.ID, c.Param("isbn"), *req.Progress)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, entry)
}

func (h *UserHandler) RemoveReadingHistory(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, found := currentUser(c)
	if !found {
		return
	}
	if err := h.svc.RemoveReadingHistory(ctx, user.ID, c.Param("isbn")); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, "removed from reading history")
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, dto.DefaultPageSize)
	users, total, err := h.svc.ListUsers(ctx, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, users, page, total, nil)
}

func (h *UserHandler) ToggleActive(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	active, err := h.svc.ToggleActive(ctx, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, dto.ToggleActiveResponse{IsActive: active})
}
