package dto

import (
	"time"

	"eshelf/internal/microservices/http-api/models"
)

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=15,username"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Avatar   *string `json:"avatar,omitempty"`
}

type ProfileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

func ProfileFromModel(u *models.User) ProfileResponse {
	return ProfileResponse{ID: u.ID, Username: u.Username, Email: u.Email, Avatar: u.Avatar, Role: u.Role}
}

// FavoritesResponse is returned by favorite add/remove.
type FavoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type BookmarksResponse struct {
	Bookmarks []string `json:"bookmarks"`
}

type ReadingProgressRequest struct {
	Progress *int `json:"progress" binding:"required,min=0,max=100"`
}

type ReadingHistoryResponse struct {
	Book     BookRef   `json:"book"`
	Progress int       `json:"progress"`
	LastRead time.Time `json:"last_read"`
}

type ToggleActiveResponse struct {
	IsActive bool `json:"is_active"`
}
