package service

import (
	"context"
	"strings"
	"time"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
)

type UserService interface {
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error)

	Favorites(ctx context.Context, userID string) ([]models.Book, error)
	AddFavorite(ctx context.Context, userID, isbn string) ([]string, error)
	RemoveFavorite(ctx context.Context, userID, isbn string) ([]string, error)

	Bookmarks(ctx context.Context, userID string) ([]models.Book, error)
	AddBookmark(ctx context.Context, userID, isbn string) ([]string, error)
	RemoveBookmark(ctx context.Context, userID, isbn string) ([]string, error)

	ReadingHistory(ctx context.Context, userID string) ([]dto.ReadingHistoryResponse, error)
	UpdateReadingProgress(ctx context.Context, userID, isbn string, progress int) (*models.ReadingHistory, error)
	RemoveReadingHistory(ctx context.Context, userID, isbn string) error

	ListUsers(ctx context.Context, page dto.PageRequest) ([]models.User, int64, error)
	ToggleActive(ctx context.Context, userID string) (bool, error)
}

type userService struct {
	users repository.UserRepository
	books repository.BookRepository
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, books repository.BookRepository) UserService {
	return &userService{users: users, books: books, now: time.Now}
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}

	fields := map[string]any{}
	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, *req.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrNameInUse
		}
		fields["username"] = *req.Username
		user.Username = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.users.EmailTaken(ctx, email, userID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailInUse
			}
			fields["email"] = email
			user.Email = email
		}
	}
	if req.Avatar != nil {
		avatar := strings.TrimSpace(*req.Avatar)
		if avatar == "" {
			avatar = models.DefaultAvatar
		}
		fields["avatar"] = avatar
		user.Avatar = avatar
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			return nil, notFound(err, ErrAccountNotFound)
		}
	}
	return user.Sanitized(), nil
}

func (s *userService) Favorites(ctx context.Context, userID string) ([]models.Book, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return s.books.FindActiveByISBNs(ctx, user.Favorites)
}

// AddFavorite adds isbn to the favorite set and counts it on the book.
// A duplicate add fails without touching either.
func (s *userService) AddFavorite(ctx context.Context, userID, isbn string) ([]string, error) {
	if _, err := s.books.FindActive(ctx, isbn); err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	added, err := s.users.AddToSet(ctx, userID, repository.FavoritesSet, isbn)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyFavorite
	}
	if err := s.books.AdjustFavoriteCount(ctx, isbn, 1); err != nil {
		return nil, err
	}
	return s.set(ctx, userID, repository.FavoritesSet)
}

func (s *userService) RemoveFavorite(ctx context.Context, userID, isbn string) ([]string, error) {
	removed, err := s.users.RemoveFromSet(ctx, userID, repository.FavoritesSet, isbn)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotFavorite
	}
	if err := s.books.AdjustFavoriteCount(ctx, isbn, -1); err != nil {
		return nil, err
	}
	return s.set(ctx, userID, repository.FavoritesSet)
}

func (s *userService) Bookmarks(ctx context.Context, userID string) ([]models.Book, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return s.books.FindActiveByISBNs(ctx, user.Bookmarks)
}

func (s *userService) AddBookmark(ctx context.Context, userID, isbn string) ([]string, error) {
	if _, err := s.books.FindActive(ctx, isbn); err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	added, err := s.users.AddToSet(ctx, userID, repository.BookmarksSet, isbn)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyBookmarked
	}
	return s.set(ctx, userID, repository.BookmarksSet)
}

func (s *userService) RemoveBookmark(ctx context.Context, userID, isbn string) ([]string, error) {
	removed, err := s.users.RemoveFromSet(ctx, userID, repository.BookmarksSet, isbn)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotBookmarked
	}
	return s.set(ctx, userID, repository.BookmarksSet)
}

func (s *userService) set(ctx context.Context, userID string, set repository.UserSet) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	var members []string
	if set == repository.BookmarksSet {
		members = user.Bookmarks
	} else {
		members = user.Favorites
	}
	if members == nil {
		members = []string{}
	}
	return members, nil
}

func (s *userService) ReadingHistory(ctx context.Context, userID string) ([]dto.ReadingHistoryResponse, error) {
	entries, err := s.users.ListReadingHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	isbns := make([]string, 0, len(entries))
	for _, e := range entries {
		isbns = append(isbns, e.BookISBN)
	}
	refs, err := s.books.FindRefs(ctx, isbns)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReadingHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ReadingHistoryResponse{
			Book:     bookRef(e.BookISBN, refs),
			Progress: e.Progress,
			LastRead: e.LastRead,
		})
	}
	return out, nil
}

func (s *userService) UpdateReadingProgress(ctx context.Context, userID, isbn string, progress int) (*models.ReadingHistory, error) {
	if progress < 0 || progress > 100 {
		return nil, validationf("progress must be between 0 and 100")
	}
	if _, err := s.books.FindByISBN(ctx, isbn); err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}

	now := s.now()
	entry := &models.ReadingHistory{
		UserID:    userID,
		BookISBN:  isbn,
		Progress:  progress,
		LastRead:  now,
		CreatedAt: now,
	}
	if err := s.users.UpsertReadingHistory(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *userService) RemoveReadingHistory(ctx context.Context, userID, isbn string) error {
	removed, err := s.users.DeleteReadingHistory(ctx, userID, isbn)
	if err != nil {
		return err
	}
	if !removed {
		return ErrHistoryNotFound
	}
	return nil
}

func (s *userService) ListUsers(ctx context.Context, page dto.PageRequest) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, page.Page, page.Limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i] = *users[i].Sanitized()
	}
	return users, total, nil
}

func (s *userService) ToggleActive(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, notFound(err, ErrAccountNotFound)
	}
	active := !user.IsActive
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"is_active": active}); err != nil {
		return false, notFound(err, ErrAccountNotFound)
	}
	return active, nil
}
