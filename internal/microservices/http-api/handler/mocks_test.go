package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/microservices/http-api/service"
	"eshelf/internal/middleware/auth"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// MockBookService mocks the BookService interface
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context, q service.BookQuery, page dto.PageRequest) ([]models.Book, int64, error) {
	args := m.Called(ctx, q, page)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookService) Search(ctx context.Context, query string, genres []string, sort string, page dto.PageRequest) ([]models.Book, int64, error) {
	args := m.Called(ctx, query, genres, sort, page)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookService) ByGenre(ctx context.Context, nameOrSlug string, page dto.PageRequest) ([]models.Book, int64, error) {
	args := m.Called(ctx, nameOrSlug, page)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookService) GetByISBN(ctx context.Context, isbn string) (*dto.BookDetailResponse, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookDetailResponse), args.Error(1)
}

func (m *MockBookService) Related(ctx context.Context, isbn string, limit int) ([]models.BookSummary, error) {
	args := m.Called(ctx, isbn, limit)
	return args.Get(0).([]models.BookSummary), args.Error(1)
}

func (m *MockBookService) Download(ctx context.Context, isbn string) (int64, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, req dto.CreateBookDTO) (*models.Book, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, isbn string, req dto.UpdateBookDTO) (*models.Book, error) {
	args := m.Called(ctx, isbn, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}

// MockGenreService mocks the GenreService interface
type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context) ([]dto.GenreResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.GenreResponse), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*models.Genre, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Update(ctx context.Context, slug string, req dto.UpdateGenreDTO) (*models.Genre, error) {
	args := m.Called(ctx, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) ResolveName(ctx context.Context, nameOrSlug string) (string, error) {
	args := m.Called(ctx, nameOrSlug)
	return args.String(0), args.Error(1)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Favorites(ctx context.Context, userID string) ([]models.Book, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockUserService) AddFavorite(ctx context.Context, userID, isbn string) ([]string, error) {
	args := m.Called(ctx, userID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) RemoveFavorite(ctx context.Context, userID, isbn string) ([]string, error) {
	args := m.Called(ctx, userID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) Bookmarks(ctx context.Context, userID string) ([]models.Book, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockUserService) AddBookmark(ctx context.Context, userID, isbn string) ([]string, error) {
	args := m.Called(ctx, userID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) RemoveBookmark(ctx context.Context, userID, isbn string) ([]string, error) {
	args := m.Called(ctx, userID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) ReadingHistory(ctx context.Context, userID string) ([]dto.ReadingHistoryResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.ReadingHistoryResponse), args.Error(1)
}

func (m *MockUserService) UpdateReadingProgress(ctx context.Context, userID, isbn string, progress int) (*models.ReadingHistory, error) {
	args := m.Called(ctx, userID, isbn, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingHistory), args.Error(1)
}

func (m *MockUserService) RemoveReadingHistory(ctx context.Context, userID, isbn string) error {
	args := m.Called(ctx, userID, isbn)
	return args.Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, page dto.PageRequest) ([]models.User, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) ToggleActive(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByBook(ctx context.Context, isbn string, page dto.PageRequest) ([]models.Review, int64, dto.ReviewStats, error) {
	args := m.Called(ctx, isbn, page)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Get(2).(dto.ReviewStats), args.Error(3)
}

func (m *MockReviewService) Create(ctx context.Context, userID string, req dto.CreateReviewDTO) (*models.Review, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, user *models.User, id string, req dto.UpdateReviewDTO) (*models.Review, error) {
	args := m.Called(ctx, user, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, user *models.User, id string) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func (m *MockReviewService) ToggleLike(ctx context.Context, userID, id string) (dto.LikeResponse, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(dto.LikeResponse), args.Error(1)
}

func (m *MockReviewService) MyReviews(ctx context.Context, userID string) ([]dto.MyReviewResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.MyReviewResponse), args.Error(1)
}

// MockDonationService mocks the DonationService interface
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) Create(ctx context.Context, who auth.Identity, req dto.CreateDonationRequest) (*models.Donation, error) {
	args := m.Called(ctx, who, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationService) Status(ctx context.Context, transactionID string) (*models.Donation, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationService) MyDonations(ctx context.Context, userID string) ([]models.Donation, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationService) List(ctx context.Context, f repository.DonationFilter, page dto.PageRequest) ([]models.Donation, int64, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]models.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationService) Stats(ctx context.Context) (dto.DonationStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.DonationStats), args.Error(1)
}

func (m *MockDonationService) Update(ctx context.Context, id string, req dto.UpdateDonationRequest) (*models.Donation, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

// MockFeedbackService mocks the FeedbackService interface
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Create(ctx context.Context, who auth.Identity, req dto.CreateFeedbackRequest) (*models.Feedback, error) {
	args := m.Called(ctx, who, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) MyFeedback(ctx context.Context, userID string) ([]models.Feedback, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) List(ctx context.Context, f repository.FeedbackFilter, page dto.PageRequest) ([]models.Feedback, int64, map[string]int64, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]models.Feedback), args.Get(1).(int64), args.Get(2).(map[string]int64), args.Error(3)
}

func (m *MockFeedbackService) Update(ctx context.Context, admin *models.User, id string, req dto.UpdateFeedbackRequest) (*models.Feedback, error) {
	args := m.Called(ctx, admin, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
