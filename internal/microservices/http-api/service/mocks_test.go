package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	args := m.Called(ctx, username, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) AddToSet(ctx context.Context, userID string, set repository.UserSet, isbn string) (bool, error) {
	args := m.Called(ctx, userID, set, isbn)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveFromSet(ctx context.Context, userID string, set repository.UserSet, isbn string) (bool, error) {
	args := m.Called(ctx, userID, set, isbn)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpsertReadingHistory(ctx context.Context, entry *models.ReadingHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockUserRepository) ListReadingHistory(ctx context.Context, userID string) ([]models.ReadingHistory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ReadingHistory), args.Error(1)
}

func (m *MockUserRepository) DeleteReadingHistory(ctx context.Context, userID, isbn string) (bool, error) {
	args := m.Called(ctx, userID, isbn)
	return args.Bool(0), args.Error(1)
}

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(ctx context.Context, f repository.BookFilter, page, limit int) ([]models.Book, int64, error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) FindActive(ctx context.Context, isbn string) (*models.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) FindActiveByISBNs(ctx context.Context, isbns []string) ([]models.Book, error) {
	args := m.Called(ctx, isbns)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) FindRefs(ctx context.Context, isbns []string) (map[string]models.Book, error) {
	args := m.Called(ctx, isbns)
	return args.Get(0).(map[string]models.Book), args.Error(1)
}

func (m *MockBookRepository) Related(ctx context.Context, book *models.Book, limit int) ([]models.BookSummary, error) {
	args := m.Called(ctx, book, limit)
	return args.Get(0).([]models.BookSummary), args.Error(1)
}

func (m *MockBookRepository) IncrementView(ctx context.Context, isbn string) (*models.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) IncrementDownload(ctx context.Context, isbn string) (int64, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) AdjustFavoriteCount(ctx context.Context, isbn string, delta int) error {
	args := m.Called(ctx, isbn, delta)
	return args.Error(0)
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Save(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Deactivate(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) ListActive(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) Save(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) AdjustBookCounts(ctx context.Context, names []string, delta int) error {
	args := m.Called(ctx, names, delta)
	return args.Error(0)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) FindActive(ctx context.Context, id string) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Exists(ctx context.Context, isbn, userID string) (bool, error) {
	args := m.Called(ctx, isbn, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, isbn string, page, limit int) ([]models.Review, int64, error) {
	args := m.Called(ctx, isbn, page, limit)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) RecentByBook(ctx context.Context, isbn string, limit int) ([]models.Review, error) {
	args := m.Called(ctx, isbn, limit)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageByBook(ctx context.Context, isbn string) (float64, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) UpdateContent(ctx context.Context, id string, rating int, comment string) error {
	args := m.Called(ctx, id, rating, comment)
	return args.Error(0)
}

func (m *MockReviewRepository) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) AddLike(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) RemoveLike(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

// MockDonationRepository mocks the DonationRepository interface
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, d *models.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByTransactionID(ctx context.Context, txID string) (*models.Donation, error) {
	args := m.Called(ctx, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByUser(ctx context.Context, userID string) ([]models.Donation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Donation), args.Error(1)
}

func (m *MockDonationRepository) CompletedTotalByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDonationRepository) List(ctx context.Context, f repository.DonationFilter, page, limit int) ([]models.Donation, int64, error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).([]models.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *MockDonationRepository) CompletedTotalsByMethod(ctx context.Context) ([]repository.MethodTotal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.MethodTotal), args.Error(1)
}

func (m *MockDonationRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockFeedbackRepository mocks the FeedbackRepository interface
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFeedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) List(ctx context.Context, f repository.FeedbackFilter, page, limit int) ([]models.Feedback, int64, error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).([]models.Feedback), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeedbackRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockFeedbackRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
