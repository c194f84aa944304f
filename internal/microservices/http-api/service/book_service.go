package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/repository"
	"eshelf/internal/textnorm"
)

const (
	detailReviewLimit   = 10
	defaultRelatedLimit = 12
	maxRelatedLimit     = 50
)

// BookQuery holds the raw list filters taken from the request.
type BookQuery struct {
	Keyword  string
	Genre    string
	Genres   []string
	YearFrom *int
	YearTo   *int
	Language string
	Sort     string
}

type BookService interface {
	List(ctx context.Context, q BookQuery, page dto.PageRequest) ([]models.Book, int64, error)
	// Search matches the whitespace-stripped folded query against title,
	// authors and publisher, most viewed first.
	Search(ctx context.Context, query string, genres []string, sort string, page dto.PageRequest) ([]models.Book, int64, error)
	ByGenre(ctx context.Context, nameOrSlug string, page dto.PageRequest) ([]models.Book, int64, error)
	// GetByISBN counts a view and returns the book with its latest reviews.
	GetByISBN(ctx context.Context, isbn string) (*dto.BookDetailResponse, error)
	Related(ctx context.Context, isbn string, limit int) ([]models.BookSummary, error)
	Download(ctx context.Context, isbn string) (int64, error)
	Create(ctx context.Context, req dto.CreateBookDTO) (*models.Book, error)
	Update(ctx context.Context, isbn string, req dto.UpdateBookDTO) (*models.Book, error)
	Delete(ctx context.Context, isbn string) error
}

type bookService struct {
	books   repository.BookRepository
	reviews repository.ReviewRepository
	genres  repository.GenreRepository
	genreSv GenreService
	cache   Cache
}

func NewBookService(books repository.BookRepository, reviews repository.ReviewRepository, genres repository.GenreRepository, cache Cache) BookService {
	if cache == nil {
		cache = NoCache
	}
	return &bookService{
		books:   books,
		reviews: reviews,
		genres:  genres,
		genreSv: NewGenreService(genres, cache),
		cache:   cache,
	}
}

func (s *bookService) List(ctx context.Context, q BookQuery, page dto.PageRequest) ([]models.Book, int64, error) {
	f := repository.BookFilter{
		Keyword:  textnorm.Keyword(q.Keyword),
		YearFrom: q.YearFrom,
		YearTo:   q.YearTo,
		Language: strings.TrimSpace(q.Language),
		Sort:     q.Sort,
	}
	switch {
	case len(q.Genres) > 0:
		f.Genres = q.Genres
	case q.Genre != "":
		f.Genres = []string{q.Genre}
	}
	return s.books.List(ctx, f, page.Page, page.Limit)
}

func (s *bookService) Search(ctx context.Context, query string, genres []string, sort string, page dto.PageRequest) ([]models.Book, int64, error) {
	if sort == "" {
		sort = repository.SortSearch
	}
	f := repository.BookFilter{
		Compact: textnorm.Compact(query),
		Genres:  genres,
		Sort:    sort,
	}
	return s.books.List(ctx, f, page.Page, page.Limit)
}

func (s *bookService) ByGenre(ctx context.Context, nameOrSlug string, page dto.PageRequest) ([]models.Book, int64, error) {
	name, err := s.genreSv.ResolveName(ctx, nameOrSlug)
	if err != nil {
		return nil, 0, err
	}
	f := repository.BookFilter{Genres: []string{name}, Sort: repository.SortPopular}
	return s.books.List(ctx, f, page.Page, page.Limit)
}

func (s *bookService) GetByISBN(ctx context.Context, isbn string) (*dto.BookDetailResponse, error) {
	book, err := s.books.IncrementView(ctx, isbn)
	if err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	reviews, err := s.reviews.RecentByBook(ctx, isbn, detailReviewLimit)
	if err != nil {
		return nil, err
	}
	return &dto.BookDetailResponse{Book: *book, Reviews: dto.FromModelsToReviewResponses(reviews)}, nil
}

func (s *bookService) Related(ctx context.Context, isbn string, limit int) ([]models.BookSummary, error) {
	if limit < 1 {
		limit = defaultRelatedLimit
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	key := relatedCacheKey(isbn, limit)
	var cached []models.BookSummary
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	book, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	related, err := s.books.Related(ctx, book, limit)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, related)
	return related, nil
}

func (s *bookService) Download(ctx context.Context, isbn string) (int64, error) {
	count, err := s.books.IncrementDownload(ctx, isbn)
	if err != nil {
		return 0, notFound(err, ErrBookNotFound)
	}
	return count, nil
}

func (s *bookService) Create(ctx context.Context, req dto.CreateBookDTO) (*models.Book, error) {
	book := req.ToModel()
	if book.ISBN == "" {
		return nil, validationf("isbn is required")
	}
	if _, err := s.books.FindByISBN(ctx, book.ISBN); err == nil {
		return nil, ErrISBNInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.books.Create(ctx, &book); err != nil {
		return nil, err
	}
	if err := s.genres.AdjustBookCounts(ctx, book.Genres, 1); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, genresCacheKey)
	s.cache.DeletePrefix(ctx, relatedCachePrefix)
	return &book, nil
}

func (s *bookService) Update(ctx context.Context, isbn string, req dto.UpdateBookDTO) (*models.Book, error) {
	book, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, notFound(err, ErrBookNotFound)
	}
	before := append([]string(nil), book.Genres...)
	wasActive := book.IsActive

	req.ApplyTo(book)
	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}

	// only active books are counted
	var removed, added []string
	switch {
	case wasActive && book.IsActive:
		removed, added = diffGenres(before, book.Genres)
	case wasActive:
		removed = before
	case book.IsActive:
		added = book.Genres
	}
	if err := s.genres.AdjustBookCounts(ctx, removed, -1); err != nil {
		return nil, err
	}
	if err := s.genres.AdjustBookCounts(ctx, added, 1); err != nil {
		return nil, err
	}
	if len(removed)+len(added) > 0 {
		s.cache.Delete(ctx, genresCacheKey)
	}
	s.cache.DeletePrefix(ctx, relatedCachePrefix)
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, isbn string) error {
	book, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		return notFound(err, ErrBookNotFound)
	}
	if !book.IsActive {
		return nil
	}
	if err := s.books.Deactivate(ctx, isbn); err != nil {
		return notFound(err, ErrBookNotFound)
	}
	if err := s.genres.AdjustBookCounts(ctx, book.Genres, -1); err != nil {
		return err
	}
	s.cache.Delete(ctx, genresCacheKey)
	s.cache.DeletePrefix(ctx, relatedCachePrefix)
	return nil
}

// diffGenres returns the names only in before and the names only in after.
func diffGenres(before, after []string) (removed, added []string) {
	inBefore := make(map[string]bool, len(before))
	for _, g := range before {
		inBefore[g] = true
	}
	inAfter := make(map[string]bool, len(after))
	for _, g := range after {
		inAfter[g] = true
		if !inBefore[g] {
			added = append(added, g)
		}
	}
	for _, g := range before {
		if !inAfter[g] {
			removed = append(removed, g)
		}
	}
	return removed, added
}
