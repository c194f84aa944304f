package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/service"
)

type BookHandler struct {
	books  service.BookService
	genres service.GenreService
}

func NewBookHandler(books service.BookService, genres service.GenreService) *BookHandler {
	return &BookHandler{books: books, genres: genres}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/genres", h.ListGenres)
	rg.GET("/genre/:name", h.ByGenre)
	rg.GET("/:isbn", h.Get)
	rg.GET("/:isbn/related", h.Related)
	rg.POST("/:isbn/download", h.Download)

	// Admin-only routes
	rg.POST("", guards.Auth, guards.Admin, h.Create)
	rg.PUT("/:isbn", guards.Auth, guards.Admin, h.Update)
	rg.DELETE("/:isbn", guards.Auth, guards.Admin, h.Delete)
	rg.POST("/genres", guards.Auth, guards.Admin, h.CreateGenre)
	rg.PUT("/genres/:slug", guards.Auth, guards.Admin, h.UpdateGenre)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	q := service.BookQuery{
		Keyword:  c.Query("keyword"),
		Genre:    c.Query("genre"),
		YearFrom: intQuery(c, "year_from"),
		YearTo:   intQuery(c, "year_to"),
		Language: c.Query("language"),
		Sort:     c.Query("sort"),
	}
	if raw := c.Query("genres"); raw != "" {
		q.Genres = splitList(raw, ",")
	}

	page := pageFromQuery(c, dto.DefaultPageSize)
	books, total, err := h.books.List(ctx, q, page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, books, page, total, nil)
}

func (h *BookHandler) Search(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, dto.DefaultPageSize)
	books, total, err := h.books.Search(ctx, c.Query("q"), searchGenres(c.Request.URL.RawQuery), c.Query("sort"), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, books, page, total, nil)
}

func (h *BookHandler) ListGenres(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	genres, err := h.genres.List(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, genres)
}

func (h *BookHandler) ByGenre(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageFromQuery(c, dto.DefaultPageSize)
	books, total, err := h.books.ByGenre(ctx, c.Param("name"), page)
	if err != nil {
		_ = c.Error(err)
		return
	}
	paged(c, books, page, total, nil)
}

func (h *BookHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := h.books.GetByISBN(ctx, c.Param("isbn"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, detail)
}

func (h *BookHandler) Related(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	limit, _ := strconv.Atoi(c.Query("limit"))
	related, err := h.books.Related(ctx, c.Param("isbn"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, related)
}

func (h *BookHandler) Download(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.books.Download(ctx, c.Param("isbn"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, dto.DownloadResponse{DownloadCount: count})
}

func (h *BookHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	book, err := h.books.Create(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, book)
}

func (h *BookHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	book, err := h.books.Update(ctx, c.Param("isbn"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, book)
}

func (h *BookHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.books.Delete(ctx, c.Param("isbn")); err != nil {
		_ = c.Error(err)
		return
	}
	message(c, "book deleted")
}

func (h *BookHandler) CreateGenre(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	genre, err := h.genres.Create(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	created(c, genre)
}

func (h *BookHandler) UpdateGenre(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateGenreDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	genre, err := h.genres.Update(ctx, c.Param("slug"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, genre)
}

// searchGenres reads ?genre= from the raw query so that a literal "+"
// separates names instead of decoding to a space.
func searchGenres(rawQuery string) []string {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key != "genre" || value == "" {
			continue
		}
		var out []string
		for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == '+' || r == ',' }) {
			if name, err := url.PathUnescape(part); err == nil {
				out = append(out, name)
			}
		}
		return splitList(strings.Join(out, ","), ",")
	}
	return nil
}

func splitList(raw, sep string) []string {
	var out []string
	for _, s := range strings.Split(raw, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
