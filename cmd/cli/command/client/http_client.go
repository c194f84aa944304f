package client

// http_client.go talks to the eShelf API (directly or through the gateway).

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer carrying the envelope message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Pagination *dto.Pagination
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
	Stats      json.RawMessage `json:"stats"`
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// send performs the request and decodes the envelope. raw receives the
// whole body when the endpoint does not answer with an envelope.
func (c *HTTPClient) send(ctx context.Context, method, path string, query url.Values, body any) (*envelope, []byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, raw, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return nil, raw, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, raw, nil
}

// call decodes the envelope's data into out when out is not nil.
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body, out any) (*envelope, error) {
	env, _, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return env, nil
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := c.call(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if _, err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Books

// BookListOptions are the filters of the book list.
type BookListOptions struct {
	Keyword  string
	Genres   []string
	Language string
	Sort     string
	Page     int
	Limit    int
}

func (o BookListOptions) values() url.Values {
	q := url.Values{}
	if o.Keyword != "" {
		q.Set("keyword", o.Keyword)
	}
	if len(o.Genres) > 0 {
		q.Set("genres", strings.Join(o.Genres, ","))
	}
	if o.Language != "" {
		q.Set("language", o.Language)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *HTTPClient) ListBooks(ctx context.Context, opts BookListOptions) (*Page[models.Book], error) {
	var books []models.Book
	env, err := c.call(ctx, http.MethodGet, "/api/books", opts.values(), nil, &books)
	if err != nil {
		return nil, err
	}
	return &Page[models.Book]{Items: books, Pagination: env.Pagination}, nil
}

func (c *HTTPClient) SearchBooks(ctx context.Context, query string, page int) (*Page[models.Book], error) {
	q := url.Values{"q": {query}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	var books []models.Book
	env, err := c.call(ctx, http.MethodGet, "/api/books/search", q, nil, &books)
	if err != nil {
		return nil, err
	}
	return &Page[models.Book]{Items: books, Pagination: env.Pagination}, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, isbn string) (*dto.BookDetailResponse, error) {
	var out dto.BookDetailResponse
	if _, err := c.call(ctx, http.MethodGet, "/api/books/"+url.PathEscape(isbn), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RelatedBooks(ctx context.Context, isbn string, limit int) ([]models.BookSummary, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []models.BookSummary
	if _, err := c.call(ctx, http.MethodGet, "/api/books/"+url.PathEscape(isbn)+"/related", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Genres(ctx context.Context) ([]models.Genre, error) {
	var out []models.Genre
	if _, err := c.call(ctx, http.MethodGet, "/api/books/genres", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Library

// Shelf names a per-user ISBN set: "favorites" or "bookmarks".
type Shelf string

const (
	Favorites Shelf = "favorites"
	Bookmarks Shelf = "bookmarks"
)

// ListShelf lists the books on the shelf.
func (c *HTTPClient) ListShelf(ctx context.Context, shelf Shelf) ([]models.Book, error) {
	var out []models.Book
	if _, err := c.call(ctx, http.MethodGet, "/api/users/"+string(shelf), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToShelf returns the server message, e.g. "book added to favorites".
func (c *HTTPClient) AddToShelf(ctx context.Context, shelf Shelf, isbn string) (string, error) {
	env, err := c.call(ctx, http.MethodPost, "/api/users/"+string(shelf)+"/"+url.PathEscape(isbn), nil, nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) RemoveFromShelf(ctx context.Context, shelf Shelf, isbn string) (string, error) {
	env, err := c.call(ctx, http.MethodDelete, "/api/users/"+string(shelf)+"/"+url.PathEscape(isbn), nil, nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) ReadingHistory(ctx context.Context) ([]dto.ReadingHistoryResponse, error) {
	var out []dto.ReadingHistoryResponse
	if _, err := c.call(ctx, http.MethodGet, "/api/users/reading-history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateProgress(ctx context.Context, isbn string, progress int) error {
	body := dto.ReadingProgressRequest{Progress: &progress}
	_, err := c.call(ctx, http.MethodPost, "/api/users/reading-history/"+url.PathEscape(isbn), nil, body, nil)
	return err
}

// Engagement

func (c *HTTPClient) CreateReview(ctx context.Context, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	var out dto.ReviewResponse
	if _, err := c.call(ctx, http.MethodPost, "/api/reviews", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Donate(ctx context.Context, req dto.CreateDonationRequest) (*dto.DonationReceipt, error) {
	var out dto.DonationReceipt
	if _, err := c.call(ctx, http.MethodPost, "/api/donations", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DonationStatus(ctx context.Context, txID string) (*dto.DonationStatusResponse, error) {
	var out dto.DonationStatusResponse
	if _, err := c.call(ctx, http.MethodGet, "/api/donations/status/"+url.PathEscape(txID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SendFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*models.Feedback, error) {
	var out models.Feedback
	if _, err := c.call(ctx, http.MethodPost, "/api/feedback", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Recommendations

// Recommendations is the ml response, which is not wrapped in an envelope.
type Recommendations struct {
	UserID       string `json:"user_id"`
	Strategy     string `json:"strategy"`
	ModelVersion string `json:"model_version"`
	Items        []struct {
		ISBN  string  `json:"isbn"`
		Score float64 `json:"score"`
	} `json:"items"`
}

func (c *HTTPClient) Recommendations(ctx context.Context, userID string) (*Recommendations, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("user_id", userID)
	}
	_, raw, err := c.send(ctx, http.MethodGet, "/api/ml/recommendations", q, nil)
	if err != nil {
		return nil, err
	}
	var out Recommendations
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
