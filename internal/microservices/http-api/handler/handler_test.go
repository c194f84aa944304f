package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/models"
	"eshelf/internal/microservices/http-api/service"
)

const (
	readerToken = "reader-token"
	adminToken  = "admin-token"
)

var (
	reader = &models.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: models.RoleUser, IsActive: true}
	admin  = &models.User{ID: "a1", Username: "admin", Email: "admin@eshelf.com", Role: models.RoleAdmin, IsActive: true}
)

type tokenTable map[string]*models.User

func (t tokenTable) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, service.ErrUnauthenticated
	}
	user, ok := t[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return user, nil
}

func testGuards() Guards {
	return NewGuards(tokenTable{readerToken: reader, adminToken: admin})
}

// setupRouter returns an engine with the error normalizer and the table
// mounted under prefix.
func setupRouter(prefix string, register func(*gin.RouterGroup, Guards)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(true, slog.New(slog.NewTextHandler(io.Discard, nil))))
	register(r.Group(prefix), testGuards())
	return r
}

func doRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes the response with Data left raw for per-test decoding.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
	Stats      json.RawMessage `json:"stats"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
