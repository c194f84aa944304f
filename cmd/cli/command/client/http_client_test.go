package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListBooks_SendsFiltersAndReadsPagination(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "go", r.URL.Query().Get("keyword"))
		assert.Equal(t, "Fiction,History", r.URL.Query().Get("genres"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, dto.Envelope{
			Success:    true,
			Data:       []models.Book{{ISBN: "111", Title: "Go"}},
			Pagination: &dto.Pagination{Page: 2, Limit: 20, Total: 21, Pages: 2},
		})
	})

	page, err := c.ListBooks(context.Background(), BookListOptions{
		Keyword: "go",
		Genres:  []string{"Fiction", "History"},
		Page:    2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "111", page.Items[0].ISBN)
	require.NotNil(t, page.Pagination)
	assert.Equal(t, int64(21), page.Pagination.Total)
}

func TestCall_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.Envelope{Success: false, Message: "book not found"})
	})

	_, err := c.GetBook(context.Background(), "999")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "book not found (status 404)", apiErr.Error())
}

func TestCall_NonJSONBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway\n"))
	})

	_, err := c.Genres(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestAddToShelf_SendsTokenAndReturnsMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/bookmarks/978-1", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Message: "book added to bookmarks"})
	})
	c.SetToken("abc")

	msg, err := c.AddToShelf(context.Background(), Bookmarks, "978-1")
	require.NoError(t, err)
	assert.Equal(t, "book added to bookmarks", msg)
}

func TestUpdateProgress_SendsBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 40, body["progress"])
		writeJSON(w, http.StatusOK, dto.Envelope{Success: true})
	})

	require.NoError(t, c.UpdateProgress(context.Background(), "111", 40))
}

func TestRecommendations_ReadsBareBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ml/recommendations", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"user_id":       "u-1",
			"strategy":      "mock-content-based",
			"model_version": "0.0.0",
			"items":         []map[string]any{{"isbn": "9780143127741", "score": 0.95}},
		})
	})

	recs, err := c.Recommendations(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", recs.UserID)
	assert.Equal(t, "0.0.0", recs.ModelVersion)
	require.Len(t, recs.Items, 1)
	assert.InDelta(t, 0.95, recs.Items[0].Score, 1e-9)
}

func TestDonate(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateDonationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5000), req.Amount)
		writeJSON(w, http.StatusCreated, dto.Envelope{Success: true, Data: dto.DonationReceipt{
			TransactionID: "DON-1", Amount: req.Amount, Status: models.DonationPending, Method: req.Method,
		}})
	})

	receipt, err := c.Donate(context.Background(), dto.CreateDonationRequest{Amount: 5000, Method: models.DonationMethodMomo})
	require.NoError(t, err)
	assert.Equal(t, "DON-1", receipt.TransactionID)
	assert.Equal(t, models.DonationPending, receipt.Status)
}
