package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshelf/internal/config"
	"eshelf/internal/microservices/http-api/dto"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// echoUpstream answers with what it received.
func echoUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Upstream", "books")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method":           r.Method,
			"path":             r.URL.Path,
			"query":            r.URL.RawQuery,
			"body":             string(body),
			"authorization":    r.Header.Get("Authorization"),
			"x_forwarded_host": r.Header.Get("X-Forwarded-Host"),
			"x_forwarded_for":  r.Header.Get("X-Forwarded-For"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// deadURL returns the address of a server that is no longer listening.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func newGateway(t *testing.T, upstreams ...Upstream) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine, err := New(Options{Upstreams: upstreams, Logger: discardLogger, CORSOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)
	return engine
}

// serveGateway runs the gateway on a real listener; the proxy needs a
// ResponseWriter that supports CloseNotify.
func serveGateway(t *testing.T, gw *gin.Engine) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	return srv
}

func TestForwardsRequestVerbatim(t *testing.T) {
	up := echoUpstream(t)
	srv := serveGateway(t, newGateway(t, Upstream{Name: "books", Prefix: "/api/books", Target: up.URL}))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/books/978/download?x=1", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set("Origin", "http://localhost:5173")
	req.Host = "eshelf.local"
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "books", resp.Header.Get("X-Upstream"))
	assert.Equal(t, []string{"http://localhost:5173"}, resp.Header.Values("Access-Control-Allow-Origin"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, http.MethodPost, got["method"])
	assert.Equal(t, "/api/books/978/download", got["path"])
	assert.Equal(t, "x=1", got["query"])
	assert.Equal(t, `{"a":1}`, got["body"])
	assert.Equal(t, "Bearer t", got["authorization"])
	assert.Equal(t, "eshelf.local", got["x_forwarded_host"])
	assert.NotEmpty(t, got["x_forwarded_for"])
}

func TestBarePrefixIsForwarded(t *testing.T) {
	up := echoUpstream(t)
	srv := serveGateway(t, newGateway(t, Upstream{Name: "books", Prefix: "/api/books", Target: up.URL}))

	resp, err := srv.Client().Get(srv.URL + "/api/books")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusTeapot, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"path":"/api/books"`)
}

func TestUnreachableUpstreamIsBadGateway(t *testing.T) {
	srv := serveGateway(t, newGateway(t, Upstream{Name: "reviews", Prefix: "/api/reviews", Target: deadURL(t)}))

	resp, err := srv.Client().Get(srv.URL + "/api/reviews/book/978")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var env dto.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, "upstream reviews unavailable", env.Message)
}

func TestUnknownPrefixIsNotFound(t *testing.T) {
	gw := newGateway(t, Upstream{Name: "books", Prefix: "/api/books", Target: "http://127.0.0.1:1"})

	w := httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/comics/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestHealth(t *testing.T) {
	gw := newGateway(t)

	w := httptest.NewRecorder()
	gw.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"api-gateway"`)
}

func TestInvalidUpstream(t *testing.T) {
	_, err := New(Options{Upstreams: []Upstream{{Name: "auth", Prefix: "/api/auth", Target: "localhost"}}, Logger: discardLogger})
	assert.Error(t, err)
}

func TestUpstreamsFollowConfig(t *testing.T) {
	cfg := &config.Config{BookServiceURL: "http://books:5103", EngagementServiceURL: "http://engagement:5105"}
	byPrefix := map[string]string{}
	for _, u := range Upstreams(cfg) {
		byPrefix[u.Prefix] = u.Target
	}
	assert.Len(t, byPrefix, 7)
	assert.Equal(t, "http://books:5103", byPrefix["/api/books"])
	assert.Equal(t, "http://engagement:5105", byPrefix["/api/feedback"])
}
