// Package gateway forwards /api/<domain> requests to the upstream that serves
// that domain.
package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/internal/config"
	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/middleware"
)

// Upstream maps one path prefix to a base URL.
type Upstream struct {
	Name   string
	Prefix string
	Target string
}

// Upstreams returns the static prefix table filled from cfg.
func Upstreams(cfg *config.Config) []Upstream {
	return []Upstream{
		{Name: "auth", Prefix: "/api/auth", Target: cfg.AuthServiceURL},
		{Name: "users", Prefix: "/api/users", Target: cfg.UserServiceURL},
		{Name: "books", Prefix: "/api/books", Target: cfg.BookServiceURL},
		{Name: "reviews", Prefix: "/api/reviews", Target: cfg.ReviewServiceURL},
		{Name: "feedback", Prefix: "/api/feedback", Target: cfg.EngagementServiceURL},
		{Name: "donations", Prefix: "/api/donations", Target: cfg.DonationServiceURL},
		{Name: "ml", Prefix: "/api/ml", Target: cfg.MLServiceURL},
	}
}

type Options struct {
	Upstreams   []Upstream
	Timeout     time.Duration
	CORSOrigins []string
	Logger      *slog.Logger
	Limiter     *middleware.RateLimiter
	Metrics     *middleware.Metrics
}

// New builds the gateway engine.
func New(opts Options) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	engine := gin.New()
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}
	engine.Use(
		middleware.RequestLogger(opts.Logger),
		middleware.ErrorHandler(true, opts.Logger),
		middleware.Recovery(),
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.Limiter != nil {
		engine.Use(opts.Limiter.Middleware())
	}

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"service":   "api-gateway",
			"message":   "API gateway is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	for _, u := range opts.Upstreams {
		proxy, err := newProxy(u, opts.Timeout, opts.Logger)
		if err != nil {
			return nil, err
		}
		h := gin.WrapH(proxy)
		engine.Any(u.Prefix, h)
		engine.Any(u.Prefix+"/*path", h)
		opts.Logger.Info("upstream_registered", "prefix", u.Prefix, "target", u.Target)
	}

	engine.NoRoute(middleware.NotFound)
	return engine, nil
}

func newProxy(u Upstream, timeout time.Duration, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(u.Target)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream url for %s: %q", u.Name, u.Target)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if timeout > 0 {
		transport.ResponseHeaderTimeout = timeout
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		// the gateway answers CORS itself
		ModifyResponse: func(resp *http.Response) error {
			for key := range resp.Header {
				if strings.HasPrefix(key, "Access-Control-") {
					resp.Header.Del(key)
				}
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream_unavailable",
				"upstream", u.Name,
				"target", u.Target,
				"path", r.URL.Path,
				"error", err,
			)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(dto.Envelope{
				Success: false,
				Message: fmt.Sprintf("upstream %s unavailable", u.Name),
			})
		},
	}, nil
}
