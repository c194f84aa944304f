// Package router assembles the api-server engine from named route tables.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/handler"
	"eshelf/internal/microservices/http-api/middleware"
	"eshelf/internal/microservices/http-api/service"
	"eshelf/internal/microservices/ml"
)

// AllRoutes mounts every table.
const AllRoutes = "all"

// Deps carries the services the route tables are built from.
type Deps struct {
	Authn            middleware.Authenticator
	Auth             service.AuthService
	Users            service.UserService
	Books            service.BookService
	Genres           service.GenreService
	Reviews          service.ReviewService
	Donations        service.DonationService
	Feedback         service.FeedbackService
	Models           *ml.Registry
	ExposeResetToken bool
}

// Table is one named group of routes under a common prefix.
type Table struct {
	Name     string
	Prefix   string
	register func(rg *gin.RouterGroup, guards handler.Guards)
	health   gin.HandlerFunc
}

// Tables builds every route table in mount order.
func Tables(d Deps) []Table {
	return []Table{
		{Name: "auth", Prefix: "/api/auth", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewAuthHandler(d.Auth, d.ExposeResetToken).RegisterRoutes(rg, g)
		}},
		{Name: "users", Prefix: "/api/users", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewUserHandler(d.Users).RegisterRoutes(rg, g)
		}},
		{Name: "books", Prefix: "/api/books", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewBookHandler(d.Books, d.Genres).RegisterRoutes(rg, g)
		}},
		{Name: "reviews", Prefix: "/api/reviews", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewReviewHandler(d.Reviews).RegisterRoutes(rg, g)
		}},
		{Name: "feedback", Prefix: "/api/feedback", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewFeedbackHandler(d.Feedback).RegisterRoutes(rg, g)
		}},
		{Name: "donations", Prefix: "/api/donations", register: func(rg *gin.RouterGroup, g handler.Guards) {
			handler.NewDonationHandler(d.Donations).RegisterRoutes(rg, g)
		}},
		mlTable(d.Models),
	}
}

func mlTable(reg *ml.Registry) Table {
	h := ml.NewHandler(reg)
	return Table{
		Name:     "ml",
		Prefix:   "/api/ml",
		register: h.RegisterRoutes,
		health:   h.Health,
	}
}

// Select resolves route table names. "all" selects every table; unknown
// names are an error.
func Select(tables []Table, names []string) ([]Table, error) {
	byName := make(map[string]Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	picked := map[string]bool{}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == AllRoutes {
			return tables, nil
		}
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown route table %q", raw)
		}
		picked[name] = true
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no route tables selected")
	}

	out := make([]Table, 0, len(picked))
	for _, t := range tables {
		if picked[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Mount registers each table under its prefix, with GET <prefix>/health
// ahead of the table's own middleware.
func Mount(engine *gin.Engine, tables []Table, guards handler.Guards) {
	for _, t := range tables {
		rg := engine.Group(t.Prefix)
		health := t.health
		if health == nil {
			health = tableHealth(t.Name)
		}
		rg.GET("/health", health)
		t.register(rg, guards)
	}
}

func tableHealth(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"service":   name,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Options configures the engine built by New.
type Options struct {
	Service     string
	Routes      []string
	Production  bool
	CORSOrigins []string
	Logger      *slog.Logger
	Limiter     *middleware.RateLimiter
	Metrics     *middleware.Metrics
}

// New builds the api-server engine with the selected route tables mounted.
func New(opts Options, deps Deps) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Service == "" {
		opts.Service = "eshelf-api"
	}
	tables, err := Select(Tables(deps), opts.Routes)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}
	engine.Use(
		middleware.RequestLogger(opts.Logger),
		middleware.ErrorHandler(opts.Production, opts.Logger),
		middleware.Recovery(),
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.Limiter != nil {
		engine.Use(opts.Limiter.Middleware())
	}

	names := make([]string, 0, len(tables))
	listing := make([]gin.H, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
		listing = append(listing, gin.H{"name": t.Name, "prefix": t.Prefix})
	}

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"service":   opts.Service,
			"routes":    names,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	engine.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "eShelf API", Data: listing})
	})
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	Mount(engine, tables, handler.NewGuards(deps.Authn))
	engine.NoRoute(middleware.NotFound)

	opts.Logger.Info("routes_mounted", "service", opts.Service, "tables", names)
	return engine, nil
}
