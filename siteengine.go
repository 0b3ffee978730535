// Package siteengine is the content backend for the Northbound Studio
// marketing site. It serves the public content API, the authenticated
// admin API, feeds, and analytics over an in-memory store that is
// reseeded on every start.
package siteengine

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/northbound/siteengine/analytics"
	"github.com/northbound/siteengine/auth"
	"github.com/northbound/siteengine/store"
)

// App wires together the store, auth, analytics, metrics, and the HTTP
// surface.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Store     *store.Store
	Auth      *auth.Service
	Analytics *analytics.Aggregator
	Metrics   *Metrics

	registry     *prometheus.Registry
	loginLimiter *LoginLimiter
	rateLimit    *ipRateLimiter
	stopSweep    func()
}

// New builds a fully wired App: seeded store, auth service, analytics
// aggregator, middleware, and routes. The admin credentials are required
// since the seed account is the only way in.
func New(cfg Config) (*App, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("siteengine: admin email and password are required")
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("siteengine: hash admin password: %w", err)
	}

	s := store.New()
	if err := s.Seed(store.SeedAdmin{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    "Site",
		LastName:     "Admin",
	}); err != nil {
		return nil, fmt.Errorf("siteengine: seed store: %w", err)
	}

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        s,
		Auth:         auth.NewService(s, auth.WithSessionTTL(cfg.SessionTTL)),
		Analytics:    analytics.NewAggregator(s),
		registry:     prometheus.NewRegistry(),
		loginLimiter: NewLoginLimiter(cfg.MaxLoginAttempts, cfg.LoginWindow),
		rateLimit:    newIPRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	a.Metrics = NewMetrics(a.registry)
	a.Echo.HideBanner = true

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// Start launches the retention sweep and serves HTTP until shutdown.
func (a *App) Start() error {
	a.stopSweep = a.Analytics.StartRetentionSweep(a.Config.AnalyticsRetentionDays, 24*time.Hour)

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close stops background work. Call on shutdown.
func (a *App) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	api := e.Group("/api")
	api.GET("/posts", a.handleListPosts)
	api.GET("/posts/:slug", a.handleGetPost)
	api.GET("/projects", a.handleListProjects)
	api.GET("/projects/:slug", a.handleGetProject)
	api.GET("/taxonomy", a.handleTaxonomy)
	api.POST("/track", a.handleTrack)

	api.POST("/auth/login", a.handleLogin)
	api.POST("/auth/logout", a.handleLogout)
	api.GET("/auth/me", a.handleMe, a.requireRole(store.RoleContributor))

	author := a.requireRole(store.RoleAuthor)
	editor := a.requireRole(store.RoleEditor)
	adminOnly := a.requireRole(store.RoleAdmin)

	admin := api.Group("/admin")

	admin.GET("/posts", a.handleAdminListPosts, author)
	admin.POST("/posts", a.handleAdminCreatePost, author)
	admin.GET("/posts/:id", a.handleAdminGetPost, author)
	admin.PUT("/posts/:id", a.handleAdminUpdatePost, author)
	admin.DELETE("/posts/:id", a.handleAdminDeletePost, author)

	admin.GET("/projects", a.handleAdminListProjects, author)
	admin.POST("/projects", a.handleAdminCreateProject, author)
	admin.PUT("/projects/:id", a.handleAdminUpdateProject, author)
	admin.DELETE("/projects/:id", a.handleAdminDeleteProject, author)
	admin.POST("/projects/:id/images", a.handleAdminAddProjectImage, editor)
	admin.DELETE("/project-images/:id", a.handleAdminDeleteProjectImage, editor)

	admin.GET("/categories", a.handleAdminListCategories, editor)
	admin.POST("/categories", a.handleAdminCreateCategory, editor)
	admin.PUT("/categories/:id", a.handleAdminUpdateCategory, editor)
	admin.DELETE("/categories/:id", a.handleAdminDeleteCategory, editor)

	admin.GET("/tags", a.handleAdminListTags, editor)
	admin.POST("/tags", a.handleAdminCreateTag, editor)
	admin.DELETE("/tags/:id", a.handleAdminDeleteTag, editor)

	admin.GET("/portfolio-categories", a.handleAdminListPortfolioCategories, editor)
	admin.POST("/portfolio-categories", a.handleAdminCreatePortfolioCategory, editor)
	admin.DELETE("/portfolio-categories/:id", a.handleAdminDeletePortfolioCategory, editor)

	admin.GET("/portfolio-technologies", a.handleAdminListPortfolioTechnologies, editor)
	admin.POST("/portfolio-technologies", a.handleAdminCreatePortfolioTechnology, editor)
	admin.DELETE("/portfolio-technologies/:id", a.handleAdminDeletePortfolioTechnology, editor)

	admin.GET("/media", a.handleMediaList, author)
	admin.POST("/media", a.handleMediaUpload, author)
	admin.DELETE("/media/:id", a.handleMediaDelete, author)

	admin.GET("/users", a.handleAdminListUsers, adminOnly)
	admin.POST("/users", a.handleAdminCreateUser, adminOnly)
	admin.PUT("/users/:id", a.handleAdminUpdateUser, adminOnly)
	admin.POST("/users/:id/deactivate", a.handleAdminDeactivateUser, adminOnly)
	admin.POST("/users/:id/activate", a.handleAdminActivateUser, adminOnly)

	admin.GET("/analytics/summary", a.handleAnalyticsSummary, editor)
	admin.GET("/analytics/top", a.handleAnalyticsTop, editor)
}
