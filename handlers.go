package siteengine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/northbound/siteengine/analytics"
	"github.com/northbound/siteengine/auth"
	"github.com/northbound/siteengine/store"
)

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) postView(p *store.BlogPost) PostView {
	return PostView{
		BlogPost:   p,
		Tags:       a.Store.PostTagNames(p.ID),
		Categories: a.Store.PostCategoryNames(p.ID),
	}
}

func (a *App) projectView(p *store.PortfolioProject) ProjectView {
	return ProjectView{
		PortfolioProject: p,
		Categories:       a.Store.ProjectCategoryNames(p.ID),
		Technologies:     a.Store.ProjectTechnologyNames(p.ID),
		Images:           a.Store.ProjectImagesOrdered(p.ID),
	}
}

func (a *App) postViews(posts []*store.BlogPost) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, a.postView(p))
	}
	return views
}

func (a *App) handleListPosts(c echo.Context) error {
	var posts []*store.BlogPost
	switch {
	case c.QueryParam("tag") != "":
		if tag, err := a.Store.TagBySlug(c.QueryParam("tag")); err == nil {
			posts = a.Store.BlogPostsByTag(tag.ID)
		}
	case c.QueryParam("category") != "":
		if cat, err := a.Store.CategoryBySlug(c.QueryParam("category")); err == nil {
			posts = a.Store.BlogPostsByCategory(cat.ID)
		}
	case c.QueryParam("featured") != "":
		posts = a.Store.FeaturedBlogPosts()
	default:
		posts = a.Store.PublishedBlogPosts()
	}
	return c.JSON(http.StatusOK, a.postViews(posts))
}

func (a *App) handleGetPost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Store.BlogPosts.First(func(p *store.BlogPost) bool {
		return p.Slug == slug && p.Status == store.PostPublished
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	post, err = a.Store.BlogPosts.Update(post.ID, func(p *store.BlogPost) {
		p.ViewCount++
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.postView(post))
}

func (a *App) handleListProjects(c echo.Context) error {
	var projects []*store.PortfolioProject
	if slug := c.QueryParam("category"); slug != "" {
		if cat, err := a.Store.PortfolioCategoryBySlug(slug); err == nil {
			// The category lookup itself carries no publication filter;
			// the public surface still only exposes published projects.
			for _, p := range a.Store.ProjectsByCategory(cat.ID) {
				if p.Published {
					projects = append(projects, p)
				}
			}
		}
	} else {
		projects = a.Store.PublishedProjects()
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, a.projectView(p))
	}
	return c.JSON(http.StatusOK, views)
}

func (a *App) handleGetProject(c echo.Context) error {
	slug := c.Param("slug")
	project, err := a.Store.Projects.First(func(p *store.PortfolioProject) bool {
		return p.Slug == slug && p.Published
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	project, err = a.Store.Projects.Update(project.ID, func(p *store.PortfolioProject) {
		p.ViewCount++
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a.projectView(project))
}

func (a *App) handleTaxonomy(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"categories":             a.Store.Categories.List(),
		"tags":                   a.Store.Tags.List(),
		"portfolio_categories":   a.Store.PortfolioCategories.List(),
		"portfolio_technologies": a.Store.PortfolioTechnologies.List(),
	})
}

func (a *App) handleTrack(c echo.Context) error {
	var req TrackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch req.EntityType {
	case store.EntityBlogPost:
		if _, err := a.Store.BlogPosts.Get(req.EntityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "unknown entity")
		}
	case store.EntityPortfolioProject:
		if _, err := a.Store.Projects.Get(req.EntityID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "unknown entity")
		}
	}

	referrer := req.Referrer
	if referrer == "" {
		referrer = c.Request().Referer()
	}
	_, err := a.Analytics.Track(req.EntityType, req.EntityID, analytics.RequestMeta{
		Referrer:  referrer,
		UserAgent: c.Request().UserAgent(),
		IP:        c.RealIP(),
		Country:   req.Country,
		City:      req.City,
	})
	if err != nil {
		return err
	}
	a.Metrics.RecordPageView(string(req.EntityType))
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := a.Auth.Authenticate(req.Email, req.Password)
	if err != nil {
		a.loginLimiter.Fail(ip)
		a.Metrics.RecordLoginFailure()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	a.loginLimiter.Reset(ip)

	sess, err := a.Auth.CreateSession(user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      user,
	})
}

func (a *App) handleLogout(c echo.Context) error {
	a.Auth.DeleteSession(auth.BearerToken(c.Request()))
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}
