package siteengine

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/northbound/siteengine/auth"
	"github.com/northbound/siteengine/store"
)

// storeErr maps store sentinels to HTTP errors and passes anything else
// through to the error handler.
func storeErr(err error, notFound, conflict string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, conflict)
	}
	return err
}

func bindInput(c echo.Context, in interface{ Validate() error }) error {
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := in.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Blog posts.

func (a *App) applyPostInput(p *store.BlogPost, in *PostInput) {
	p.Title = SanitizeText(in.Title)
	p.Slug = in.Slug
	if p.Slug == "" {
		p.Slug = Slugify(in.Title)
	}
	p.Excerpt = SanitizeText(in.Excerpt)
	p.Content = SanitizeContent(in.Content)
	p.FeaturedImage = in.FeaturedImage
	p.MetaTitle = SanitizeText(in.MetaTitle)
	p.MetaDescription = SanitizeText(in.MetaDescription)
	p.Featured = in.Featured

	// A published post always carries a stamp: keep the existing one
	// when the payload omits it, mint one on first publish.
	existing := p.PublishedAt
	p.PublishedAt = in.PublishedAt
	p.Status = store.PostStatus(in.Status)
	if p.Status == store.PostPublished && p.PublishedAt == nil {
		if existing != nil {
			p.PublishedAt = existing
		} else {
			now := time.Now().UTC()
			p.PublishedAt = &now
		}
	}
}

func (a *App) handleAdminListPosts(c echo.Context) error {
	posts := a.Store.BlogPosts.List()
	return c.JSON(http.StatusOK, a.postViews(posts))
}

func (a *App) handleAdminGetPost(c echo.Context) error {
	post, err := a.Store.BlogPosts.Get(c.Param("id"))
	if err != nil {
		return storeErr(err, "post not found", "")
	}
	return c.JSON(http.StatusOK, a.postView(post))
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	var in PostInput
	if err := bindInput(c, &in); err != nil {
		return err
	}

	post := &store.BlogPost{AuthorID: currentUser(c).ID}
	a.applyPostInput(post, &in)

	post, err := a.Store.BlogPosts.Insert(post)
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	if err := a.Store.SetPostTags(post.ID, FilterEmpty(in.TagIDs)); err != nil {
		return storeErr(err, "unknown tag id", "")
	}
	if err := a.Store.SetPostCategories(post.ID, FilterEmpty(in.CategoryIDs)); err != nil {
		return storeErr(err, "unknown category id", "")
	}
	return c.JSON(http.StatusCreated, a.postView(post))
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	var in PostInput
	if err := bindInput(c, &in); err != nil {
		return err
	}

	post, err := a.Store.BlogPosts.Get(c.Param("id"))
	if err != nil {
		return storeErr(err, "post not found", "")
	}
	if !auth.CanEditPost(currentUser(c), post.AuthorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your post")
	}

	post, err = a.Store.BlogPosts.Update(post.ID, func(p *store.BlogPost) {
		a.applyPostInput(p, &in)
	})
	if err != nil {
		return storeErr(err, "post not found", "slug already in use")
	}
	if err := a.Store.SetPostTags(post.ID, FilterEmpty(in.TagIDs)); err != nil {
		return storeErr(err, "unknown tag id", "")
	}
	if err := a.Store.SetPostCategories(post.ID, FilterEmpty(in.CategoryIDs)); err != nil {
		return storeErr(err, "unknown category id", "")
	}
	return c.JSON(http.StatusOK, a.postView(post))
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	post, err := a.Store.BlogPosts.Get(c.Param("id"))
	if err != nil {
		return storeErr(err, "post not found", "")
	}
	if !auth.CanEditPost(currentUser(c), post.AuthorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your post")
	}

	// Drop join rows first so nothing dangles.
	_ = a.Store.SetPostTags(post.ID, nil)
	_ = a.Store.SetPostCategories(post.ID, nil)
	a.Store.BlogPosts.Delete(post.ID)
	return c.NoContent(http.StatusNoContent)
}

// Portfolio projects.

func (a *App) applyProjectInput(p *store.PortfolioProject, in *ProjectInput) {
	p.Title = SanitizeText(in.Title)
	p.Slug = in.Slug
	if p.Slug == "" {
		p.Slug = Slugify(in.Title)
	}
	p.Summary = SanitizeText(in.Summary)
	p.Content = SanitizeContent(in.Content)
	p.ClientName = SanitizeText(in.ClientName)
	p.ProjectURL = in.ProjectURL
	p.Status = store.ProjectStatus(in.Status)
	p.Published = in.Published
	p.Featured = in.Featured
	p.FeaturedImage = in.FeaturedImage
	p.CompletedAt = in.CompletedAt
}

func (a *App) handleAdminListProjects(c echo.Context) error {
	views := make([]ProjectView, 0)
	for _, p := range a.Store.Projects.List() {
		views = append(views, a.projectView(p))
	}
	return c.JSON(http.StatusOK, views)
}

func (a *App) handleAdminCreateProject(c echo.Context) error {
	var in ProjectInput
	if err := bindInput(c, &in); err != nil {
		return err
	}

	project := &store.PortfolioProject{AuthorID: currentUser(c).ID}
	a.applyProjectInput(project, &in)

	project, err := a.Store.Projects.Insert(project)
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	if err := a.Store.SetProjectCategories(project.ID, FilterEmpty(in.CategoryIDs)); err != nil {
		return storeErr(err, "unknown category id", "")
	}
	if err := a.Store.SetProjectTechnologies(project.ID, FilterEmpty(in.TechnologyIDs)); err != nil {
		return storeErr(err, "unknown technology id", "")
	}
	return c.JSON(http.StatusCreated, a.projectView(project))
}

func (a *App) handleAdminUpdateProject(c echo.Context) error {
	var in ProjectInput
	if err := bindInput(c, &in); err != nil {
		return err
	}

	project, err := a.Store.Projects.Get(c.Param("id"))
	if err != nil {
		return storeErr(err, "project not found", "")
	}
	if !auth.CanEditPost(currentUser(c), project.AuthorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your project")
	}

	project, err = a.Store.Projects.Update(project.ID, func(p *store.PortfolioProject) {
		a.applyProjectInput(p, &in)
	})
	if err != nil {
		return storeErr(err, "project not found", "slug already in use")
	}
	if err := a.Store.SetProjectCategories(project.ID, FilterEmpty(in.CategoryIDs)); err != nil {
		return storeErr(err, "unknown category id", "")
	}
	if err := a.Store.SetProjectTechnologies(project.ID, FilterEmpty(in.TechnologyIDs)); err != nil {
		return storeErr(err, "unknown technology id", "")
	}
	return c.JSON(http.StatusOK, a.projectView(project))
}

func (a *App) handleAdminDeleteProject(c echo.Context) error {
	id := c.Param("id")
	project, err := a.Store.Projects.Get(id)
	if err != nil {
		return storeErr(err, "project not found", "")
	}
	if !auth.CanEditPost(currentUser(c), project.AuthorID) {
		return echo.NewHTTPError(http.StatusForbidden, "not your project")
	}

	_ = a.Store.SetProjectCategories(id, nil)
	_ = a.Store.SetProjectTechnologies(id, nil)
	for _, img := range a.Store.ProjectImagesOrdered(id) {
		a.Store.ProjectImages.Delete(img.ID)
	}
	a.Store.Projects.Delete(id)
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleAdminAddProjectImage(c echo.Context) error {
	var in ProjectImageInput
	if err := bindInput(c, &in); err != nil {
		return err
	}

	projectID := c.Param("id")
	if _, err := a.Store.Projects.Get(projectID); err != nil {
		return storeErr(err, "project not found", "")
	}

	img, err := a.Store.ProjectImages.Insert(&store.ProjectImage{
		ProjectID: projectID,
		ImagePath: in.ImagePath,
		AltText:   SanitizeText(in.AltText),
		SortOrder: in.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, img)
}

func (a *App) handleAdminDeleteProjectImage(c echo.Context) error {
	if !a.Store.ProjectImages.Delete(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Blog taxonomy.

func (a *App) handleAdminListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.Categories.List())
}

func (a *App) handleAdminCreateCategory(c echo.Context) error {
	var in CategoryInput
	if err := bindInput(c, &in); err != nil {
		return err
	}
	cat, err := a.Store.Categories.Insert(&store.Category{
		Name:        SanitizeText(in.Name),
		Slug:        slugOr(in.Slug, in.Name),
		Description: SanitizeText(in.Description),
		Color:       in.Color,
	})
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	return c.JSON(http.StatusCreated, cat)
}

func (a *App) handleAdminUpdateCategory(c echo.Context) error {
	var in CategoryInput
	if err := bindInput(c, &in); err != nil {
		return err
	}
	cat, err := a.Store.Categories.Update(c.Param("id"), func(cat *store.Category) {
		cat.Name = SanitizeText(in.Name)
		cat.Slug = slugOr(in.Slug, in.Name)
		cat.Description = SanitizeText(in.Description)
		cat.Color = in.Color
	})
	if err != nil {
		return storeErr(err, "category not found", "slug already in use")
	}
	return c.JSON(http.StatusOK, cat)
}

func (a *App) handleAdminDeleteCategory(c echo.Context) error {
	id := c.Param("id")
	if !a.Store.Categories.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	for _, link := range a.Store.PostCategories.List(func(l *store.PostCategory) bool { return l.CategoryID == id }) {
		a.Store.PostCategories.Delete(link.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleAdminListTags(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.Tags.List())
}

func (a *App) handleAdminCreateTag(c echo.Context) error {
	var in LookupInput
	if err := bindInput(c, &in); err != nil {
		return err
	}
	tag, err := a.Store.Tags.Insert(&store.Tag{
		Name: SanitizeText(in.Name),
		Slug: slugOr(in.Slug, in.Name),
	})
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	return c.JSON(http.StatusCreated, tag)
}

func (a *App) handleAdminDeleteTag(c echo.Context) error {
	id := c.Param("id")
	if !a.Store.Tags.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "tag not found")
	}
	for _, link := range a.Store.PostTags.List(func(l *store.PostTag) bool { return l.TagID == id }) {
		a.Store.PostTags.Delete(link.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

// Portfolio taxonomy.

func (a *App) handleAdminListPortfolioCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.PortfolioCategories.List())
}

func (a *App) handleAdminCreatePortfolioCategory(c echo.Context) error {
	var in LookupInput
	if err := bindInput(c, &in); err != nil {
		return err
	}
	cat, err := a.Store.PortfolioCategories.Insert(&store.PortfolioCategory{
		Name: SanitizeText(in.Name),
		Slug: slugOr(in.Slug, in.Name),
	})
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	return c.JSON(http.StatusCreated, cat)
}

func (a *App) handleAdminDeletePortfolioCategory(c echo.Context) error {
	id := c.Param("id")
	if !a.Store.PortfolioCategories.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	for _, link := range a.Store.ProjectCategories.List(func(l *store.ProjectCategory) bool { return l.CategoryID == id }) {
		a.Store.ProjectCategories.Delete(link.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleAdminListPortfolioTechnologies(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.PortfolioTechnologies.List())
}

func (a *App) handleAdminCreatePortfolioTechnology(c echo.Context) error {
	var in LookupInput
	if err := bindInput(c, &in); err != nil {
		return err
	}
	tech, err := a.Store.PortfolioTechnologies.Insert(&store.PortfolioTechnology{
		Name: SanitizeText(in.Name),
		Slug: slugOr(in.Slug, in.Name),
	})
	if err != nil {
		return storeErr(err, "", "slug already in use")
	}
	return c.JSON(http.StatusCreated, tech)
}

func (a *App) handleAdminDeletePortfolioTechnology(c echo.Context) error {
	id := c.Param("id")
	if !a.Store.PortfolioTechnologies.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "technology not found")
	}
	for _, link := range a.Store.ProjectTechnologies.List(func(l *store.ProjectTechnology) bool { return l.TechnologyID == id }) {
		a.Store.ProjectTechnologies.Delete(link.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

func slugOr(slug, name string) string {
	if slug != "" {
		return slug
	}
	return Slugify(name)
}

// Users.

func (a *App) handleAdminListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.Users.List())
}

func (a *App) handleAdminCreateUser(c echo.Context) error {
	var in UserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := in.Validate(true); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	user, err := a.Store.Users.Insert(&store.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         store.Role(in.Role),
		FirstName:    SanitizeText(in.FirstName),
		LastName:     SanitizeText(in.LastName),
		IsActive:     active,
	})
	if err != nil {
		return storeErr(err, "", "email already in use")
	}
	return c.JSON(http.StatusCreated, user)
}

func (a *App) handleAdminUpdateUser(c echo.Context) error {
	var in UserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := in.Validate(false); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var hash string
	if in.Password != "" {
		var err error
		if hash, err = auth.HashPassword(in.Password); err != nil {
			return err
		}
	}

	user, err := a.Store.Users.Update(c.Param("id"), func(u *store.User) {
		u.Email = in.Email
		u.FirstName = SanitizeText(in.FirstName)
		u.LastName = SanitizeText(in.LastName)
		if in.Role != "" {
			u.Role = store.Role(in.Role)
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		if hash != "" {
			u.PasswordHash = hash
		}
	})
	if err != nil {
		return storeErr(err, "user not found", "email already in use")
	}
	if !user.IsActive {
		a.Auth.RevokeUserSessions(user.ID)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *App) handleAdminDeactivateUser(c echo.Context) error {
	user, err := a.Store.Users.Update(c.Param("id"), func(u *store.User) {
		u.IsActive = false
	})
	if err != nil {
		return storeErr(err, "user not found", "")
	}
	a.Auth.RevokeUserSessions(user.ID)
	return c.JSON(http.StatusOK, user)
}

func (a *App) handleAdminActivateUser(c echo.Context) error {
	user, err := a.Store.Users.Update(c.Param("id"), func(u *store.User) {
		u.IsActive = true
	})
	if err != nil {
		return storeErr(err, "user not found", "")
	}
	return c.JSON(http.StatusOK, user)
}

// Analytics.

func (a *App) handleAnalyticsSummary(c echo.Context) error {
	days := intQuery(c, "days", 30)
	return c.JSON(http.StatusOK, a.Analytics.Summarize(days))
}

func (a *App) handleAnalyticsTop(c echo.Context) error {
	entityType := store.EntityType(c.QueryParam("type"))
	if entityType == "" {
		entityType = store.EntityBlogPost
	}
	if entityType != store.EntityBlogPost && entityType != store.EntityPortfolioProject {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown entity type")
	}
	limit := intQuery(c, "limit", 10)
	return c.JSON(http.StatusOK, a.Analytics.TopContent(entityType, limit))
}

func intQuery(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
