package siteengine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/northbound/siteengine/store"
)

// Request payload types for the JSON API. Validation happens when a
// handler parses a payload through one of these; the store itself
// trusts whatever it is handed.

// LoginRequest is the credentials payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *store.User `json:"user"`
}

// TrackRequest is the page-view payload for POST /api/track. The user
// agent and IP are taken from the request itself.
type TrackRequest struct {
	EntityType store.EntityType `json:"entity_type"`
	EntityID   string           `json:"entity_id"`
	Referrer   string           `json:"referrer"`
	Country    string           `json:"country"`
	City       string           `json:"city"`
}

// Validate checks the payload.
func (r *TrackRequest) Validate() error {
	if r.EntityType != store.EntityBlogPost && r.EntityType != store.EntityPortfolioProject {
		return fmt.Errorf("unknown entity_type %q", r.EntityType)
	}
	if r.EntityID == "" {
		return errors.New("entity_id is required")
	}
	return nil
}

// PostInput creates or fully replaces the editable fields of a blog post.
type PostInput struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"published_at"`
	FeaturedImage   string     `json:"featured_image"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Featured        bool       `json:"featured"`
	TagIDs          []string   `json:"tag_ids"`
	CategoryIDs     []string   `json:"category_ids"`
}

// Validate checks the payload. A scheduled post must carry the future
// publication time; the published_at stamp for a freshly published post
// is filled in by the handler.
func (in *PostInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title is required")
	}
	switch store.PostStatus(in.Status) {
	case store.PostDraft, store.PostPublished, store.PostScheduled:
	case "":
		return errors.New("status is required")
	default:
		return fmt.Errorf("unknown status %q", in.Status)
	}
	if store.PostStatus(in.Status) == store.PostScheduled && in.PublishedAt == nil {
		return errors.New("scheduled posts require published_at")
	}
	return nil
}

// ProjectInput creates or fully replaces the editable fields of a
// portfolio project.
type ProjectInput struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Summary       string     `json:"summary"`
	Content       string     `json:"content"`
	ClientName    string     `json:"client_name"`
	ProjectURL    string     `json:"project_url"`
	Status        string     `json:"status"`
	Published     bool       `json:"published"`
	Featured      bool       `json:"featured"`
	FeaturedImage string     `json:"featured_image"`
	CompletedAt   *time.Time `json:"completed_at"`
	CategoryIDs   []string   `json:"category_ids"`
	TechnologyIDs []string   `json:"technology_ids"`
}

// Validate checks the payload.
func (in *ProjectInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title is required")
	}
	switch store.ProjectStatus(in.Status) {
	case store.ProjectInProgress, store.ProjectCompleted, store.ProjectOnHold:
	case "":
		return errors.New("status is required")
	default:
		return fmt.Errorf("unknown status %q", in.Status)
	}
	return nil
}

// CategoryInput creates or replaces a blog category.
type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Validate checks the payload.
func (in *CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// LookupInput creates or replaces a simple named lookup row (tags,
// portfolio categories, portfolio technologies).
type LookupInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Validate checks the payload.
func (in *LookupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// ProjectImageInput adds one gallery image to a project.
type ProjectImageInput struct {
	ImagePath string `json:"image_path"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

// Validate checks the payload.
func (in *ProjectImageInput) Validate() error {
	if strings.TrimSpace(in.ImagePath) == "" {
		return errors.New("image_path is required")
	}
	return nil
}

// UserInput creates a user. Password is required on create and optional
// on update.
type UserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  *bool  `json:"is_active"`
}

// Validate checks the payload; forCreate additionally requires a
// password.
func (in *UserInput) Validate(forCreate bool) error {
	if strings.TrimSpace(in.Email) == "" {
		return errors.New("email is required")
	}
	if forCreate && in.Password == "" {
		return errors.New("password is required")
	}
	if forCreate && in.Role == "" {
		return errors.New("role is required")
	}
	if in.Role != "" && !knownRole(store.Role(in.Role)) {
		return fmt.Errorf("unknown role %q", in.Role)
	}
	return nil
}

func knownRole(r store.Role) bool {
	switch r {
	case store.RoleAdmin, store.RoleEditor, store.RoleAuthor, store.RoleContributor:
		return true
	}
	return false
}

// PostView is a blog post with its taxonomy names derived from the join
// tables.
type PostView struct {
	*store.BlogPost
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// ProjectView is a portfolio project with derived taxonomy and its
// ordered gallery.
type ProjectView struct {
	*store.PortfolioProject
	Categories   []string              `json:"categories"`
	Technologies []string              `json:"technologies"`
	Images       []*store.ProjectImage `json:"images"`
}
