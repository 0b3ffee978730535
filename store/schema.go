package store

import "time"

// Role is a user's position in the ordered permission hierarchy.
// Ranking and permission checks live in the auth package.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleAuthor      Role = "author"
	RoleContributor Role = "contributor"
)

// PostStatus is a blog post's publication state. Transitions are
// unconstrained; there is no terminal state.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostScheduled PostStatus = "scheduled"
)

// ProjectStatus describes a portfolio project's delivery progress. It is
// unrelated to whether the project is published on the site.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

// EntityType names the content kinds the analytics buckets track.
type EntityType string

const (
	EntityBlogPost         EntityType = "blog_post"
	EntityPortfolioProject EntityType = "portfolio_project"
)

// User is an admin-panel account. Users are deactivated rather than
// deleted; is_active gates authentication.
type User struct {
	Meta
	Stamps
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	LastLogin    *time.Time `json:"last_login"`
	IsActive     bool       `json:"is_active"`
}

// Clone returns a shallow copy.
func (u *User) Clone() *User { c := *u; return &c }

// Session is a bearer credential tied to a user. Expired sessions are
// deleted the moment they are read, not merely ignored.
type Session struct {
	Meta
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clone returns a shallow copy.
func (s *Session) Clone() *Session { c := *s; return &c }

// BlogPost is an article. Taxonomy lives in the post_categories and
// post_tags join tables; name lists are derived on read.
type BlogPost struct {
	Meta
	Stamps
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	AuthorID        string     `json:"author_id"`
	Status          PostStatus `json:"status"`
	PublishedAt     *time.Time `json:"published_at"`
	FeaturedImage   string     `json:"featured_image"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Featured        bool       `json:"featured"`
	ViewCount       int        `json:"view_count"`
}

// Clone returns a shallow copy.
func (p *BlogPost) Clone() *BlogPost { c := *p; return &c }

// Category is a blog taxonomy entry.
type Category struct {
	Meta
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Clone returns a shallow copy.
func (c *Category) Clone() *Category { cp := *c; return &cp }

// Tag is a blog taxonomy entry.
type Tag struct {
	Meta
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Clone returns a shallow copy.
func (t *Tag) Clone() *Tag { c := *t; return &c }

// PostCategory links a blog post to a category.
type PostCategory struct {
	Meta
	PostID     string `json:"post_id"`
	CategoryID string `json:"category_id"`
}

// Clone returns a shallow copy.
func (pc *PostCategory) Clone() *PostCategory { c := *pc; return &c }

// PostTag links a blog post to a tag.
type PostTag struct {
	Meta
	PostID string `json:"post_id"`
	TagID  string `json:"tag_id"`
}

// Clone returns a shallow copy.
func (pt *PostTag) Clone() *PostTag { c := *pt; return &c }

// PortfolioProject is a case study. Published gates site visibility;
// Status tracks delivery progress independently.
type PortfolioProject struct {
	Meta
	Stamps
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Summary       string        `json:"summary"`
	Content       string        `json:"content"`
	ClientName    string        `json:"client_name"`
	ProjectURL    string        `json:"project_url"`
	AuthorID      string        `json:"author_id"`
	Status        ProjectStatus `json:"status"`
	Published     bool          `json:"published"`
	Featured      bool          `json:"featured"`
	FeaturedImage string        `json:"featured_image"`
	CompletedAt   *time.Time    `json:"completed_at"`
	ViewCount     int           `json:"view_count"`
}

// Clone returns a shallow copy.
func (p *PortfolioProject) Clone() *PortfolioProject { c := *p; return &c }

// PortfolioCategory is a portfolio taxonomy entry.
type PortfolioCategory struct {
	Meta
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Clone returns a shallow copy.
func (pc *PortfolioCategory) Clone() *PortfolioCategory { c := *pc; return &c }

// PortfolioTechnology is a portfolio taxonomy entry.
type PortfolioTechnology struct {
	Meta
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Clone returns a shallow copy.
func (pt *PortfolioTechnology) Clone() *PortfolioTechnology { c := *pt; return &c }

// ProjectCategory links a portfolio project to a portfolio category.
type ProjectCategory struct {
	Meta
	ProjectID  string `json:"project_id"`
	CategoryID string `json:"category_id"`
}

// Clone returns a shallow copy.
func (pc *ProjectCategory) Clone() *ProjectCategory { c := *pc; return &c }

// ProjectTechnology links a portfolio project to a technology.
type ProjectTechnology struct {
	Meta
	ProjectID    string `json:"project_id"`
	TechnologyID string `json:"technology_id"`
}

// Clone returns a shallow copy.
func (pt *ProjectTechnology) Clone() *ProjectTechnology { c := *pt; return &c }

// ProjectImage is one ordered gallery image belonging to a project.
type ProjectImage struct {
	Meta
	ProjectID string `json:"project_id"`
	ImagePath string `json:"image_path"`
	AltText   string `json:"alt_text"`
	SortOrder int    `json:"sort_order"`
}

// Clone returns a shallow copy.
func (pi *ProjectImage) Clone() *ProjectImage { c := *pi; return &c }

// Media is uploaded asset metadata. The bytes live on disk under the
// configured upload directory; only the record is stored here.
type Media struct {
	Meta
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	Size         int    `json:"size"`
	MimeType     string `json:"mime_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UploaderID   string `json:"uploader_id"`
}

// Clone returns a shallow copy.
func (m *Media) Clone() *Media { c := *m; return &c }

// AnalyticsBucket accumulates views for one entity on one UTC calendar
// day. The request snapshot fields (referrer through city) are captured
// from the request that created the bucket and never overwritten by
// later increments on the same day.
type AnalyticsBucket struct {
	Meta
	Stamps
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Date        time.Time  `json:"date"`
	PageViews   int        `json:"page_views"`
	UniqueViews int        `json:"unique_views"`
	TimeOnPage  int        `json:"time_on_page"`
	BounceRate  float64    `json:"bounce_rate"`
	Referrer    string     `json:"referrer"`
	UserAgent   string     `json:"user_agent"`
	IP          string     `json:"ip"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
}

// Clone returns a shallow copy.
func (b *AnalyticsBucket) Clone() *AnalyticsBucket { c := *b; return &c }
