package store

// Store aggregates every collection the backend owns. Construct one with
// New and pass it around explicitly; there is no package-level instance.
type Store struct {
	Users    *Table[*User]
	Sessions *Table[*Session]

	BlogPosts      *Table[*BlogPost]
	Categories     *Table[*Category]
	Tags           *Table[*Tag]
	PostCategories *Table[*PostCategory]
	PostTags       *Table[*PostTag]

	Projects              *Table[*PortfolioProject]
	PortfolioCategories   *Table[*PortfolioCategory]
	PortfolioTechnologies *Table[*PortfolioTechnology]
	ProjectCategories     *Table[*ProjectCategory]
	ProjectTechnologies   *Table[*ProjectTechnology]
	ProjectImages         *Table[*ProjectImage]

	Media     *Table[*Media]
	Analytics *Table[*AnalyticsBucket]
}

// New creates an empty Store with every table and its unique indexes
// declared. Email, token, and slug uniqueness is enforced here rather
// than left to callers.
func New() *Store {
	return &Store{
		Users: NewTable("users",
			Unique("email", func(u *User) string { return u.Email })),
		Sessions: NewTable("sessions",
			Unique("token", func(s *Session) string { return s.Token })),

		BlogPosts: NewTable("blog_posts",
			Unique("slug", func(p *BlogPost) string { return p.Slug })),
		Categories: NewTable("categories",
			Unique("slug", func(c *Category) string { return c.Slug })),
		Tags: NewTable("tags",
			Unique("slug", func(t *Tag) string { return t.Slug })),
		PostCategories: NewTable[*PostCategory]("post_categories"),
		PostTags:       NewTable[*PostTag]("post_tags"),

		Projects: NewTable("portfolio_projects",
			Unique("slug", func(p *PortfolioProject) string { return p.Slug })),
		PortfolioCategories: NewTable("portfolio_categories",
			Unique("slug", func(c *PortfolioCategory) string { return c.Slug })),
		PortfolioTechnologies: NewTable("portfolio_technologies",
			Unique("slug", func(t *PortfolioTechnology) string { return t.Slug })),
		ProjectCategories:   NewTable[*ProjectCategory]("project_categories"),
		ProjectTechnologies: NewTable[*ProjectTechnology]("project_technologies"),
		ProjectImages:       NewTable[*ProjectImage]("project_images"),

		Media:     NewTable[*Media]("media"),
		Analytics: NewTable[*AnalyticsBucket]("analytics"),
	}
}

// Reset empties every table. Intended for tests and for rebuilding state
// before reseeding.
func (s *Store) Reset() {
	s.Users.Reset()
	s.Sessions.Reset()
	s.BlogPosts.Reset()
	s.Categories.Reset()
	s.Tags.Reset()
	s.PostCategories.Reset()
	s.PostTags.Reset()
	s.Projects.Reset()
	s.PortfolioCategories.Reset()
	s.PortfolioTechnologies.Reset()
	s.ProjectCategories.Reset()
	s.ProjectTechnologies.Reset()
	s.ProjectImages.Reset()
	s.Media.Reset()
	s.Analytics.Reset()
}
