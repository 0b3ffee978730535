package store

import "sort"

// BlogPostsByStatus returns every post with exactly the given status, in
// insertion order.
func (s *Store) BlogPostsByStatus(status PostStatus) []*BlogPost {
	return s.BlogPosts.List(func(p *BlogPost) bool { return p.Status == status })
}

// PublishedBlogPosts returns published posts, newest publication first.
func (s *Store) PublishedBlogPosts() []*BlogPost {
	posts := s.BlogPostsByStatus(PostPublished)
	sortPostsByPublishedAt(posts)
	return posts
}

// FeaturedBlogPosts returns posts that are both published and flagged
// featured, newest publication first.
func (s *Store) FeaturedBlogPosts() []*BlogPost {
	posts := s.BlogPosts.List(
		func(p *BlogPost) bool { return p.Status == PostPublished },
		func(p *BlogPost) bool { return p.Featured },
	)
	sortPostsByPublishedAt(posts)
	return posts
}

func sortPostsByPublishedAt(posts []*BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedAt, posts[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// BlogPostsByCategory returns published posts linked to the category via
// the post_categories join table.
func (s *Store) BlogPostsByCategory(categoryID string) []*BlogPost {
	links := s.PostCategories.List(func(pc *PostCategory) bool { return pc.CategoryID == categoryID })
	ids := make(map[string]struct{}, len(links))
	for _, l := range links {
		ids[l.PostID] = struct{}{}
	}
	posts := s.BlogPosts.List(
		func(p *BlogPost) bool { _, ok := ids[p.ID]; return ok },
		func(p *BlogPost) bool { return p.Status == PostPublished },
	)
	sortPostsByPublishedAt(posts)
	return posts
}

// BlogPostsByTag returns published posts linked to the tag via the
// post_tags join table.
func (s *Store) BlogPostsByTag(tagID string) []*BlogPost {
	links := s.PostTags.List(func(pt *PostTag) bool { return pt.TagID == tagID })
	ids := make(map[string]struct{}, len(links))
	for _, l := range links {
		ids[l.PostID] = struct{}{}
	}
	posts := s.BlogPosts.List(
		func(p *BlogPost) bool { _, ok := ids[p.ID]; return ok },
		func(p *BlogPost) bool { return p.Status == PostPublished },
	)
	sortPostsByPublishedAt(posts)
	return posts
}

// PublishedProjects returns projects visible on the site, newest first.
func (s *Store) PublishedProjects() []*PortfolioProject {
	projects := s.Projects.List(func(p *PortfolioProject) bool { return p.Published })
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects
}

// ProjectsByCategory returns projects linked to the portfolio category.
// Unlike the blog-side lookups, no publication filter is applied.
func (s *Store) ProjectsByCategory(categoryID string) []*PortfolioProject {
	links := s.ProjectCategories.List(func(pc *ProjectCategory) bool { return pc.CategoryID == categoryID })
	ids := make(map[string]struct{}, len(links))
	for _, l := range links {
		ids[l.ProjectID] = struct{}{}
	}
	return s.Projects.List(func(p *PortfolioProject) bool { _, ok := ids[p.ID]; return ok })
}

// UserByEmail returns the first user with exactly the given email.
func (s *Store) UserByEmail(email string) (*User, error) {
	return s.Users.First(func(u *User) bool { return u.Email == email })
}

// SessionByToken returns the first session with exactly the given token.
func (s *Store) SessionByToken(token string) (*Session, error) {
	return s.Sessions.First(func(sess *Session) bool { return sess.Token == token })
}

// CategoryBySlug returns the blog category with the given slug.
func (s *Store) CategoryBySlug(slug string) (*Category, error) {
	return s.Categories.First(func(c *Category) bool { return c.Slug == slug })
}

// TagBySlug returns the blog tag with the given slug.
func (s *Store) TagBySlug(slug string) (*Tag, error) {
	return s.Tags.First(func(t *Tag) bool { return t.Slug == slug })
}

// PortfolioCategoryBySlug returns the portfolio category with the given slug.
func (s *Store) PortfolioCategoryBySlug(slug string) (*PortfolioCategory, error) {
	return s.PortfolioCategories.First(func(c *PortfolioCategory) bool { return c.Slug == slug })
}

// PostTagNames derives the tag name list for a post from the join table.
// The join rows are the single source of truth; no name list is stored on
// the post itself.
func (s *Store) PostTagNames(postID string) []string {
	links := s.PostTags.List(func(pt *PostTag) bool { return pt.PostID == postID })
	names := make([]string, 0, len(links))
	for _, l := range links {
		if tag, err := s.Tags.Get(l.TagID); err == nil {
			names = append(names, tag.Name)
		}
	}
	return names
}

// PostCategoryNames derives the category name list for a post.
func (s *Store) PostCategoryNames(postID string) []string {
	links := s.PostCategories.List(func(pc *PostCategory) bool { return pc.PostID == postID })
	names := make([]string, 0, len(links))
	for _, l := range links {
		if cat, err := s.Categories.Get(l.CategoryID); err == nil {
			names = append(names, cat.Name)
		}
	}
	return names
}

// ProjectCategoryNames derives the category name list for a project.
func (s *Store) ProjectCategoryNames(projectID string) []string {
	links := s.ProjectCategories.List(func(pc *ProjectCategory) bool { return pc.ProjectID == projectID })
	names := make([]string, 0, len(links))
	for _, l := range links {
		if cat, err := s.PortfolioCategories.Get(l.CategoryID); err == nil {
			names = append(names, cat.Name)
		}
	}
	return names
}

// ProjectTechnologyNames derives the technology name list for a project.
func (s *Store) ProjectTechnologyNames(projectID string) []string {
	links := s.ProjectTechnologies.List(func(pt *ProjectTechnology) bool { return pt.ProjectID == projectID })
	names := make([]string, 0, len(links))
	for _, l := range links {
		if tech, err := s.PortfolioTechnologies.Get(l.TechnologyID); err == nil {
			names = append(names, tech.Name)
		}
	}
	return names
}

// SetPostTags replaces a post's tag links with the given tag ids.
func (s *Store) SetPostTags(postID string, tagIDs []string) error {
	for _, l := range s.PostTags.List(func(pt *PostTag) bool { return pt.PostID == postID }) {
		s.PostTags.Delete(l.ID)
	}
	for _, tagID := range tagIDs {
		if _, err := s.Tags.Get(tagID); err != nil {
			return err
		}
		if _, err := s.PostTags.Insert(&PostTag{PostID: postID, TagID: tagID}); err != nil {
			return err
		}
	}
	return nil
}

// SetPostCategories replaces a post's category links with the given ids.
func (s *Store) SetPostCategories(postID string, categoryIDs []string) error {
	for _, l := range s.PostCategories.List(func(pc *PostCategory) bool { return pc.PostID == postID }) {
		s.PostCategories.Delete(l.ID)
	}
	for _, catID := range categoryIDs {
		if _, err := s.Categories.Get(catID); err != nil {
			return err
		}
		if _, err := s.PostCategories.Insert(&PostCategory{PostID: postID, CategoryID: catID}); err != nil {
			return err
		}
	}
	return nil
}

// SetProjectCategories replaces a project's category links.
func (s *Store) SetProjectCategories(projectID string, categoryIDs []string) error {
	for _, l := range s.ProjectCategories.List(func(pc *ProjectCategory) bool { return pc.ProjectID == projectID }) {
		s.ProjectCategories.Delete(l.ID)
	}
	for _, catID := range categoryIDs {
		if _, err := s.PortfolioCategories.Get(catID); err != nil {
			return err
		}
		if _, err := s.ProjectCategories.Insert(&ProjectCategory{ProjectID: projectID, CategoryID: catID}); err != nil {
			return err
		}
	}
	return nil
}

// SetProjectTechnologies replaces a project's technology links.
func (s *Store) SetProjectTechnologies(projectID string, technologyIDs []string) error {
	for _, l := range s.ProjectTechnologies.List(func(pt *ProjectTechnology) bool { return pt.ProjectID == projectID }) {
		s.ProjectTechnologies.Delete(l.ID)
	}
	for _, techID := range technologyIDs {
		if _, err := s.PortfolioTechnologies.Get(techID); err != nil {
			return err
		}
		if _, err := s.ProjectTechnologies.Insert(&ProjectTechnology{ProjectID: projectID, TechnologyID: techID}); err != nil {
			return err
		}
	}
	return nil
}

// ProjectImagesOrdered returns a project's gallery images sorted by
// sort_order.
func (s *Store) ProjectImagesOrdered(projectID string) []*ProjectImage {
	images := s.ProjectImages.List(func(pi *ProjectImage) bool { return pi.ProjectID == projectID })
	sort.SliceStable(images, func(i, j int) bool { return images[i].SortOrder < images[j].SortOrder })
	return images
}

// MediaByUploader returns every media row uploaded by the given user.
func (s *Store) MediaByUploader(userID string) []*Media {
	return s.Media.List(func(m *Media) bool { return m.UploaderID == userID })
}

// MediaByFilename returns the media row with the given stored filename.
func (s *Store) MediaByFilename(filename string) (*Media, error) {
	return s.Media.First(func(m *Media) bool { return m.Filename == filename })
}
