package store

import "fmt"

// SeedAdmin describes the initial admin account. The password arrives
// already hashed; the store never sees plaintext credentials.
type SeedAdmin struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// Seed reconstitutes the fixed startup dataset: the admin account and the
// default taxonomy rows. State is not persisted across restarts, so this
// runs on every boot. Seeding a non-empty store is a no-op for the
// tables that already hold rows.
func (s *Store) Seed(admin SeedAdmin) error {
	if admin.Email != "" && s.Users.Len() == 0 {
		_, err := s.Users.Insert(&User{
			Email:        admin.Email,
			PasswordHash: admin.PasswordHash,
			Role:         RoleAdmin,
			FirstName:    admin.FirstName,
			LastName:     admin.LastName,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	if s.Categories.Len() == 0 {
		defaults := []*Category{
			{Name: "Announcements", Slug: "announcements", Color: "#2563eb"},
			{Name: "Case Studies", Slug: "case-studies", Color: "#16a34a"},
			{Name: "Engineering", Slug: "engineering", Color: "#9333ea"},
			{Name: "Design", Slug: "design", Color: "#ea580c"},
		}
		for _, c := range defaults {
			if _, err := s.Categories.Insert(c); err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
	}

	if s.Tags.Len() == 0 {
		defaults := []*Tag{
			{Name: "Web", Slug: "web"},
			{Name: "SEO", Slug: "seo"},
			{Name: "Branding", Slug: "branding"},
			{Name: "Performance", Slug: "performance"},
		}
		for _, t := range defaults {
			if _, err := s.Tags.Insert(t); err != nil {
				return fmt.Errorf("seed tags: %w", err)
			}
		}
	}

	if s.PortfolioCategories.Len() == 0 {
		defaults := []*PortfolioCategory{
			{Name: "Websites", Slug: "websites"},
			{Name: "E-Commerce", Slug: "e-commerce"},
			{Name: "Web Apps", Slug: "web-apps"},
		}
		for _, c := range defaults {
			if _, err := s.PortfolioCategories.Insert(c); err != nil {
				return fmt.Errorf("seed portfolio categories: %w", err)
			}
		}
	}

	if s.PortfolioTechnologies.Len() == 0 {
		defaults := []*PortfolioTechnology{
			{Name: "Go", Slug: "go"},
			{Name: "TypeScript", Slug: "typescript"},
			{Name: "PostgreSQL", Slug: "postgresql"},
			{Name: "Tailwind CSS", Slug: "tailwind-css"},
		}
		for _, t := range defaults {
			if _, err := s.PortfolioTechnologies.Insert(t); err != nil {
				return fmt.Errorf("seed portfolio technologies: %w", err)
			}
		}
	}

	return nil
}
