package siteengine

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/northbound/siteengine/store"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()
	cfg := Config{
		AdminEmail:    "admin@example.com",
		AdminPassword: "test-password",
		SiteURL:       "https://example.com",
		RateLimit:     10000,
		RateBurst:     10000,
	}
	cfg.setDefaults()

	app, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func login(t *testing.T, app *App, email, password string) string {
	t.Helper()
	rec := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	decode(t, rec, &resp)
	return resp.Token
}

func TestNewRequiresAdminCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without admin credentials")
	}
}

func TestHealthz(t *testing.T) {
	app := setupTestApp(t)

	rec := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz returned %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	app := setupTestApp(t)

	rec := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password returned %d, want 401", rec.Code)
	}

	token := login(t, app, "admin@example.com", "test-password")

	rec = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d", rec.Code)
	}
	var me store.User
	decode(t, rec, &me)
	if me.Email != "admin@example.com" || me.Role != store.RoleAdmin {
		t.Fatalf("me = %+v, want seeded admin", me)
	}

	rec = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout returned %d", rec.Code)
	}
	rec = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout returned %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	app := setupTestApp(t)

	rec := doJSON(t, app, http.MethodGet, "/api/admin/posts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated admin request returned %d, want 401", rec.Code)
	}
	rec = doJSON(t, app, http.MethodGet, "/api/admin/posts", "made-up-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token returned %d, want 401", rec.Code)
	}
}

func TestRoleEnforcement(t *testing.T) {
	app := setupTestApp(t)
	adminToken := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/users", adminToken, map[string]any{
		"email": "contrib@example.com", "password": "pw-contrib", "role": "contributor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user returned %d: %s", rec.Code, rec.Body.String())
	}

	contribToken := login(t, app, "contrib@example.com", "pw-contrib")

	rec = doJSON(t, app, http.MethodPost, "/api/admin/posts", contribToken, map[string]any{
		"title": "nope", "status": "draft",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("contributor creating a post returned %d, want 403", rec.Code)
	}

	rec = doJSON(t, app, http.MethodGet, "/api/admin/users", contribToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("contributor listing users returned %d, want 403", rec.Code)
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, map[string]any{
		"title":   "Launch Notes",
		"excerpt": "What shipped",
		"content": "<p>Details</p><script>alert(1)</script>",
		"status":  "draft",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post returned %d: %s", rec.Code, rec.Body.String())
	}
	var created PostView
	decode(t, rec, &created)
	if created.Slug != "launch-notes" {
		t.Fatalf("slug = %q, want derived from title", created.Slug)
	}
	if strings.Contains(created.Content, "<script>") {
		t.Fatalf("content not sanitized: %q", created.Content)
	}

	// Drafts are invisible publicly.
	rec = doJSON(t, app, http.MethodGet, "/api/posts/launch-notes", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("draft fetch returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, app, http.MethodPut, "/api/admin/posts/"+created.ID, token, map[string]any{
		"title":   "Launch Notes",
		"slug":    "launch-notes",
		"excerpt": "What shipped",
		"content": "<p>Details</p>",
		"status":  "published",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish returned %d: %s", rec.Code, rec.Body.String())
	}
	var published PostView
	decode(t, rec, &published)
	if published.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped on publish")
	}

	rec = doJSON(t, app, http.MethodGet, "/api/posts/launch-notes", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("published fetch returned %d", rec.Code)
	}
	var got PostView
	decode(t, rec, &got)
	if got.ViewCount != 1 {
		t.Fatalf("view_count = %d, want 1 after one read", got.ViewCount)
	}

	rec = doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list returned %d", rec.Code)
	}
	var list []PostView
	decode(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("public list has %d posts, want 1", len(list))
	}

	rec = doJSON(t, app, http.MethodDelete, "/api/admin/posts/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}
	rec = doJSON(t, app, http.MethodGet, "/api/posts/launch-notes", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("fetch after delete returned %d, want 404", rec.Code)
	}
}

func TestResavePreservesPublishedAt(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, map[string]any{
		"title": "Sticky Stamp", "status": "published",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	var created PostView
	decode(t, rec, &created)
	if created.PublishedAt == nil {
		t.Fatal("expected published_at on first publish")
	}

	// Re-save without published_at in the payload.
	rec = doJSON(t, app, http.MethodPut, "/api/admin/posts/"+created.ID, token, map[string]any{
		"title": "Sticky Stamp", "slug": "sticky-stamp", "status": "published",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("resave returned %d: %s", rec.Code, rec.Body.String())
	}
	var resaved PostView
	decode(t, rec, &resaved)
	if resaved.PublishedAt == nil {
		t.Fatal("published_at wiped by resave of a published post")
	}
	if !resaved.PublishedAt.Equal(*created.PublishedAt) {
		t.Fatalf("published_at changed on resave: %v -> %v", created.PublishedAt, resaved.PublishedAt)
	}
}

func TestProjectOwnership(t *testing.T) {
	app := setupTestApp(t)
	adminToken := login(t, app, "admin@example.com", "test-password")

	for _, email := range []string{"one@example.com", "two@example.com"} {
		rec := doJSON(t, app, http.MethodPost, "/api/admin/users", adminToken, map[string]any{
			"email": email, "password": "pw-author", "role": "author",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create user %s returned %d", email, rec.Code)
		}
	}
	ownerToken := login(t, app, "one@example.com", "pw-author")
	otherToken := login(t, app, "two@example.com", "pw-author")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/projects", ownerToken, map[string]any{
		"title": "Client Site", "status": "completed",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project returned %d: %s", rec.Code, rec.Body.String())
	}
	var project ProjectView
	decode(t, rec, &project)

	owner, err := app.Store.UserByEmail("one@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if project.AuthorID != owner.ID {
		t.Fatalf("author_id = %q, want creator %q", project.AuthorID, owner.ID)
	}

	update := map[string]any{"title": "Client Site", "slug": "client-site", "status": "completed"}
	if rec := doJSON(t, app, http.MethodPut, "/api/admin/projects/"+project.ID, otherToken, update); rec.Code != http.StatusForbidden {
		t.Fatalf("other author's update returned %d, want 403", rec.Code)
	}
	if rec := doJSON(t, app, http.MethodDelete, "/api/admin/projects/"+project.ID, otherToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("other author's delete returned %d, want 403", rec.Code)
	}

	if rec := doJSON(t, app, http.MethodPut, "/api/admin/projects/"+project.ID, ownerToken, update); rec.Code != http.StatusOK {
		t.Fatalf("owner's update returned %d: %s", rec.Code, rec.Body.String())
	}
	// Editors and above may touch anyone's project.
	if rec := doJSON(t, app, http.MethodDelete, "/api/admin/projects/"+project.ID, adminToken, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete returned %d", rec.Code)
	}
}

func TestBlankLinkIDsAreIgnored(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, map[string]any{
		"title": "Loose Tags", "status": "draft", "tag_ids": []string{"", "  "},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create with blank tag ids returned %d: %s", rec.Code, rec.Body.String())
	}
	var created PostView
	decode(t, rec, &created)
	if len(created.Tags) != 0 {
		t.Fatalf("tags = %v, want blank ids dropped", created.Tags)
	}
}

func TestDuplicateSlugConflicts(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	body := map[string]any{"title": "Same", "slug": "same", "status": "draft"}
	if rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, body); rec.Code != http.StatusCreated {
		t.Fatalf("first create returned %d", rec.Code)
	}
	if rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, body); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate slug returned %d, want 409", rec.Code)
	}
}

func TestTrackAndSummary(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, map[string]any{
		"title": "Tracked", "status": "published",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post returned %d", rec.Code)
	}
	var post PostView
	decode(t, rec, &post)

	for i := 0; i < 3; i++ {
		rec = doJSON(t, app, http.MethodPost, "/api/track", "", map[string]any{
			"entity_type": "blog_post", "entity_id": post.ID,
		})
		if rec.Code != http.StatusNoContent {
			t.Fatalf("track returned %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, app, http.MethodPost, "/api/track", "", map[string]any{
		"entity_type": "blog_post", "entity_id": "missing",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("track of unknown entity returned %d, want 404", rec.Code)
	}

	rec = doJSON(t, app, http.MethodGet, "/api/admin/analytics/summary?days=7", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary returned %d", rec.Code)
	}
	var sum struct {
		PageViews int `json:"page_views"`
	}
	decode(t, rec, &sum)
	if sum.PageViews != 3 {
		t.Fatalf("summary page_views = %d, want 3", sum.PageViews)
	}

	rec = doJSON(t, app, http.MethodGet, "/api/admin/analytics/top?type=blog_post", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("top returned %d", rec.Code)
	}
	var ranks []struct {
		EntityID string `json:"entity_id"`
		Views    int    `json:"views"`
	}
	decode(t, rec, &ranks)
	if len(ranks) != 1 || ranks[0].EntityID != post.ID || ranks[0].Views != 3 {
		t.Fatalf("top = %+v, want the tracked post with 3 views", ranks)
	}
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	app := setupTestApp(t)
	adminToken := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/users", adminToken, map[string]any{
		"email": "ed@example.com", "password": "pw-editor", "role": "editor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user returned %d", rec.Code)
	}
	var editor store.User
	decode(t, rec, &editor)

	editorToken := login(t, app, "ed@example.com", "pw-editor")
	if rec := doJSON(t, app, http.MethodGet, "/api/admin/categories", editorToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("editor request returned %d", rec.Code)
	}

	rec = doJSON(t, app, http.MethodPost, "/api/admin/users/"+editor.ID+"/deactivate", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate returned %d", rec.Code)
	}

	if rec := doJSON(t, app, http.MethodGet, "/api/admin/categories", editorToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated editor returned %d, want 401", rec.Code)
	}
	rec = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ed@example.com", "password": "pw-editor",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated login returned %d, want 401", rec.Code)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	app := setupTestApp(t)
	token := login(t, app, "admin@example.com", "test-password")

	rec := doJSON(t, app, http.MethodPost, "/api/admin/posts", token, map[string]any{
		"title": "Feed Me", "status": "published",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post returned %d", rec.Code)
	}

	rec = doJSON(t, app, http.MethodGet, "/feed.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<rss") || !strings.Contains(rec.Body.String(), "feed-me") {
		t.Fatalf("feed missing post: %s", rec.Body.String())
	}

	rec = doJSON(t, app, http.MethodGet, "/sitemap.xml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sitemap returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://example.com/blog/feed-me") {
		t.Fatalf("sitemap missing post url: %s", rec.Body.String())
	}
}
