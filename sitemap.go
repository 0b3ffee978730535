package siteengine

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	base := a.Config.SiteURL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, p := range a.Store.PublishedBlogPosts() {
		u := sitemapURL{Loc: BuildURL(base, "blog", p.Slug)}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.Format(time.DateOnly)
		}
		urls = append(urls, u)
	}
	for _, p := range a.Store.PublishedProjects() {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "portfolio", p.Slug),
			LastMod: p.UpdatedAt.Format(time.DateOnly),
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
