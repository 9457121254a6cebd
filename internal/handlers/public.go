// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/listing"
	"folio/internal/markdown"
	"folio/internal/models"
	"folio/internal/render"
)

// Public groups handlers for the public-facing site. It checks the Valkey
// page cache before doing any work and stores rendered pages on miss.
type Public struct {
	listing   *listing.Service
	renderer  *render.Renderer
	pageCache *cache.PageCache
	siteName  string
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(svc *listing.Service, renderer *render.Renderer, pageCache *cache.PageCache, siteName string) *Public {
	return &Public{
		listing:   svc,
		renderer:  renderer,
		pageCache: pageCache,
		siteName:  siteName,
	}
}

// Home lists the configured verticals.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "", http.StatusOK, "home", p.pageData("", nil))
}

// Listing renders a vertical's category listing, filtered by ?q=. HTMX
// requests from the search box receive only the table rows.
func (p *Public) Listing(w http.ResponseWriter, r *http.Request) {
	r, v, ok := p.vertical(w, r)
	if !ok {
		return
	}
	key := p.cacheKey(r, v)
	if p.serveCached(w, r, key) {
		return
	}

	query := normalizeQuery(r.URL.Query().Get("q"))
	cats := catalog.Search(p.listing.Categories(r.Context(), v), query)

	data := p.pageData(v.Title, &v)
	data.Query = query
	data.Table = render.CategoryRows(v, cats)
	p.render(w, r, key, http.StatusOK, "categories", data)
}

// CategoryDetail renders /{vertical}/category/{slug}.
func (p *Public) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	r, v, ok := p.vertical(w, r)
	if !ok {
		return
	}
	p.category(w, r, v, chi.URLParam(r, "slug"))
}

// Entry renders /{vertical}/{slug}: a category page in nested verticals and
// an item page in flat ones.
func (p *Public) Entry(w http.ResponseWriter, r *http.Request) {
	r, v, ok := p.vertical(w, r)
	if !ok {
		return
	}
	entrySlug := chi.URLParam(r, "slug")
	if v.IsNested() {
		p.category(w, r, v, entrySlug)
		return
	}

	key := p.cacheKey(r, v)
	if p.serveCached(w, r, key) {
		return
	}
	it := p.listing.Item(r.Context(), v, entrySlug)
	if it == nil {
		p.NotFound(w, r)
		return
	}
	p.item(w, r, key, v, nil, it)
}

// NestedItem renders /{vertical}/{categorySlug}/{slug}. Flat verticals have
// no such route and answer 404.
func (p *Public) NestedItem(w http.ResponseWriter, r *http.Request) {
	r, v, ok := p.vertical(w, r)
	if !ok {
		return
	}
	if !v.IsNested() {
		p.NotFound(w, r)
		return
	}

	key := p.cacheKey(r, v)
	if p.serveCached(w, r, key) {
		return
	}
	d, it := p.listing.ItemInCategory(r.Context(), v, chi.URLParam(r, "categorySlug"), chi.URLParam(r, "slug"))
	if it == nil {
		p.NotFound(w, r)
		return
	}
	p.item(w, r, key, v, d, it)
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "", http.StatusNotFound, "not_found", p.pageData("Not found", nil))
}

// category renders a category detail page. Only a slug missing from the
// registry is a 404; a registered category without active items shows the
// empty table.
func (p *Public) category(w http.ResponseWriter, r *http.Request, v models.Vertical, categorySlug string) {
	key := p.cacheKey(r, v)
	if p.serveCached(w, r, key) {
		return
	}

	d, items := p.listing.Category(r.Context(), v, categorySlug)
	if d == nil {
		p.NotFound(w, r)
		return
	}

	data := p.pageData(d.Title, &v)
	data.Category = d
	data.Table = render.ItemRows(v, d.Slug, items)
	p.render(w, r, key, http.StatusOK, "category", data)
}

func (p *Public) item(w http.ResponseWriter, r *http.Request, key string, v models.Vertical, d *models.Category, it *models.ContentItem) {
	body, err := markdown.ToHTML(it.Body)
	if err != nil {
		slog.Error("render item body failed", "error", err, "vertical", v.Name, "slug", it.Slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	lead, err := markdown.InlineHTML(it.Preview)
	if err != nil {
		slog.Error("render item preview failed", "error", err, "vertical", v.Name, "slug", it.Slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := p.pageData(it.Title, &v)
	data.Category = d
	data.Item = it
	data.Body = template.HTML(body)
	data.Lead = template.HTML(lead)
	data.Date = render.FormatDate(it.EffectiveDate())
	p.render(w, r, key, http.StatusOK, "item", data)
}

// vertical resolves the {vertical} URL parameter, answering 404 itself when
// it is unknown. The returned request tracks content reads so that render
// can tell a degraded page from a cacheable one.
func (p *Public) vertical(w http.ResponseWriter, r *http.Request) (*http.Request, models.Vertical, bool) {
	v, err := p.listing.Vertical(chi.URLParam(r, "vertical"))
	if err != nil {
		p.NotFound(w, r)
		return r, models.Vertical{}, false
	}
	return r.WithContext(listing.Track(r.Context())), v, true
}

func (p *Public) pageData(title string, v *models.Vertical) *render.PageData {
	return &render.PageData{
		SiteName:  p.siteName,
		Title:     title,
		Verticals: p.listing.Verticals(),
		Vertical:  v,
	}
}

// cacheKey keys a page by vertical and full request URI. HTMX fragments are
// cached apart from full pages.
func (p *Public) cacheKey(r *http.Request, v models.Vertical) string {
	key := cache.PageKey(v.Name, r.URL.RequestURI())
	if render.IsHTMX(r) {
		key += "#hx"
	}
	return key
}

func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	cached, ok := p.pageCache.Get(r.Context(), key)
	if !ok {
		return false
	}
	render.Write(w, http.StatusOK, cached)
	return true
}

// render executes a template and writes it. Successful pages with a cache
// key are stored in the page cache unless a content read behind them failed.
func (p *Public) render(w http.ResponseWriter, r *http.Request, key string, status int, name string, data *render.PageData) {
	html, err := p.renderer.Render(r, name, data)
	if err != nil {
		slog.Error("render page failed", "error", err, "template", name, "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if key != "" && status == http.StatusOK && !listing.Degraded(r.Context()) {
		p.pageCache.Set(r.Context(), key, html)
	}
	render.Write(w, status, html)
}
