package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vinicio/internal/cache"
	"vinicio/internal/markdown"
	"vinicio/internal/models"
	"vinicio/internal/store"
)

// Posts groups the post CRUD and media-attachment handlers.
type Posts struct {
	store *store.PostStore
	feed  *cache.FeedCache // nil disables feed caching
}

// NewPosts creates a new Posts handler group.
func NewPosts(postStore *store.PostStore, feed *cache.FeedCache) *Posts {
	return &Posts{store: postStore, feed: feed}
}

// listFilterFromQuery maps request query parameters onto a store filter.
// The type parameter accepts both repetition and comma-separated values.
func listFilterFromQuery(q url.Values) store.ListFilter {
	var filter store.ListFilter

	for _, raw := range q["type"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Types = append(filter.Types, t)
			}
		}
	}
	filter.Status = q.Get("status")
	filter.Category = q.Get("category")
	filter.Tag = q.Get("tag")

	// Free-text filter is q; search is accepted as an alias.
	filter.Search = q.Get("q")
	if filter.Search == "" {
		filter.Search = q.Get("search")
	}

	if v := q.Get("featured"); v != "" {
		featured := v == "true" || v == "1"
		filter.Featured = &featured
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}

// List returns a filtered, paginated page of posts. Responses are served
// from the feed cache when possible; the cache key is the normalized
// query string.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var cacheKey string
	if h.feed != nil {
		cacheKey = cache.Key(query)
		if payload, ok := h.feed.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	filter := listFilterFromQuery(query)
	posts, total, err := h.store.List(filter)
	if err != nil {
		serverError(w, "list posts failed", err)
		return
	}

	filter = normalizedView(filter)
	totalPages := (total + filter.Limit - 1) / filter.Limit
	body := listEnvelope{
		Success:      true,
		Data:         posts,
		CurrentPage:  filter.Page,
		TotalPages:   totalPages,
		TotalItems:   len(posts),
		TotalCount:   total,
		HasMorePages: filter.Offset()+len(posts) < total,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		serverError(w, "encode post list failed", err)
		return
	}
	if h.feed != nil {
		h.feed.Set(r.Context(), cacheKey, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// normalizedView applies the store's page/limit defaults so the response
// reports the values actually used.
func normalizedView(filter store.ListFilter) store.ListFilter {
	probe := filter
	probe.Normalize()
	return probe
}

// Get returns a single post looked up by id or slug. With ?render=html
// the Markdown body is additionally rendered to HTML for the variants
// that carry one.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	post, err := h.store.Find(idOrSlug)
	if err != nil {
		serverError(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if r.URL.Query().Get("render") == "html" {
		renderContentHTML(post)
	}

	respondData(w, http.StatusOK, "post retrieved", post)
}

// renderContentHTML fills the contentHtml field on variants with a
// Markdown body. Render failures leave the field empty; the raw Markdown
// is still in the response.
func renderContentHTML(post models.Post) {
	var content string
	var target *string

	switch p := post.(type) {
	case *models.ArticlePost:
		content, target = p.Content, &p.ContentHTML
	case *models.ThoughtPost:
		content, target = p.Content, &p.ContentHTML
	case *models.AnnouncementPost:
		content, target = p.Content, &p.ContentHTML
	default:
		return
	}

	html, err := markdown.ToHTML(content)
	if err != nil {
		slog.Warn("markdown render failed", "post", post.Base().ID, "error", err)
		return
	}
	*target = html
}

// Create inserts a new post and returns its generated id and final slug.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	if details := validatePostCreate(&in); details != nil {
		respondInvalid(w, details)
		return
	}

	id, slug, err := h.store.Create(&in)
	if err != nil {
		serverError(w, "create post failed", err)
		return
	}

	h.invalidateFeed(r)
	respondData(w, http.StatusCreated, "post created", map[string]any{"id": id, "slug": slug})
}

// Update patches an existing post and confirms with the post's id.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in models.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	if details := validatePostUpdate(&in); details != nil {
		respondInvalid(w, details)
		return
	}

	found, err := h.store.Update(id, &in)
	if err != nil {
		serverError(w, "update post failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	h.invalidateFeed(r)
	respondData(w, http.StatusOK, "post updated", map[string]any{"id": id})
}

// Delete removes a post and everything hanging off it.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.store.Delete(id)
	if err != nil {
		serverError(w, "delete post failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	h.invalidateFeed(r)
	respondMessage(w, http.StatusOK, "post deleted")
}

// attachImagePayload is the JSON body for URL-based image attachment.
type attachImagePayload struct {
	ImageURL string  `json:"image_url"`
	ImageAlt *string `json:"image_alt"`
}

// AttachImageURL links an already-hosted image to a post. Where the image
// lands depends on the post type; types without an image slot accept the
// call as a no-op.
func (h *Posts) AttachImageURL(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload attachImagePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.ImageURL) == "" {
		respondInvalid(w, []fieldError{{Field: "image_url", Message: "image_url is required"}})
		return
	}

	typ, found, err := h.store.AttachMedia(id, payload.ImageURL, payload.ImageAlt)
	if err != nil {
		serverError(w, "attach image failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	h.invalidateFeed(r)
	respondData(w, http.StatusOK, "image attached", map[string]any{
		"type": typ,
		"url":  payload.ImageURL,
	})
}

// attachImagesPayload is the JSON body for attaching several images.
type attachImagesPayload struct {
	Images []attachImagePayload `json:"images"`
}

// AttachImageURLs links multiple hosted images to a post in order. On a
// gallery every image is appended; single-image types keep the last one.
func (h *Posts) AttachImageURLs(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload attachImagesPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if len(payload.Images) == 0 {
		respondInvalid(w, []fieldError{{Field: "images", Message: "at least one image is required"}})
		return
	}
	images := make([]store.AttachedImage, 0, len(payload.Images))
	for _, img := range payload.Images {
		if strings.TrimSpace(img.ImageURL) == "" {
			respondInvalid(w, []fieldError{{Field: "images", Message: "image_url is required on every image"}})
			return
		}
		images = append(images, store.AttachedImage{URL: img.ImageURL, Alt: img.ImageAlt})
	}

	typ, found, attached, err := h.store.AttachMediaMany(id, images)
	if err != nil {
		serverError(w, "attach images failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	h.invalidateFeed(r)
	respondData(w, http.StatusOK, "images attached", map[string]any{
		"type":   typ,
		"images": attached,
	})
}

// invalidateFeed clears the cached feed pages after any mutation.
func (h *Posts) invalidateFeed(r *http.Request) {
	if h.feed != nil {
		h.feed.InvalidateAll(r.Context())
	}
}

// parseID reads the {id} route parameter as a UUID, writing a 400 on
// malformed input.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, false
	}
	return id, true
}
