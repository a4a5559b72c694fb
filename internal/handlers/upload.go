package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vinicio/internal/cache"
	"vinicio/internal/imaging"
	"vinicio/internal/middleware"
	"vinicio/internal/models"
	"vinicio/internal/storage"
	"vinicio/internal/store"
)

// maxUploadBytes caps a single uploaded file at 10 MB.
const maxUploadBytes = 10 << 20

// Upload handles multipart image uploads: the original and its resized
// JPEG renditions go to object storage, a media row records the keys, and
// the image is attached to the target post. Requests that send JSON
// instead of multipart fall through to URL-based attachment.
type Upload struct {
	storage *storage.Client // nil when object storage is not configured
	media   *store.MediaStore
	posts   *store.PostStore
	attach  *Posts
	feed    *cache.FeedCache
}

// NewUpload creates a new Upload handler group.
func NewUpload(storageClient *storage.Client, media *store.MediaStore, posts *store.PostStore, attach *Posts, feed *cache.FeedCache) *Upload {
	return &Upload{storage: storageClient, media: media, posts: posts, attach: attach, feed: feed}
}

// AttachImage handles POST /posts/{id}/image. Multipart bodies carry a
// file under the "image" field; JSON bodies reference an existing URL.
func (h *Upload) AttachImage(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		h.attach.AttachImageURL(w, r)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondInvalid(w, []fieldError{{Field: "image", Message: "an image file is required"}})
		return
	}
	defer file.Close()

	uploaded, errStatus, errMsg := h.processUpload(r, id, file, header)
	if errMsg != "" {
		respondError(w, errStatus, errMsg)
		return
	}

	var alt *string
	if v := r.FormValue("image_alt"); v != "" {
		alt = &v
	}
	typ, found, err := h.posts.AttachMedia(id, h.storage.FileURL(uploaded.S3Key), alt)
	if err != nil {
		h.discardUpload(r.Context(), uploaded)
		serverError(w, "attach uploaded image failed", err)
		return
	}
	if !found {
		h.discardUpload(r.Context(), uploaded)
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if h.feed != nil {
		h.feed.InvalidateAll(r.Context())
	}
	respondData(w, http.StatusCreated, "image uploaded", map[string]any{
		"type":  typ,
		"url":   h.storage.FileURL(uploaded.S3Key),
		"media": uploaded,
	})
}

// AttachImages handles POST /posts/{id}/images. Multipart bodies carry
// files under the repeated "images" field; JSON bodies reference URLs.
func (h *Upload) AttachImages(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		h.attach.AttachImageURLs(w, r)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "media storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondInvalid(w, []fieldError{{Field: "images", Message: "at least one image file is required"}})
		return
	}

	var uploads []*models.Media
	var images []store.AttachedImage
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.cleanupUploads(r.Context(), uploads)
			serverError(w, "open uploaded file failed", err)
			return
		}
		uploaded, errStatus, errMsg := h.processUpload(r, id, file, header)
		file.Close()
		if errMsg != "" {
			h.cleanupUploads(r.Context(), uploads)
			respondError(w, errStatus, errMsg)
			return
		}
		uploads = append(uploads, uploaded)
		images = append(images, store.AttachedImage{URL: h.storage.FileURL(uploaded.S3Key)})
	}

	typ, found, attached, err := h.posts.AttachMediaMany(id, images)
	if err != nil {
		h.cleanupUploads(r.Context(), uploads)
		serverError(w, "attach uploaded images failed", err)
		return
	}
	if !found {
		h.cleanupUploads(r.Context(), uploads)
		respondError(w, http.StatusNotFound, "post not found")
		return
	}

	if h.feed != nil {
		h.feed.InvalidateAll(r.Context())
	}
	respondData(w, http.StatusCreated, "images uploaded", map[string]any{
		"type":   typ,
		"images": attached,
		"media":  uploads,
	})
}

// ListForPost handles GET /posts/{id}/media.
func (h *Upload) ListForPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	items, err := h.media.ListForPost(id)
	if err != nil {
		serverError(w, "list media failed", err)
		return
	}
	respondData(w, http.StatusOK, "media retrieved", items)
}

// Delete handles DELETE /media/{id}: the database row goes first, then
// the stored objects best-effort.
func (h *Upload) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	deleted, err := h.media.Delete(id)
	if err != nil {
		serverError(w, "delete media failed", err)
		return
	}
	if deleted == nil {
		respondError(w, http.StatusNotFound, "media not found")
		return
	}

	h.cleanupUpload(r.Context(), deleted)
	respondMessage(w, http.StatusOK, "media deleted")
}

// processUpload reads, sniffs, resizes, and stores one uploaded file and
// records it in the media table. On failure it returns an HTTP status and
// message for the client; partial object uploads are removed.
func (h *Upload) processUpload(r *http.Request, postID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.Media, int, string) {
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, "reading upload failed"
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, "uploaded file is empty"
	}
	if len(data) > maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, "uploaded file exceeds 10 MB"
	}

	contentType := http.DetectContentType(data)
	ext := extensionFor(contentType)
	if ext == "" {
		return nil, http.StatusBadRequest, "unsupported file type: " + contentType
	}

	variants, err := imaging.GenerateVariants(data, nil)
	if err != nil {
		return nil, http.StatusBadRequest, "could not decode image"
	}

	ctx := r.Context()
	keyBase := fmt.Sprintf("media/%s/%s", time.Now().UTC().Format("2006/01"), uuid.NewString())
	originalKey := keyBase + ext

	var storedKeys []string
	cleanup := func() {
		for _, key := range storedKeys {
			if err := h.storage.Delete(ctx, key); err != nil {
				slog.Warn("orphaned upload cleanup failed", "key", key, "error", err)
			}
		}
	}

	if err := h.storage.Upload(ctx, originalKey, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("upload original failed", "error", err)
		return nil, http.StatusBadGateway, "storing upload failed"
	}
	storedKeys = append(storedKeys, originalKey)

	variantKeys := make(map[string]string, len(variants))
	for _, v := range variants {
		key := fmt.Sprintf("%s_%s.jpg", keyBase, v.Name)
		if err := h.storage.Upload(ctx, key, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data))); err != nil {
			slog.Error("upload variant failed", "variant", v.Name, "error", err)
			cleanup()
			return nil, http.StatusBadGateway, "storing upload failed"
		}
		storedKeys = append(storedKeys, key)
		variantKeys[v.Name] = key
	}

	claims := middleware.ClaimsFromCtx(ctx)
	m := &models.Media{
		Filename:     originalKey[strings.LastIndex(originalKey, "/")+1:],
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		Bucket:       h.storage.Bucket(),
		S3Key:        originalKey,
		SmallS3Key:   keyPtr(variantKeys, "small"),
		MediumS3Key:  keyPtr(variantKeys, "medium"),
		LargeS3Key:   keyPtr(variantKeys, "large"),
		PostID:       &postID,
		UploaderID:   claims.UserID,
	}
	created, err := h.media.Create(m)
	if err != nil {
		slog.Error("create media row failed", "error", err)
		cleanup()
		return nil, http.StatusInternalServerError, "recording upload failed"
	}
	return created, 0, ""
}

// discardUpload rolls back a stored upload after a failed attach: the
// media row goes first, then the objects.
func (h *Upload) discardUpload(ctx context.Context, m *models.Media) {
	if m == nil {
		return
	}
	if _, err := h.media.Delete(m.ID); err != nil {
		slog.Warn("discard media row failed", "id", m.ID, "error", err)
	}
	h.cleanupUpload(ctx, m)
}

// cleanupUpload removes a media record's objects from storage. Failures
// only log; the database stays authoritative.
func (h *Upload) cleanupUpload(ctx context.Context, m *models.Media) {
	if h.storage == nil || m == nil {
		return
	}
	keys := []string{m.S3Key}
	for _, k := range []*string{m.SmallS3Key, m.MediumS3Key, m.LargeS3Key} {
		if k != nil {
			keys = append(keys, *k)
		}
	}
	for _, key := range keys {
		if err := h.storage.Delete(ctx, key); err != nil {
			slog.Warn("media object cleanup failed", "key", key, "error", err)
		}
	}
}

func (h *Upload) cleanupUploads(ctx context.Context, uploads []*models.Media) {
	for _, m := range uploads {
		h.discardUpload(ctx, m)
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// extensionFor maps a sniffed content type to a file extension. Only the
// formats the image decoder understands are accepted.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

func keyPtr(keys map[string]string, name string) *string {
	if key, ok := keys[name]; ok {
		return &key
	}
	return nil
}
