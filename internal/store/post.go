package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vinicio/internal/models"
	"vinicio/internal/slug"
)

// PostStore handles all post-related database operations across the base
// table, the per-type satellites, and the ordered child collections.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns one page of posts matching the filter plus the unpaginated
// total. Gallery images and ranking items are fetched in two batched
// queries, never per row.
func (s *PostStore) List(filter ListFilter) ([]models.Post, int, error) {
	filter.Normalize()

	query, args := buildListQuery(filter)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var page []*postRow
	for rows.Next() {
		r, err := scanPostRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		page = append(page, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	if err := s.loadChildren(page); err != nil {
		return nil, 0, err
	}

	posts := make([]models.Post, 0, len(page))
	for _, r := range page {
		posts = append(posts, r.decode())
	}

	countQuery, countArgs := buildCountQuery(filter)
	var total int
	if err := s.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	return posts, total, nil
}

// loadChildren batch-fetches gallery images and ranking items for the rows
// that need them and hangs the results on the rows before decoding.
func (s *PostStore) loadChildren(page []*postRow) error {
	var galleryIDs, rankingIDs []uuid.UUID
	for _, r := range page {
		switch models.PostType(r.typ) {
		case models.TypeGallery:
			galleryIDs = append(galleryIDs, r.id)
		case models.TypeRanking:
			rankingIDs = append(rankingIDs, r.id)
		}
	}

	images, err := s.galleryImagesFor(galleryIDs)
	if err != nil {
		return err
	}
	items, err := s.rankingItemsFor(rankingIDs)
	if err != nil {
		return err
	}

	for _, r := range page {
		switch models.PostType(r.typ) {
		case models.TypeGallery:
			r.galleryImages = images[r.id]
		case models.TypeRanking:
			r.rankingItems = items[r.id]
		}
	}
	return nil
}

// Find retrieves a post by UUID or slug; a single bound parameter serves
// both lookups. Returns nil if not found.
func (s *PostStore) Find(idOrSlug string) (models.Post, error) {
	row := s.db.QueryRow(
		"SELECT"+postColumns+postJoins+" WHERE (p.id::text = $1 OR p.slug = $1) LIMIT 1",
		idOrSlug,
	)
	r, err := scanPostRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	if err := s.loadChildren([]*postRow{r}); err != nil {
		return nil, err
	}
	return r.decode(), nil
}

// uniqueSlug probes for a free slug inside the transaction: the base first,
// then numbered suffixes, then a timestamp once the counter runs out. The
// UNIQUE constraint on posts.slug backstops concurrent winners.
func uniqueSlug(tx *sql.Tx, base string) (string, error) {
	taken := func(candidate string) (bool, error) {
		var id uuid.UUID
		err := tx.QueryRow("SELECT id FROM posts WHERE slug = $1", candidate).Scan(&id)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("check slug: %w", err)
		}
		return true, nil
	}

	exists, err := taken(base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for counter := 1; counter <= 100; counter++ {
		candidate := fmt.Sprintf("%s-%d", base, counter)
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, time.Now().UnixMilli()), nil
}

// Create inserts the base row and the type's satellite in one transaction.
// The requested slug is kept when free, otherwise suffixed to a unique one.
// Returns the new id and the slug actually stored.
func (s *PostStore) Create(in *models.PostInput) (uuid.UUID, string, error) {
	in.Normalize()

	tx, err := s.db.Begin()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("begin create post: %w", err)
	}
	defer tx.Rollback()

	// Requested slugs are sanitized to URL form; one that sanitizes away
	// entirely is kept verbatim and left to the UNIQUE constraint.
	base := slug.Generate(*in.Slug)
	if base == "" {
		base = *in.Slug
	}
	storedSlug, err := uniqueSlug(tx, base)
	if err != nil {
		return uuid.Nil, "", err
	}

	status := string(models.StatusDraft)
	if in.Status != nil {
		status = *in.Status
	}
	var publishedAt *time.Time
	if status == string(models.StatusPublished) {
		now := time.Now()
		publishedAt = &now
	}

	var tags any
	if in.Tags != nil {
		tags = pq.StringArray(in.Tags)
	}

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO posts (slug, type, title, status, featured, category, tags, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, storedSlug, *in.Type, *in.Title, status,
		in.Featured != nil && *in.Featured,
		strArg(in.Category), tags, publishedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("insert post: %w", err)
	}

	if spec, ok := typeRegistry[models.PostType(*in.Type)]; ok {
		query, args := spec.insertSQL()
		if _, err := tx.Exec(query, args(id, in)...); err != nil {
			return uuid.Nil, "", fmt.Errorf("insert %s satellite: %w", spec.table, err)
		}
		if spec.children != nil && spec.children.present(in) {
			if err := spec.children.replace(tx, id, in); err != nil {
				return uuid.Nil, "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, "", fmt.Errorf("commit create post: %w", err)
	}
	return id, storedSlug, nil
}

// Update patches a post in one transaction: present base fields overwrite,
// absent satellite fields keep their stored values via COALESCE, and a
// present child list replaces the stored one wholesale. Returns false when
// the post does not exist.
func (s *PostStore) Update(id uuid.UUID, in *models.PostInput) (bool, error) {
	in.Normalize()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin update post: %w", err)
	}
	defer tx.Rollback()

	var currentType string
	err = tx.QueryRow("SELECT type FROM posts WHERE id = $1", id).Scan(&currentType)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load post type: %w", err)
	}

	patch := &basePatch{}
	if in.Slug != nil {
		patch.set("slug", *in.Slug)
	}
	if in.Title != nil {
		patch.set("title", *in.Title)
	}
	if in.Status != nil {
		patch.set("status", *in.Status)
		if *in.Status == string(models.StatusPublished) {
			// First transition to published stamps the time; later saves keep it.
			patch.setRaw("published_at = COALESCE(published_at, now())")
		}
	}
	if in.Featured != nil {
		patch.set("featured", *in.Featured)
	}
	if in.Category != nil {
		patch.set("category", *in.Category)
	}
	if in.Tags != nil {
		patch.set("tags", pq.StringArray(in.Tags))
	}
	if !patch.empty() {
		patch.setRaw("updated_at = now()")
		query, args := patch.sql(id)
		if _, err := tx.Exec(query, args...); err != nil {
			return false, fmt.Errorf("update post: %w", err)
		}
	}

	if spec, ok := typeRegistry[models.PostType(currentType)]; ok {
		query, args := spec.updateSQL()
		if _, err := tx.Exec(query, args(id, in)...); err != nil {
			return false, fmt.Errorf("update %s satellite: %w", spec.table, err)
		}
		if spec.children != nil && spec.children.present(in) {
			if err := spec.children.replace(tx, id, in); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update post: %w", err)
	}
	return true, nil
}

// Delete removes the base row; satellites and child collections go with it
// through the schema's cascading foreign keys. Returns false when nothing
// was deleted.
func (s *PostStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}

// mediaColumn maps a post type to the satellite column a single attached
// image lands in, plus the alt column where the satellite has one.
// Galleries append to their child table instead; types absent from the map
// accept the upload without persisting anything.
var mediaColumn = map[models.PostType]struct{ table, column, altColumn string }{
	models.TypePhoto:          {"photos", "image_url", "image_alt"},
	models.TypeArticle:        {"articles", "cover_image_url", "cover_image_alt"},
	models.TypeMusic:          {"music", "cover_url", ""},
	models.TypeVideo:          {"videos", "thumbnail_url", ""},
	models.TypeProject:        {"projects", "cover_image_url", "cover_image_alt"},
	models.TypeEvent:          {"events", "cover_image_url", ""},
	models.TypeRecommendation: {"recommendations", "cover_image_url", "cover_image_alt"},
	models.TypeRating:         {"ratings", "cover_image_url", "cover_image_alt"},
	models.TypeRanking:        {"rankings", "cover_image_url", "cover_image_alt"},
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// upsertMediaColumn sets one satellite column, inserting the satellite row
// if the post was created before it existed. A provided alt lands in the
// table's alt column; an absent alt leaves the stored one untouched.
func upsertMediaColumn(db execer, table, column, altColumn string, id uuid.UUID, url string, alt *string) error {
	set := column + " = $1"
	args := []any{url, id}
	if altColumn != "" && alt != nil {
		set += ", " + altColumn + " = $3"
		args = append(args, *alt)
	}
	res, err := db.Exec(
		fmt.Sprintf("UPDATE %s SET %s WHERE id = $2", table, set),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s cover: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s cover: %w", table, err)
	}
	if n == 0 {
		cols, vals := "id, "+column, "$1, $2"
		insArgs := []any{id, url}
		if altColumn != "" && alt != nil {
			cols += ", " + altColumn
			vals += ", $3"
			insArgs = append(insArgs, *alt)
		}
		if _, err := db.Exec(
			fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, vals),
			insArgs...,
		); err != nil {
			return fmt.Errorf("insert %s cover: %w", table, err)
		}
	}
	return nil
}

// appendGalleryImage adds one image after the gallery's current tail.
func appendGalleryImage(db execer, id uuid.UUID, url string, alt *string) error {
	if _, err := db.Exec(
		"INSERT INTO galleries (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", id,
	); err != nil {
		return fmt.Errorf("ensure gallery row: %w", err)
	}
	if _, err := db.Exec(`
		INSERT INTO gallery_images (gallery_id, image_url, image_alt, sort_order)
		SELECT $1, $2, $3, COALESCE(MAX(sort_order), -1) + 1
		FROM gallery_images WHERE gallery_id = $1
	`, id, url, strArg(alt)); err != nil {
		return fmt.Errorf("append gallery image: %w", err)
	}
	return nil
}

// AttachMedia wires an uploaded image URL into the post's type-directed
// slot: the photo image, the cover column of covered types, or a new tail
// entry of a gallery. Types without an image slot succeed without touching
// the database. Returns the post type and false when the post is missing.
func (s *PostStore) AttachMedia(id uuid.UUID, url string, alt *string) (models.PostType, bool, error) {
	var typ string
	err := s.db.QueryRow("SELECT type FROM posts WHERE id = $1", id).Scan(&typ)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load post type: %w", err)
	}

	postType := models.PostType(typ)
	if postType == models.TypeGallery {
		return postType, true, appendGalleryImage(s.db, id, url, alt)
	}
	if target, ok := mediaColumn[postType]; ok {
		return postType, true, upsertMediaColumn(s.db, target.table, target.column, target.altColumn, id, url, alt)
	}
	return postType, true, nil
}

// AttachedImage is one image handed to AttachMediaMany and echoed back
// once stored.
type AttachedImage struct {
	URL string  `json:"url"`
	Alt *string `json:"alt,omitempty"`
}

// AttachMediaMany attaches a batch of uploaded images in one transaction:
// galleries append every image in order, photos and articles upsert their
// single slot per image (last wins), and other types record nothing.
// All-or-nothing so a failed batch leaves no partial rows.
func (s *PostStore) AttachMediaMany(id uuid.UUID, images []AttachedImage) (models.PostType, bool, []AttachedImage, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", false, nil, fmt.Errorf("begin attach images: %w", err)
	}
	defer tx.Rollback()

	var typ string
	err = tx.QueryRow("SELECT type FROM posts WHERE id = $1", id).Scan(&typ)
	if err == sql.ErrNoRows {
		return "", false, nil, nil
	}
	if err != nil {
		return "", false, nil, fmt.Errorf("load post type: %w", err)
	}
	postType := models.PostType(typ)

	attached := make([]AttachedImage, 0, len(images))
	for _, img := range images {
		switch postType {
		case models.TypeGallery:
			if err := appendGalleryImage(tx, id, img.URL, img.Alt); err != nil {
				return "", false, nil, err
			}
		case models.TypePhoto:
			if err := upsertMediaColumn(tx, "photos", "image_url", "image_alt", id, img.URL, img.Alt); err != nil {
				return "", false, nil, err
			}
		case models.TypeArticle:
			if err := upsertMediaColumn(tx, "articles", "cover_image_url", "cover_image_alt", id, img.URL, img.Alt); err != nil {
				return "", false, nil, err
			}
		}
		attached = append(attached, img)
	}

	if err := tx.Commit(); err != nil {
		return "", false, nil, fmt.Errorf("commit attach images: %w", err)
	}
	return postType, true, attached, nil
}
