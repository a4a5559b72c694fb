package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"vinicio/internal/models"
)

func TestPostStoreCreateAndFindArticle(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-article-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	in := &models.PostInput{
		Slug:    strPtr(slug),
		Type:    strPtr("article"),
		Title:   strPtr("Integration Article"),
		Status:  strPtr("published"),
		Excerpt: strPtr("A short excerpt."),
		Content: strPtr("# Body"),
		Tags:    []string{"go", "testing"},
	}

	id, storedSlug, err := s.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected non-nil UUID")
	}
	if storedSlug != slug {
		t.Errorf("slug: got %q, want %q", storedSlug, slug)
	}

	// Lookup by id and by slug must return the same post.
	for _, key := range []string{id.String(), slug} {
		post, err := s.Find(key)
		if err != nil {
			t.Fatalf("Find(%q): %v", key, err)
		}
		if post == nil {
			t.Fatalf("Find(%q): not found", key)
		}
		article, ok := post.(*models.ArticlePost)
		if !ok {
			t.Fatalf("Find(%q): got %T, want *ArticlePost", key, post)
		}
		if article.Excerpt != "A short excerpt." {
			t.Errorf("excerpt: got %q", article.Excerpt)
		}
		if article.PublishedAt == nil {
			t.Error("published status should stamp published_at")
		}
		if len(article.Tags) != 2 {
			t.Errorf("tags: got %v", article.Tags)
		}
	}
}

func TestPostStoreFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	post, err := s.Find("no-such-post-" + uuid.NewString())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if post != nil {
		t.Errorf("expected nil, got %+v", post)
	}
}

func TestPostStoreSlugProbe(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-probe-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	mk := func() string {
		t.Helper()
		_, stored, err := s.Create(&models.PostInput{
			Slug:    strPtr(slug),
			Type:    strPtr("thought"),
			Title:   strPtr("Daily Note"),
			Content: strPtr("hi"),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return stored
	}

	if got := mk(); got != slug {
		t.Errorf("first slug: got %q, want %q", got, slug)
	}
	if got := mk(); got != slug+"-1" {
		t.Errorf("second slug: got %q, want %q", got, slug+"-1")
	}
	if got := mk(); got != slug+"-2" {
		t.Errorf("third slug: got %q, want %q", got, slug+"-2")
	}
}

func TestPostStoreGalleryRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-gallery-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	in := &models.PostInput{
		Slug:  strPtr(slug),
		Type:  strPtr("gallery"),
		Title: strPtr("Trip Photos"),
		Images: []models.GalleryImageInput{
			{ImageURL: "https://img.example.com/b.jpg", SortOrder: intPtr(1)},
			{ImageURL: "https://img.example.com/a.jpg", ImageAlt: strPtr("first"), SortOrder: intPtr(0)},
		},
	}
	id, _, err := s.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, err := s.Find(id.String())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	gallery, ok := post.(*models.GalleryPost)
	if !ok {
		t.Fatalf("got %T, want *GalleryPost", post)
	}
	if gallery.Columns != 2 {
		t.Errorf("columns: got %d, want default 2", gallery.Columns)
	}
	if len(gallery.Images) != 2 {
		t.Fatalf("images: got %d, want 2", len(gallery.Images))
	}
	// sort_order wins over payload order.
	if gallery.Images[0].Alt != "first" {
		t.Errorf("image order wrong: %+v", gallery.Images)
	}

	// Update with a new image list replaces wholesale.
	found, err := s.Update(id, &models.PostInput{
		Images: []models.GalleryImageInput{
			{ImageURL: "https://img.example.com/only.jpg"},
		},
	})
	if err != nil || !found {
		t.Fatalf("Update: found=%v err=%v", found, err)
	}
	post, _ = s.Find(id.String())
	gallery = post.(*models.GalleryPost)
	if len(gallery.Images) != 1 || gallery.Images[0].URL != "https://img.example.com/only.jpg" {
		t.Errorf("images after replace: %+v", gallery.Images)
	}
}

func TestPostStoreRankingRoundTrip(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-ranking-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	in := &models.PostInput{
		Slug:  strPtr(slug),
		Type:  strPtr("ranking"),
		Title: strPtr("Top Albums"),
		Items: []models.RankingItemInput{
			{Rank: 2, SubjectTitle: "Second", ItemType: "album"},
			{Rank: 1, SubjectTitle: "First", ItemType: "album", Rating: floatPtr(9.5)},
		},
	}
	id, _, err := s.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, err := s.Find(id.String())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	ranking := post.(*models.RankingPost)
	if len(ranking.Items) != 2 {
		t.Fatalf("items: got %d", len(ranking.Items))
	}
	// Ordered by rank, not insertion order.
	if ranking.Items[0].SubjectTitle != "First" {
		t.Errorf("item order: %+v", ranking.Items)
	}
	if ranking.Items[0].Rating == nil || *ranking.Items[0].Rating != 9.5 {
		t.Errorf("rating: %v", ranking.Items[0].Rating)
	}
}

func TestPostStoreUpdatePatchSemantics(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-patch-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	id, _, err := s.Create(&models.PostInput{
		Slug:     strPtr(slug),
		Type:     strPtr("photo"),
		Title:    strPtr("Sunset"),
		ImageURL: strPtr("https://img.example.com/sunset.jpg"),
		Camera:   strPtr("X100V"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Patch only the base title and the satellite location; the camera and
	// image URL must survive untouched.
	found, err := s.Update(id, &models.PostInput{
		Title:    strPtr("Sunset, Revisited"),
		Location: strPtr("Lisboa"),
	})
	if err != nil || !found {
		t.Fatalf("Update: found=%v err=%v", found, err)
	}

	post, err := s.Find(id.String())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	photo := post.(*models.PhotoPost)
	if photo.Title != "Sunset, Revisited" {
		t.Errorf("title: %q", photo.Title)
	}
	if photo.Image.URL != "https://img.example.com/sunset.jpg" {
		t.Errorf("image url clobbered: %q", photo.Image.URL)
	}
	if photo.Camera == nil || *photo.Camera != "X100V" {
		t.Errorf("camera clobbered: %v", photo.Camera)
	}
	if photo.Location == nil || *photo.Location != "Lisboa" {
		t.Errorf("location: %v", photo.Location)
	}
	if photo.UpdatedAt == nil {
		t.Error("base patch should bump updated_at")
	}
}

func TestPostStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	found, err := s.Update(uuid.New(), &models.PostInput{Title: strPtr("nope")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if found {
		t.Error("update of a missing post reported found")
	}
}

func TestPostStorePublishedAtSetOnce(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-publish-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	id, _, err := s.Create(&models.PostInput{
		Slug:    strPtr(slug),
		Type:    strPtr("thought"),
		Title:   strPtr("Draft First"),
		Content: strPtr("..."),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, _ := s.Find(id.String())
	if post.Base().PublishedAt != nil {
		t.Fatal("draft should not have published_at")
	}

	if _, err := s.Update(id, &models.PostInput{Status: strPtr("published")}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	post, _ = s.Find(id.String())
	first := post.Base().PublishedAt
	if first == nil {
		t.Fatal("publishing should stamp published_at")
	}

	// Archive then republish: the stamp must not move.
	if _, err := s.Update(id, &models.PostInput{Status: strPtr("archived")}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := s.Update(id, &models.PostInput{Status: strPtr("published")}); err != nil {
		t.Fatalf("republish: %v", err)
	}
	post, _ = s.Find(id.String())
	if !post.Base().PublishedAt.Equal(*first) {
		t.Errorf("published_at moved: %v -> %v", first, post.Base().PublishedAt)
	}
}

func TestPostStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	marker := "test-list-" + uuid.NewString()[:8]
	slugA := marker + "-a"
	slugB := marker + "-b"
	t.Cleanup(func() { cleanPosts(t, db, slugA, slugB) })

	if _, _, err := s.Create(&models.PostInput{
		Slug: strPtr(slugA), Type: strPtr("thought"), Title: strPtr("List Thought"),
		Status: strPtr("published"), Content: strPtr("x"), Tags: []string{marker},
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, _, err := s.Create(&models.PostInput{
		Slug: strPtr(slugB), Type: strPtr("link"), Title: strPtr("List Link"),
		URL: strPtr("https://example.com"), Tags: []string{marker},
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}

	// Tag filter matches both.
	posts, total, err := s.List(ListFilter{Tag: marker})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Errorf("tag filter: total=%d len=%d, want 2 2", total, len(posts))
	}

	// Type filter narrows to the thought.
	posts, total, err = s.List(ListFilter{Tag: marker, Types: []string{"thought"}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("type filter: total=%d len=%d, want 1 1", total, len(posts))
	}
	if _, ok := posts[0].(*models.ThoughtPost); !ok {
		t.Errorf("got %T, want *ThoughtPost", posts[0])
	}

	// Status filter.
	_, total, err = s.List(ListFilter{Tag: marker, Status: "published"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("status filter: total=%d, want 1", total)
	}

	// Search hits the title case-insensitively.
	_, total, err = s.List(ListFilter{Tag: marker, Search: strings.ToUpper("list link")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("search filter: total=%d, want 1", total)
	}

	// Pagination: one per page.
	posts, total, err = s.List(ListFilter{Tag: marker, Limit: 1, Page: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(posts) != 1 {
		t.Errorf("page 2: total=%d len=%d, want 2 1", total, len(posts))
	}
}

func TestPostStoreDeleteCascades(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-delete-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	id, _, err := s.Create(&models.PostInput{
		Slug:  strPtr(slug),
		Type:  strPtr("gallery"),
		Title: strPtr("Doomed Gallery"),
		Images: []models.GalleryImageInput{
			{ImageURL: "https://img.example.com/gone.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := s.Delete(id)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete reported nothing removed")
	}

	var n int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM gallery_images WHERE gallery_id = $1", id,
	).Scan(&n); err != nil {
		t.Fatalf("count children: %v", err)
	}
	if n != 0 {
		t.Errorf("%d gallery images survived the cascade", n)
	}

	deleted, err = s.Delete(id)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Error("second delete reported success")
	}
}

func TestPostStoreAttachMedia(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	marker := "test-attach-" + uuid.NewString()[:8]
	photoSlug := marker + "-photo"
	gallerySlug := marker + "-gal"
	thoughtSlug := marker + "-th"
	t.Cleanup(func() { cleanPosts(t, db, photoSlug, gallerySlug, thoughtSlug) })

	photoID, _, err := s.Create(&models.PostInput{
		Slug: strPtr(photoSlug), Type: strPtr("photo"), Title: strPtr("P"),
	})
	if err != nil {
		t.Fatalf("Create photo: %v", err)
	}
	galleryID, _, err := s.Create(&models.PostInput{
		Slug: strPtr(gallerySlug), Type: strPtr("gallery"), Title: strPtr("G"),
	})
	if err != nil {
		t.Fatalf("Create gallery: %v", err)
	}
	thoughtID, _, err := s.Create(&models.PostInput{
		Slug: strPtr(thoughtSlug), Type: strPtr("thought"), Title: strPtr("T"),
		Content: strPtr("x"),
	})
	if err != nil {
		t.Fatalf("Create thought: %v", err)
	}

	url := "https://cdn.example.com/" + marker + ".jpg"

	// Photo: the attached URL becomes the image, the alt lands beside it.
	typ, found, err := s.AttachMedia(photoID, url, strPtr("a red door"))
	if err != nil || !found || typ != models.TypePhoto {
		t.Fatalf("AttachMedia photo: typ=%v found=%v err=%v", typ, found, err)
	}
	post, _ := s.Find(photoID.String())
	photo := post.(*models.PhotoPost)
	if photo.Image.URL != url {
		t.Errorf("photo image = %q, want %q", photo.Image.URL, url)
	}
	if photo.Image.Alt != "a red door" {
		t.Errorf("photo alt = %q, want %q", photo.Image.Alt, "a red door")
	}

	// Gallery: attachments append in order.
	if _, _, err := s.AttachMedia(galleryID, url+"?1", nil); err != nil {
		t.Fatalf("AttachMedia gallery: %v", err)
	}
	if _, _, err := s.AttachMedia(galleryID, url+"?2", strPtr("second")); err != nil {
		t.Fatalf("AttachMedia gallery: %v", err)
	}
	post, _ = s.Find(galleryID.String())
	gallery := post.(*models.GalleryPost)
	if len(gallery.Images) != 2 || gallery.Images[1].URL != url+"?2" {
		t.Errorf("gallery images = %+v", gallery.Images)
	}
	if len(gallery.Images) == 2 && gallery.Images[1].Alt != "second" {
		t.Errorf("gallery alt = %q, want %q", gallery.Images[1].Alt, "second")
	}

	// Thought: accepted but nothing persisted.
	typ, found, err = s.AttachMedia(thoughtID, url, nil)
	if err != nil || !found || typ != models.TypeThought {
		t.Fatalf("AttachMedia thought: typ=%v found=%v err=%v", typ, found, err)
	}

	// Missing post.
	_, found, err = s.AttachMedia(uuid.New(), url, nil)
	if err != nil {
		t.Fatalf("AttachMedia missing: %v", err)
	}
	if found {
		t.Error("attach to a missing post reported found")
	}
}

func TestPostStoreAttachMediaMany(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-multi-attach-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	id, _, err := s.Create(&models.PostInput{
		Slug: strPtr(slug), Type: strPtr("gallery"), Title: strPtr("Batch"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	images := []AttachedImage{
		{URL: "https://cdn.example.com/batch-0.jpg", Alt: strPtr("first")},
		{URL: "https://cdn.example.com/batch-1.jpg"},
		{URL: "https://cdn.example.com/batch-2.jpg", Alt: strPtr("third")},
	}
	typ, found, attached, err := s.AttachMediaMany(id, images)
	if err != nil || !found || typ != models.TypeGallery {
		t.Fatalf("AttachMediaMany: typ=%v found=%v err=%v", typ, found, err)
	}
	if len(attached) != 3 {
		t.Fatalf("attached = %d, want 3", len(attached))
	}
	if attached[0].Alt == nil || *attached[0].Alt != "first" {
		t.Errorf("attached[0].Alt = %v, want %q", attached[0].Alt, "first")
	}

	post, _ := s.Find(id.String())
	gallery := post.(*models.GalleryPost)
	if len(gallery.Images) != 3 {
		t.Fatalf("images = %d, want 3", len(gallery.Images))
	}
	wantAlts := []string{"first", "", "third"}
	for i, img := range images {
		if gallery.Images[i].URL != img.URL {
			t.Errorf("image[%d] = %q, want %q", i, gallery.Images[i].URL, img.URL)
		}
		if gallery.Images[i].Alt != wantAlts[i] {
			t.Errorf("image[%d] alt = %q, want %q", i, gallery.Images[i].Alt, wantAlts[i])
		}
	}
}

func TestPostStoreUnknownTypeCreateBaseOnly(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)

	slug := "test-unknown-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	// The handler rejects unknown types; the store stays permissive and
	// writes the base row so forward-compat rows remain representable.
	id, _, err := s.Create(&models.PostInput{
		Slug: strPtr(slug), Type: strPtr("hologram"), Title: strPtr("Future"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	post, err := s.Find(id.String())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if _, ok := post.(*models.PostBase); !ok {
		t.Errorf("got %T, want *PostBase", post)
	}
}
