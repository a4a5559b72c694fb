package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vinicio/internal/models"
)

func TestRegistryCoversEveryType(t *testing.T) {
	types := []models.PostType{
		models.TypeArticle, models.TypePhoto, models.TypeGallery,
		models.TypeThought, models.TypeMusic, models.TypeVideo,
		models.TypeProject, models.TypeLink, models.TypeAnnouncement,
		models.TypeEvent, models.TypeRecommendation, models.TypeRanking,
		models.TypeRating,
	}
	if len(typeRegistry) != len(types) {
		t.Errorf("registry has %d entries, want %d", len(typeRegistry), len(types))
	}
	for _, typ := range types {
		spec, ok := typeRegistry[typ]
		if !ok {
			t.Errorf("registry missing %s", typ)
			continue
		}
		if spec.table == "" || len(spec.columns) == 0 {
			t.Errorf("%s: incomplete spec %+v", typ, spec)
		}
	}
	if !KnownType("article") {
		t.Error("KnownType(article) = false")
	}
	if KnownType("podcast") {
		t.Error("KnownType(podcast) = true, want false")
	}
}

func TestRegistryChildSpecs(t *testing.T) {
	for typ, spec := range typeRegistry {
		hasChildren := spec.children != nil
		wantChildren := typ == models.TypeGallery || typ == models.TypeRanking
		if hasChildren != wantChildren {
			t.Errorf("%s: children = %v, want %v", typ, hasChildren, wantChildren)
		}
	}

	gallery := typeRegistry[models.TypeGallery]
	if gallery.children.present(&models.PostInput{}) {
		t.Error("gallery children present with no images field")
	}
	if !gallery.children.present(&models.PostInput{Images: []models.GalleryImageInput{}}) {
		t.Error("an explicit empty image list must count as present (clears the gallery)")
	}
}

func TestInsertSQLBindsAbsentAsNull(t *testing.T) {
	spec := typeRegistry[models.TypeArticle]
	query, argFn := spec.insertSQL()

	if !strings.HasPrefix(query, `INSERT INTO articles (id, "excerpt", "content"`) {
		t.Errorf("unexpected insert: %s", query)
	}

	id := uuid.New()
	excerpt := "short"
	args := argFn(id, &models.PostInput{Excerpt: &excerpt})
	if len(args) != len(spec.columns)+1 {
		t.Fatalf("args = %d, want %d", len(args), len(spec.columns)+1)
	}
	if args[0] != id {
		t.Errorf("first arg = %v, want post id", args[0])
	}
	if args[1] != "short" {
		t.Errorf("excerpt arg = %v", args[1])
	}
	// content was absent; it must bind NULL, not the empty string.
	if args[2] != nil {
		t.Errorf("absent content bound %v, want nil", args[2])
	}
}

func TestUpdateSQLCoalescesEveryColumn(t *testing.T) {
	spec := typeRegistry[models.TypeRating]
	query, argFn := spec.updateSQL()

	for _, col := range spec.columns {
		fragment := quoteIdent(col.name) + " = COALESCE($"
		if !strings.Contains(query, fragment) {
			t.Errorf("update missing COALESCE for %s: %s", col.name, query)
		}
	}
	if !strings.HasSuffix(query, "WHERE id = $8") {
		t.Errorf("id placeholder misplaced: %s", query)
	}

	id := uuid.New()
	liked := true
	args := argFn(id, &models.PostInput{Liked: &liked})
	if args[len(args)-1] != id {
		t.Errorf("last arg = %v, want post id", args[len(args)-1])
	}
}

func TestProjectTechnologiesBindAsArray(t *testing.T) {
	spec := typeRegistry[models.TypeProject]
	_, argFn := spec.insertSQL()

	in := &models.PostInput{Technologies: []string{"go", "postgres"}}
	args := argFn(uuid.New(), in)

	var found bool
	for _, a := range args {
		if arr, ok := a.(pq.StringArray); ok {
			found = true
			if len(arr) != 2 || arr[0] != "go" {
				t.Errorf("technologies bound as %v", arr)
			}
		}
	}
	if !found {
		t.Errorf("no pq.StringArray among args %v", args)
	}
}
