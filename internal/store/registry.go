package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vinicio/internal/models"
)

// colBinding ties one satellite column to the input field that feeds it.
// value returns nil when the field is absent from the payload, which binds
// NULL on insert and keeps the stored value on a COALESCE update.
type colBinding struct {
	name  string
	value func(in *models.PostInput) any
}

// childOps handles a type's ordered child collection (gallery images,
// ranking items). replace is replace-on-write: it only runs when present
// reports the payload carries the list.
type childOps struct {
	present func(in *models.PostInput) bool
	replace func(tx *sql.Tx, postID uuid.UUID, in *models.PostInput) error
}

// typeSpec declares how one post type maps to storage. Adding a type means
// adding a registry entry, a decode case, and a migration; nothing in the
// write paths changes.
type typeSpec struct {
	table    string
	columns  []colBinding
	children *childOps
}

func strArg(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolArg(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func arrayArg(a []string) any {
	if a == nil {
		return nil
	}
	return pq.StringArray(a)
}

func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// typeRegistry maps every post type to its satellite declaration. Read
// paths do not consult it; the decode projections are explicit per type.
var typeRegistry = map[models.PostType]typeSpec{
	models.TypeArticle: {
		table: "articles",
		columns: []colBinding{
			{"excerpt", func(in *models.PostInput) any { return strArg(in.Excerpt) }},
			{"content", func(in *models.PostInput) any { return strArg(in.Content) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"cover_image_alt", func(in *models.PostInput) any { return strArg(in.CoverImageAlt) }},
			{"read_time", func(in *models.PostInput) any { return strArg(in.ReadTime) }},
		},
	},
	models.TypePhoto: {
		table: "photos",
		columns: []colBinding{
			{"image_url", func(in *models.PostInput) any { return strArg(in.ImageURL) }},
			{"image_alt", func(in *models.PostInput) any { return strArg(in.ImageAlt) }},
			{"location", func(in *models.PostInput) any { return strArg(in.Location) }},
			{"camera", func(in *models.PostInput) any { return strArg(in.Camera) }},
			{"settings", func(in *models.PostInput) any { return strArg(in.Settings) }},
		},
	},
	models.TypeGallery: {
		table: "galleries",
		columns: []colBinding{
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"columns", func(in *models.PostInput) any { return intArg(in.Columns) }},
		},
		children: &childOps{
			present: func(in *models.PostInput) bool { return in.Images != nil },
			replace: replaceGalleryImages,
		},
	},
	models.TypeThought: {
		table: "thoughts",
		columns: []colBinding{
			{"content", func(in *models.PostInput) any { return strArg(in.Content) }},
			{"source", func(in *models.PostInput) any { return strArg(in.Source) }},
			{"style", func(in *models.PostInput) any { return strArg(in.Style) }},
			{"mood", func(in *models.PostInput) any { return strArg(in.Mood) }},
		},
	},
	models.TypeMusic: {
		table: "music",
		columns: []colBinding{
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"audio_url", func(in *models.PostInput) any { return strArg(in.AudioURL) }},
			{"audio_title", func(in *models.PostInput) any { return strArg(in.AudioTitle) }},
			{"artist", func(in *models.PostInput) any { return strArg(in.Artist) }},
			{"album", func(in *models.PostInput) any { return strArg(in.Album) }},
			{"genre", func(in *models.PostInput) any { return strArg(in.Genre) }},
			{"duration", func(in *models.PostInput) any { return strArg(in.Duration) }},
			{"cover_url", func(in *models.PostInput) any { return strArg(in.CoverURL) }},
			{"music_type", func(in *models.PostInput) any { return strArg(in.MusicType) }},
			{"spotify_id", func(in *models.PostInput) any { return strArg(in.SpotifyID) }},
			{"spotify_url", func(in *models.PostInput) any { return strArg(in.SpotifyURL) }},
			{"apple_music_url", func(in *models.PostInput) any { return strArg(in.AppleMusicURL) }},
			{"youtube_url", func(in *models.PostInput) any { return strArg(in.YouTubeURL) }},
			{"release_date", func(in *models.PostInput) any { return strArg(in.ReleaseDate) }},
			{"total_tracks", func(in *models.PostInput) any { return intArg(in.TotalTracks) }},
			{"tracks", func(in *models.PostInput) any { return jsonArg(in.Tracks) }},
		},
	},
	models.TypeVideo: {
		table: "videos",
		columns: []colBinding{
			{"video_url", func(in *models.PostInput) any { return strArg(in.VideoURL) }},
			{"embed_url", func(in *models.PostInput) any { return strArg(in.EmbedURL) }},
			{"thumbnail_url", func(in *models.PostInput) any { return strArg(in.ThumbnailURL) }},
			{"duration", func(in *models.PostInput) any { return strArg(in.Duration) }},
			{"provider", func(in *models.PostInput) any { return strArg(in.Provider) }},
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"transcript", func(in *models.PostInput) any { return strArg(in.Transcript) }},
		},
	},
	models.TypeProject: {
		table: "projects",
		columns: []colBinding{
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"technologies", func(in *models.PostInput) any { return arrayArg(in.Technologies) }},
			{"status", func(in *models.PostInput) any { return strArg(in.ProjectStatus) }},
			{"live_url", func(in *models.PostInput) any { return strArg(in.LiveURL) }},
			{"repo_url", func(in *models.PostInput) any { return strArg(in.RepoURL) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"cover_image_alt", func(in *models.PostInput) any { return strArg(in.CoverImageAlt) }},
		},
	},
	models.TypeLink: {
		table: "links",
		columns: []colBinding{
			{"url", func(in *models.PostInput) any { return strArg(in.URL) }},
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"site_name", func(in *models.PostInput) any { return strArg(in.SiteName) }},
			{"image_url", func(in *models.PostInput) any { return strArg(in.ImageURL) }},
			{"image_alt", func(in *models.PostInput) any { return strArg(in.ImageAlt) }},
		},
	},
	models.TypeAnnouncement: {
		table: "announcements",
		columns: []colBinding{
			{"content", func(in *models.PostInput) any { return strArg(in.Content) }},
			{"priority", func(in *models.PostInput) any { return strArg(in.Priority) }},
			{"cta_text", func(in *models.PostInput) any { return strArg(in.CTAText) }},
			{"cta_url", func(in *models.PostInput) any { return strArg(in.CTAURL) }},
			{"expires_at", func(in *models.PostInput) any { return strArg(in.ExpiresAt) }},
		},
	},
	models.TypeEvent: {
		table: "events",
		columns: []colBinding{
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"content", func(in *models.PostInput) any { return strArg(in.Content) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"start_date", func(in *models.PostInput) any { return strArg(in.StartDate) }},
			{"end_date", func(in *models.PostInput) any { return strArg(in.EndDate) }},
			{"location_name", func(in *models.PostInput) any { return strArg(in.LocationName) }},
			{"location_address", func(in *models.PostInput) any { return strArg(in.LocationAddress) }},
			{"location_lat", func(in *models.PostInput) any { return floatArg(in.LocationLat) }},
			{"location_lng", func(in *models.PostInput) any { return floatArg(in.LocationLng) }},
			{"is_virtual", func(in *models.PostInput) any { return boolArg(in.IsVirtual) }},
			{"virtual_url", func(in *models.PostInput) any { return strArg(in.VirtualURL) }},
			{"registration_url", func(in *models.PostInput) any { return strArg(in.RegistrationURL) }},
			{"price", func(in *models.PostInput) any { return strArg(in.Price) }},
			{"capacity", func(in *models.PostInput) any { return intArg(in.Capacity) }},
		},
	},
	models.TypeRecommendation: {
		table: "recommendations",
		columns: []colBinding{
			{"subject_title", func(in *models.PostInput) any { return strArg(in.SubjectTitle) }},
			{"recommendation_type", func(in *models.PostInput) any { return strArg(in.RecommendationType) }},
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"cover_image_alt", func(in *models.PostInput) any { return strArg(in.CoverImageAlt) }},
			{"rating", func(in *models.PostInput) any { return floatArg(in.Rating) }},
			{"external_url", func(in *models.PostInput) any { return strArg(in.ExternalURL) }},
			{"recommended_by_user", func(in *models.PostInput) any { return boolArg(in.RecommendedByUser) }},
			{"compact", func(in *models.PostInput) any { return boolArg(in.Compact) }},
		},
	},
	models.TypeRating: {
		table: "ratings",
		columns: []colBinding{
			{"subject_title", func(in *models.PostInput) any { return strArg(in.SubjectTitle) }},
			{"item_type", func(in *models.PostInput) any { return strArg(in.ItemType) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"cover_image_alt", func(in *models.PostInput) any { return strArg(in.CoverImageAlt) }},
			{"rating", func(in *models.PostInput) any { return floatArg(in.Rating) }},
			{"liked", func(in *models.PostInput) any { return boolArg(in.Liked) }},
			{"comment", func(in *models.PostInput) any { return strArg(in.Comment) }},
		},
	},
	models.TypeRanking: {
		table: "rankings",
		columns: []colBinding{
			{"description", func(in *models.PostInput) any { return strArg(in.Description) }},
			{"cover_image_url", func(in *models.PostInput) any { return strArg(in.CoverImageURL) }},
			{"cover_image_alt", func(in *models.PostInput) any { return strArg(in.CoverImageAlt) }},
		},
		children: &childOps{
			present: func(in *models.PostInput) bool { return in.Items != nil },
			replace: replaceRankingItems,
		},
	},
}

// KnownType reports whether t names a registered post type.
func KnownType(t string) bool {
	_, ok := typeRegistry[models.PostType(t)]
	return ok
}

// insertSQL renders the satellite insert with the post id in $1 and every
// registered column after it, absent fields binding NULL.
func (s typeSpec) insertSQL() (string, func(postID uuid.UUID, in *models.PostInput) []any) {
	names := make([]string, 0, len(s.columns)+1)
	placeholders := make([]string, 0, len(s.columns)+1)
	names = append(names, "id")
	placeholders = append(placeholders, "$1")
	for i, c := range s.columns {
		names = append(names, quoteIdent(c.name))
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.table, strings.Join(names, ", "), strings.Join(placeholders, ", "),
	)
	args := func(postID uuid.UUID, in *models.PostInput) []any {
		out := make([]any, 0, len(s.columns)+1)
		out = append(out, postID)
		for _, c := range s.columns {
			out = append(out, c.value(in))
		}
		return out
	}
	return query, args
}

// updateSQL renders the patch update: every column COALESCEs its bind with
// the stored value, so absent fields (NULL binds) leave data untouched.
func (s typeSpec) updateSQL() (string, func(postID uuid.UUID, in *models.PostInput) []any) {
	sets := make([]string, 0, len(s.columns))
	for i, c := range s.columns {
		ident := quoteIdent(c.name)
		sets = append(sets, fmt.Sprintf("%s = COALESCE($%d, %s)", ident, i+1, ident))
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		s.table, strings.Join(sets, ", "), len(s.columns)+1,
	)
	args := func(postID uuid.UUID, in *models.PostInput) []any {
		out := make([]any, 0, len(s.columns)+1)
		for _, c := range s.columns {
			out = append(out, c.value(in))
		}
		out = append(out, postID)
		return out
	}
	return query, args
}

// quoteIdent protects registry column names that collide with keywords
// ("columns", "comment").
func quoteIdent(name string) string {
	return `"` + name + `"`
}
