package models

import "encoding/json"

// GalleryImageInput is one gallery image in a create/update payload.
type GalleryImageInput struct {
	ImageURL  string  `json:"image_url"`
	ImageAlt  *string `json:"image_alt"`
	SortOrder *int    `json:"sort_order"`
}

// RankingItemInput is one ranked item in a create/update payload.
type RankingItemInput struct {
	Rank          int      `json:"rank"`
	SubjectTitle  string   `json:"subject_title"`
	ItemType      string   `json:"item_type"`
	CoverImageURL *string  `json:"cover_image_url"`
	CoverImageAlt *string  `json:"cover_image_alt"`
	Rating        *float64 `json:"rating"`
	Description   *string  `json:"description"`
	ExternalURL   *string  `json:"external_url"`
	SortOrder     *int     `json:"sort_order"`
}

// AudioInput is the nested audio object accepted on music payloads as an
// alternative to the flat audio_* fields.
type AudioInput struct {
	URL      *string `json:"url"`
	Title    *string `json:"title"`
	Artist   *string `json:"artist"`
	Album    *string `json:"album"`
	Genre    *string `json:"genre"`
	Duration *string `json:"duration"`
	CoverURL *string `json:"coverUrl"`
}

// PostInput is the flat superset of every field a create or update payload
// can carry across the thirteen post types. Pointer fields distinguish
// "absent" (nil) from "present" so updates can patch only what the caller
// sent; the type registry decides which fields each variant persists.
type PostInput struct {
	// Base fields.
	Slug     *string  `json:"slug"`
	Type     *string  `json:"type"`
	Title    *string  `json:"title"`
	Status   *string  `json:"status"`
	Featured *bool    `json:"featured"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`

	// Shared across several variants.
	Content       *string `json:"content"`
	Description   *string `json:"description"`
	CoverImageURL *string `json:"cover_image_url"`
	CoverImageAlt *string `json:"cover_image_alt"`

	// Article.
	Excerpt  *string `json:"excerpt"`
	ReadTime *string `json:"read_time"`

	// Photo (image_url/image_alt also serve link previews).
	ImageURL *string `json:"image_url"`
	ImageAlt *string `json:"image_alt"`
	Location *string `json:"location"`
	Camera   *string `json:"camera"`
	Settings *string `json:"settings"`

	// Gallery.
	Columns *int                `json:"columns"`
	Images  []GalleryImageInput `json:"images"`

	// Thought.
	Source *string `json:"source"`
	Style  *string `json:"style"`
	Mood   *string `json:"mood"`

	// Music. The flat fields win over the nested audio object.
	Audio         *AudioInput     `json:"audio"`
	AudioURL      *string         `json:"audio_url"`
	AudioTitle    *string         `json:"audio_title"`
	Artist        *string         `json:"artist"`
	Album         *string         `json:"album"`
	Genre         *string         `json:"genre"`
	Duration      *string         `json:"duration"`
	CoverURL      *string         `json:"cover_url"`
	MusicType     *string         `json:"music_type"`
	SpotifyID     *string         `json:"spotify_id"`
	SpotifyURL    *string         `json:"spotify_url"`
	AppleMusicURL *string         `json:"apple_music_url"`
	YouTubeURL    *string         `json:"youtube_url"`
	ReleaseDate   *string         `json:"release_date"`
	TotalTracks   *int            `json:"total_tracks"`
	Tracks        json.RawMessage `json:"tracks"`

	// Video.
	VideoURL     *string `json:"video_url"`
	EmbedURL     *string `json:"embed_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Provider     *string `json:"provider"`
	Transcript   *string `json:"transcript"`

	// Project.
	Technologies  []string `json:"technologies"`
	ProjectStatus *string  `json:"project_status"`
	LiveURL       *string  `json:"live_url"`
	RepoURL       *string  `json:"repo_url"`

	// Link.
	URL      *string `json:"url"`
	SiteName *string `json:"site_name"`

	// Announcement.
	Priority  *string `json:"priority"`
	CTAText   *string `json:"cta_text"`
	CTAURL    *string `json:"cta_url"`
	ExpiresAt *string `json:"expires_at"`

	// Event.
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	LocationName    *string  `json:"location_name"`
	LocationAddress *string  `json:"location_address"`
	LocationLat     *float64 `json:"location_lat"`
	LocationLng     *float64 `json:"location_lng"`
	IsVirtual       *bool    `json:"is_virtual"`
	VirtualURL      *string  `json:"virtual_url"`
	RegistrationURL *string  `json:"registration_url"`
	Price           *string  `json:"price"`
	Capacity        *int     `json:"capacity"`

	// Recommendation / rating shared.
	SubjectTitle       *string  `json:"subject_title"`
	RecommendationType *string  `json:"recommendation_type"`
	ItemType           *string  `json:"item_type"`
	Rating             *float64 `json:"rating"`
	ExternalURL        *string  `json:"external_url"`
	RecommendedByUser  *bool    `json:"recommended_by_user"`
	Compact            *bool    `json:"compact"`
	Liked              *bool    `json:"liked"`
	Comment            *string  `json:"comment"`

	// Ranking.
	Items []RankingItemInput `json:"items"`
}

// Normalize folds the nested audio object into the flat music fields.
// Flat fields take precedence when both are present.
func (in *PostInput) Normalize() {
	a := in.Audio
	if a == nil {
		return
	}
	if in.AudioURL == nil {
		in.AudioURL = a.URL
	}
	if in.AudioTitle == nil {
		in.AudioTitle = a.Title
	}
	if in.Artist == nil {
		in.Artist = a.Artist
	}
	if in.Album == nil {
		in.Album = a.Album
	}
	if in.Genre == nil {
		in.Genre = a.Genre
	}
	if in.Duration == nil {
		in.Duration = a.Duration
	}
	if in.CoverURL == nil {
		in.CoverURL = a.CoverURL
	}
}
