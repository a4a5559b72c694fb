// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PostType discriminates the thirteen post variants.
type PostType string

const (
	TypeArticle        PostType = "article"
	TypePhoto          PostType = "photo"
	TypeGallery        PostType = "gallery"
	TypeThought        PostType = "thought"
	TypeMusic          PostType = "music"
	TypeVideo          PostType = "video"
	TypeProject        PostType = "project"
	TypeLink           PostType = "link"
	TypeAnnouncement   PostType = "announcement"
	TypeEvent          PostType = "event"
	TypeRecommendation PostType = "recommendation"
	TypeRanking        PostType = "ranking"
	TypeRating         PostType = "rating"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

// ValidStatus reports whether s is one of the declared status values.
func ValidStatus(s string) bool {
	switch PostStatus(s) {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// PostBase holds the fields shared by every post variant. It doubles as the
// decoded representation of posts whose type tag is unknown to this build:
// those degrade to base fields only instead of failing.
type PostBase struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Type        PostType   `json:"type"`
	Title       string     `json:"title"`
	Status      PostStatus `json:"status"`
	Featured    bool       `json:"featured"`
	Category    *string    `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Base returns the shared post fields. Every variant embeds PostBase, so
// this single method satisfies the Post interface for all of them.
func (b *PostBase) Base() *PostBase { return b }

// Post is the tagged union over the thirteen variants. Concrete values are
// pointers to the variant structs below (or *PostBase for unknown types);
// each marshals to a flat JSON object because the base is embedded.
type Post interface {
	Base() *PostBase
}

// ImageMedia is an image reference with display alt text.
type ImageMedia struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// AudioMedia describes a playable track on a music post.
type AudioMedia struct {
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    *string `json:"album,omitempty"`
	Genre    *string `json:"genre,omitempty"`
	Duration string  `json:"duration"`
	CoverURL *string `json:"coverUrl,omitempty"`
}

// VideoMedia describes an embedded or self-hosted video.
type VideoMedia struct {
	URL       string  `json:"url"`
	EmbedURL  *string `json:"embedUrl,omitempty"`
	Thumbnail *string `json:"thumbnail,omitempty"`
	Duration  *string `json:"duration,omitempty"`
	Provider  *string `json:"provider,omitempty"`
}

// LatLng is a geographic coordinate pair on an event location.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EventLocation describes where an event takes place, physically or online.
type EventLocation struct {
	Name        string  `json:"name"`
	Address     *string `json:"address,omitempty"`
	Coordinates *LatLng `json:"coordinates,omitempty"`
	Virtual     *bool   `json:"virtual,omitempty"`
	URL         *string `json:"url,omitempty"`
}

// RankingItem is one entry of a ranking post's ordered list. Rank is the
// user-assigned display rank; storage order breaks ties.
type RankingItem struct {
	Rank         int         `json:"rank"`
	SubjectTitle string      `json:"subjectTitle"`
	ItemType     string      `json:"itemType"`
	CoverImage   *ImageMedia `json:"coverImage,omitempty"`
	Rating       *float64    `json:"rating,omitempty"`
	Description  *string     `json:"description,omitempty"`
	ExternalURL  *string     `json:"externalUrl,omitempty"`
}

// ArticlePost is a long-form article or tutorial.
type ArticlePost struct {
	PostBase
	Excerpt     string      `json:"excerpt"`
	Content     string      `json:"content"`
	ContentHTML string      `json:"contentHtml,omitempty"`
	CoverImage  *ImageMedia `json:"coverImage,omitempty"`
	ReadTime    *string     `json:"readTime,omitempty"`
}

// PhotoPost is a single featured photograph.
type PhotoPost struct {
	PostBase
	Image    ImageMedia `json:"image"`
	Camera   *string    `json:"camera,omitempty"`
	Settings *string    `json:"settings,omitempty"`
	Location *string    `json:"location,omitempty"`
}

// GalleryPost is an ordered collection of photographs.
type GalleryPost struct {
	PostBase
	Description *string      `json:"description,omitempty"`
	Images      []ImageMedia `json:"images"`
	Columns     int          `json:"columns"`
}

// ThoughtPost is a short note, quote, or reflection.
type ThoughtPost struct {
	PostBase
	Content     string  `json:"content"`
	ContentHTML string  `json:"contentHtml,omitempty"`
	Source      *string `json:"source,omitempty"`
	Style       *string `json:"style,omitempty"`
	Mood        *string `json:"mood,omitempty"`
}

// MusicPost is a track or album, optionally enriched with streaming links.
type MusicPost struct {
	PostBase
	Audio         AudioMedia      `json:"audio"`
	Description   *string         `json:"description,omitempty"`
	MusicType     *string         `json:"musicType,omitempty"`
	SpotifyID     *string         `json:"spotifyId,omitempty"`
	SpotifyURL    *string         `json:"spotifyUrl,omitempty"`
	AppleMusicURL *string         `json:"appleMusicUrl,omitempty"`
	YouTubeURL    *string         `json:"youtubeUrl,omitempty"`
	ReleaseDate   *string         `json:"releaseDate,omitempty"`
	TotalTracks   *int            `json:"totalTracks,omitempty"`
	Tracks        json.RawMessage `json:"tracks,omitempty"`
}

// VideoPost is an embedded or self-hosted video.
type VideoPost struct {
	PostBase
	Video       VideoMedia `json:"video"`
	Description *string    `json:"description,omitempty"`
	Transcript  *string    `json:"transcript,omitempty"`
}

// ProjectPost is a portfolio project entry.
type ProjectPost struct {
	PostBase
	Description  string      `json:"description"`
	CoverImage   *ImageMedia `json:"coverImage,omitempty"`
	Technologies []string    `json:"technologies,omitempty"`
	LiveURL      *string     `json:"liveUrl,omitempty"`
	RepoURL      *string     `json:"repoUrl,omitempty"`
	ProjStatus   *string     `json:"projectStatus,omitempty"`
}

// LinkPost is an external link with preview metadata.
type LinkPost struct {
	PostBase
	URL         string      `json:"url"`
	Description *string     `json:"description,omitempty"`
	SiteName    *string     `json:"siteName,omitempty"`
	Image       *ImageMedia `json:"image,omitempty"`
}

// AnnouncementPost is a site-wide announcement, optionally with a CTA.
type AnnouncementPost struct {
	PostBase
	Content     string     `json:"content"`
	ContentHTML string     `json:"contentHtml,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	CTAText     *string    `json:"ctaText,omitempty"`
	CTAURL      *string    `json:"ctaUrl,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// EventPost is a dated event with optional location and registration info.
type EventPost struct {
	PostBase
	Description     string         `json:"description"`
	Content         *string        `json:"content,omitempty"`
	CoverImage      *ImageMedia    `json:"coverImage,omitempty"`
	StartDate       *time.Time     `json:"startDate,omitempty"`
	EndDate         *time.Time     `json:"endDate,omitempty"`
	Location        *EventLocation `json:"location,omitempty"`
	RegistrationURL *string        `json:"registrationUrl,omitempty"`
	Price           *string        `json:"price,omitempty"`
	Capacity        *int           `json:"capacity,omitempty"`
}

// RecommendationPost recommends a series, film, book, podcast, or similar.
type RecommendationPost struct {
	PostBase
	SubjectTitle       string      `json:"subjectTitle"`
	RecommendationType string      `json:"recommendationType"`
	Description        *string     `json:"description,omitempty"`
	CoverImage         *ImageMedia `json:"coverImage,omitempty"`
	Rating             *float64    `json:"rating,omitempty"`
	ExternalURL        *string     `json:"externalUrl,omitempty"`
	RecommendedByUser  *bool       `json:"recommendedByUser,omitempty"`
	Compact            *bool       `json:"compact,omitempty"`
}

// RankingPost is an ordered list of ranked items.
type RankingPost struct {
	PostBase
	Description *string       `json:"description,omitempty"`
	Items       []RankingItem `json:"items"`
	CoverImage  *ImageMedia   `json:"coverImage,omitempty"`
}

// RatingPost is a single item rating.
type RatingPost struct {
	PostBase
	SubjectTitle string      `json:"subjectTitle"`
	ItemType     string      `json:"itemType"`
	CoverImage   *ImageMedia `json:"coverImage,omitempty"`
	Rating       float64     `json:"rating"`
	Liked        *bool       `json:"liked,omitempty"`
	Comment      *string     `json:"comment,omitempty"`
}
