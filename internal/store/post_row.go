package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vinicio/internal/models"
)

// postColumns is the projection shared by every post read: the base row plus
// the satellite of each type, LEFT JOINed so exactly one satellite is
// non-null per row. Scan order in scanPostRow must match.
const postColumns = `
	p.id, p.slug, p.type, p.title, p.status, p.featured, p.category, p.tags,
	p.created_at, p.updated_at, p.published_at,
	a.excerpt, a.content, a.cover_image_url AS article_cover_url,
	a.cover_image_alt AS article_cover_alt, a.read_time,
	ph.image_url AS photo_url, ph.image_alt AS photo_alt,
	ph.location AS photo_location, ph.camera AS photo_camera, ph.settings AS photo_settings,
	g.description AS gallery_description, g.columns AS gallery_columns,
	t.content AS thought_content, t.source AS thought_source,
	t.style AS thought_style, t.mood AS thought_mood,
	m.audio_url, m.audio_title, m.artist, m.album, m.genre, m.duration,
	m.cover_url AS music_cover_url, m.description AS music_description,
	m.music_type, m.spotify_id, m.spotify_url, m.apple_music_url,
	m.youtube_url, m.release_date, m.total_tracks, m.tracks,
	v.video_url, v.embed_url, v.thumbnail_url, v.duration AS video_duration,
	v.provider, v.description AS video_description, v.transcript,
	pr.description AS project_description, pr.technologies, pr.status AS project_status,
	pr.live_url, pr.repo_url, pr.cover_image_url AS project_cover_url,
	pr.cover_image_alt AS project_cover_alt,
	l.url AS link_url, l.description AS link_description, l.site_name,
	l.image_url AS link_image_url, l.image_alt AS link_image_alt,
	an.content AS announcement_content, an.priority AS announcement_priority,
	an.cta_text, an.cta_url, an.expires_at,
	e.description AS event_description, e.content AS event_content,
	e.cover_image_url AS event_cover_url,
	e.start_date, e.end_date, e.location_name, e.location_address,
	e.location_lat, e.location_lng, e.is_virtual, e.virtual_url,
	e.registration_url, e.price, e.capacity,
	rec.subject_title AS recommendation_subject, rec.recommendation_type,
	rec.description AS recommendation_description, rec.cover_image_url AS recommendation_cover_url,
	rec.cover_image_alt AS recommendation_cover_alt, rec.rating AS recommendation_rating,
	rec.external_url AS recommendation_external_url, rec.recommended_by_user,
	rec.compact AS recommendation_compact,
	rat.subject_title AS rating_subject, rat.item_type AS rating_item_type,
	rat.cover_image_url AS rating_cover_url, rat.cover_image_alt AS rating_cover_alt,
	rat.rating AS rating_value, rat.liked AS rating_liked, rat.comment AS rating_comment,
	rank.description AS ranking_description, rank.cover_image_url AS ranking_cover_url,
	rank.cover_image_alt AS ranking_cover_alt`

const postJoins = `
	FROM posts p
	LEFT JOIN articles a ON p.id = a.id AND p.type = 'article'
	LEFT JOIN photos ph ON p.id = ph.id AND p.type = 'photo'
	LEFT JOIN galleries g ON p.id = g.id AND p.type = 'gallery'
	LEFT JOIN thoughts t ON p.id = t.id AND p.type = 'thought'
	LEFT JOIN music m ON p.id = m.id AND p.type = 'music'
	LEFT JOIN videos v ON p.id = v.id AND p.type = 'video'
	LEFT JOIN projects pr ON p.id = pr.id AND p.type = 'project'
	LEFT JOIN links l ON p.id = l.id AND p.type = 'link'
	LEFT JOIN announcements an ON p.id = an.id AND p.type = 'announcement'
	LEFT JOIN events e ON p.id = e.id AND p.type = 'event'
	LEFT JOIN recommendations rec ON p.id = rec.id AND p.type = 'recommendation'
	LEFT JOIN ratings rat ON p.id = rat.id AND p.type = 'rating'
	LEFT JOIN rankings rank ON p.id = rank.id AND p.type = 'ranking'`

// postRow mirrors the wide projection. Satellite columns are nullable:
// only the joined table matching the row's type carries values.
type postRow struct {
	// Base.
	id          uuid.UUID
	slug        string
	typ         string
	title       string
	status      string
	featured    bool
	category    sql.NullString
	tags        pq.StringArray
	createdAt   time.Time
	updatedAt   sql.NullTime
	publishedAt sql.NullTime

	// Article.
	excerpt         sql.NullString
	content         sql.NullString
	articleCoverURL sql.NullString
	articleCoverAlt sql.NullString
	readTime        sql.NullString

	// Photo.
	photoURL      sql.NullString
	photoAlt      sql.NullString
	photoLocation sql.NullString
	photoCamera   sql.NullString
	photoSettings sql.NullString

	// Gallery.
	galleryDescription sql.NullString
	galleryColumns     sql.NullInt64

	// Thought.
	thoughtContent sql.NullString
	thoughtSource  sql.NullString
	thoughtStyle   sql.NullString
	thoughtMood    sql.NullString

	// Music.
	audioURL         sql.NullString
	audioTitle       sql.NullString
	artist           sql.NullString
	album            sql.NullString
	genre            sql.NullString
	duration         sql.NullString
	musicCoverURL    sql.NullString
	musicDescription sql.NullString
	musicType        sql.NullString
	spotifyID        sql.NullString
	spotifyURL       sql.NullString
	appleMusicURL    sql.NullString
	youtubeURL       sql.NullString
	releaseDate      sql.NullString
	totalTracks      sql.NullInt64
	tracks           []byte

	// Video.
	videoURL         sql.NullString
	embedURL         sql.NullString
	thumbnailURL     sql.NullString
	videoDuration    sql.NullString
	provider         sql.NullString
	videoDescription sql.NullString
	transcript       sql.NullString

	// Project.
	projectDescription sql.NullString
	technologies       pq.StringArray
	projectStatus      sql.NullString
	liveURL            sql.NullString
	repoURL            sql.NullString
	projectCoverURL    sql.NullString
	projectCoverAlt    sql.NullString

	// Link.
	linkURL         sql.NullString
	linkDescription sql.NullString
	siteName        sql.NullString
	linkImageURL    sql.NullString
	linkImageAlt    sql.NullString

	// Announcement.
	announcementContent  sql.NullString
	announcementPriority sql.NullString
	ctaText              sql.NullString
	ctaURL               sql.NullString
	expiresAt            sql.NullTime

	// Event.
	eventDescription sql.NullString
	eventContent     sql.NullString
	eventCoverURL    sql.NullString
	startDate        sql.NullTime
	endDate          sql.NullTime
	locationName     sql.NullString
	locationAddress  sql.NullString
	locationLat      sql.NullFloat64
	locationLng      sql.NullFloat64
	isVirtual        sql.NullBool
	virtualURL       sql.NullString
	registrationURL  sql.NullString
	price            sql.NullString
	capacity         sql.NullInt64

	// Recommendation.
	recommendationSubject     sql.NullString
	recommendationType        sql.NullString
	recommendationDescription sql.NullString
	recommendationCoverURL    sql.NullString
	recommendationCoverAlt    sql.NullString
	recommendationRating      sql.NullFloat64
	recommendationExternalURL sql.NullString
	recommendedByUser         sql.NullBool
	recommendationCompact     sql.NullBool

	// Rating.
	ratingSubject  sql.NullString
	ratingItemType sql.NullString
	ratingCoverURL sql.NullString
	ratingCoverAlt sql.NullString
	ratingValue    sql.NullFloat64
	ratingLiked    sql.NullBool
	ratingComment  sql.NullString

	// Ranking.
	rankingDescription sql.NullString
	rankingCoverURL    sql.NullString
	rankingCoverAlt    sql.NullString

	// Loaded separately in batch, never via the join.
	galleryImages []models.ImageMedia
	rankingItems  []models.RankingItem
}

func scanPostRow(scanner interface{ Scan(...any) error }) (*postRow, error) {
	r := &postRow{}
	err := scanner.Scan(
		&r.id, &r.slug, &r.typ, &r.title, &r.status, &r.featured, &r.category, &r.tags,
		&r.createdAt, &r.updatedAt, &r.publishedAt,
		&r.excerpt, &r.content, &r.articleCoverURL, &r.articleCoverAlt, &r.readTime,
		&r.photoURL, &r.photoAlt, &r.photoLocation, &r.photoCamera, &r.photoSettings,
		&r.galleryDescription, &r.galleryColumns,
		&r.thoughtContent, &r.thoughtSource, &r.thoughtStyle, &r.thoughtMood,
		&r.audioURL, &r.audioTitle, &r.artist, &r.album, &r.genre, &r.duration,
		&r.musicCoverURL, &r.musicDescription, &r.musicType, &r.spotifyID, &r.spotifyURL,
		&r.appleMusicURL, &r.youtubeURL, &r.releaseDate, &r.totalTracks, &r.tracks,
		&r.videoURL, &r.embedURL, &r.thumbnailURL, &r.videoDuration, &r.provider,
		&r.videoDescription, &r.transcript,
		&r.projectDescription, &r.technologies, &r.projectStatus, &r.liveURL, &r.repoURL,
		&r.projectCoverURL, &r.projectCoverAlt,
		&r.linkURL, &r.linkDescription, &r.siteName, &r.linkImageURL, &r.linkImageAlt,
		&r.announcementContent, &r.announcementPriority, &r.ctaText, &r.ctaURL, &r.expiresAt,
		&r.eventDescription, &r.eventContent, &r.eventCoverURL,
		&r.startDate, &r.endDate, &r.locationName, &r.locationAddress,
		&r.locationLat, &r.locationLng, &r.isVirtual, &r.virtualURL,
		&r.registrationURL, &r.price, &r.capacity,
		&r.recommendationSubject, &r.recommendationType, &r.recommendationDescription,
		&r.recommendationCoverURL, &r.recommendationCoverAlt, &r.recommendationRating,
		&r.recommendationExternalURL, &r.recommendedByUser, &r.recommendationCompact,
		&r.ratingSubject, &r.ratingItemType, &r.ratingCoverURL, &r.ratingCoverAlt,
		&r.ratingValue, &r.ratingLiked, &r.ratingComment,
		&r.rankingDescription, &r.rankingCoverURL, &r.rankingCoverAlt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Null-to-optional helpers shared by the decode projections.

func optStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func strOr(ns sql.NullString, fallback string) string {
	if !ns.Valid {
		return fallback
	}
	return ns.String
}

func optInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

func optFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func optBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	return &nb.Bool
}

func optTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

// coverImage builds an optional image: absent URL means no image at all,
// absent alt degrades to the empty string.
func coverImage(url, alt sql.NullString) *models.ImageMedia {
	if !url.Valid || url.String == "" {
		return nil
	}
	return &models.ImageMedia{URL: url.String, Alt: strOr(alt, "")}
}

func (r *postRow) base() models.PostBase {
	var cat *string
	if r.category.Valid {
		cat = &r.category.String
	}
	return models.PostBase{
		ID:          r.id,
		Slug:        r.slug,
		Type:        models.PostType(r.typ),
		Title:       r.title,
		Status:      models.PostStatus(r.status),
		Featured:    r.featured,
		Category:    cat,
		Tags:        []string(r.tags),
		CreatedAt:   r.createdAt,
		UpdatedAt:   optTime(r.updatedAt),
		PublishedAt: optTime(r.publishedAt),
	}
}

// decode projects the wide row into the variant matching its type tag.
// Unknown tags degrade to the base fields so newer rows stay readable.
func (r *postRow) decode() models.Post {
	base := r.base()

	switch models.PostType(r.typ) {
	case models.TypeArticle:
		return &models.ArticlePost{
			PostBase:   base,
			Excerpt:    strOr(r.excerpt, ""),
			Content:    strOr(r.content, ""),
			CoverImage: coverImage(r.articleCoverURL, r.articleCoverAlt),
			ReadTime:   optStr(r.readTime),
		}

	case models.TypePhoto:
		return &models.PhotoPost{
			PostBase: base,
			Image: models.ImageMedia{
				URL: strOr(r.photoURL, ""),
				Alt: strOr(r.photoAlt, ""),
			},
			Camera:   optStr(r.photoCamera),
			Settings: optStr(r.photoSettings),
			Location: optStr(r.photoLocation),
		}

	case models.TypeGallery:
		images := r.galleryImages
		if images == nil {
			images = []models.ImageMedia{}
		}
		columns := 2
		if r.galleryColumns.Valid {
			columns = int(r.galleryColumns.Int64)
		}
		return &models.GalleryPost{
			PostBase:    base,
			Description: optStr(r.galleryDescription),
			Images:      images,
			Columns:     columns,
		}

	case models.TypeThought:
		return &models.ThoughtPost{
			PostBase: base,
			Content:  strOr(r.thoughtContent, ""),
			Source:   optStr(r.thoughtSource),
			Style:    optStr(r.thoughtStyle),
			Mood:     optStr(r.thoughtMood),
		}

	case models.TypeMusic:
		return &models.MusicPost{
			PostBase: base,
			Audio: models.AudioMedia{
				URL:      strOr(r.audioURL, ""),
				Title:    strOr(r.audioTitle, ""),
				Artist:   strOr(r.artist, ""),
				Album:    optStr(r.album),
				Genre:    optStr(r.genre),
				Duration: strOr(r.duration, ""),
				CoverURL: optStr(r.musicCoverURL),
			},
			Description:   optStr(r.musicDescription),
			MusicType:     optStr(r.musicType),
			SpotifyID:     optStr(r.spotifyID),
			SpotifyURL:    optStr(r.spotifyURL),
			AppleMusicURL: optStr(r.appleMusicURL),
			YouTubeURL:    optStr(r.youtubeURL),
			ReleaseDate:   optStr(r.releaseDate),
			TotalTracks:   optInt(r.totalTracks),
			Tracks:        r.tracks,
		}

	case models.TypeVideo:
		return &models.VideoPost{
			PostBase: base,
			Video: models.VideoMedia{
				URL:       strOr(r.videoURL, ""),
				EmbedURL:  optStr(r.embedURL),
				Thumbnail: optStr(r.thumbnailURL),
				Duration:  optStr(r.videoDuration),
				Provider:  optStr(r.provider),
			},
			Description: optStr(r.videoDescription),
			Transcript:  optStr(r.transcript),
		}

	case models.TypeProject:
		return &models.ProjectPost{
			PostBase:     base,
			Description:  strOr(r.projectDescription, ""),
			CoverImage:   coverImage(r.projectCoverURL, r.projectCoverAlt),
			Technologies: []string(r.technologies),
			LiveURL:      optStr(r.liveURL),
			RepoURL:      optStr(r.repoURL),
			ProjStatus:   optStr(r.projectStatus),
		}

	case models.TypeLink:
		return &models.LinkPost{
			PostBase:    base,
			URL:         strOr(r.linkURL, ""),
			Description: optStr(r.linkDescription),
			SiteName:    optStr(r.siteName),
			Image:       coverImage(r.linkImageURL, r.linkImageAlt),
		}

	case models.TypeAnnouncement:
		return &models.AnnouncementPost{
			PostBase:  base,
			Content:   strOr(r.announcementContent, ""),
			Priority:  optStr(r.announcementPriority),
			CTAText:   optStr(r.ctaText),
			CTAURL:    optStr(r.ctaURL),
			ExpiresAt: optTime(r.expiresAt),
		}

	case models.TypeEvent:
		var location *models.EventLocation
		if r.locationName.Valid && r.locationName.String != "" {
			location = &models.EventLocation{
				Name:    r.locationName.String,
				Address: optStr(r.locationAddress),
				Virtual: optBool(r.isVirtual),
				URL:     optStr(r.virtualURL),
			}
			if r.locationLat.Valid && r.locationLng.Valid {
				location.Coordinates = &models.LatLng{
					Lat: r.locationLat.Float64,
					Lng: r.locationLng.Float64,
				}
			}
		}
		var eventCover *models.ImageMedia
		if r.eventCoverURL.Valid && r.eventCoverURL.String != "" {
			eventCover = &models.ImageMedia{URL: r.eventCoverURL.String, Alt: ""}
		}
		return &models.EventPost{
			PostBase:        base,
			Description:     strOr(r.eventDescription, ""),
			Content:         optStr(r.eventContent),
			CoverImage:      eventCover,
			StartDate:       optTime(r.startDate),
			EndDate:         optTime(r.endDate),
			Location:        location,
			RegistrationURL: optStr(r.registrationURL),
			Price:           optStr(r.price),
			Capacity:        optInt(r.capacity),
		}

	case models.TypeRecommendation:
		return &models.RecommendationPost{
			PostBase:           base,
			SubjectTitle:       strOr(r.recommendationSubject, ""),
			RecommendationType: strOr(r.recommendationType, "otro"),
			Description:        optStr(r.recommendationDescription),
			CoverImage:         coverImage(r.recommendationCoverURL, r.recommendationCoverAlt),
			Rating:             optFloat(r.recommendationRating),
			ExternalURL:        optStr(r.recommendationExternalURL),
			RecommendedByUser:  optBool(r.recommendedByUser),
			Compact:            optBool(r.recommendationCompact),
		}

	case models.TypeRating:
		var rating float64
		if r.ratingValue.Valid {
			rating = r.ratingValue.Float64
		}
		return &models.RatingPost{
			PostBase:     base,
			SubjectTitle: strOr(r.ratingSubject, ""),
			ItemType:     strOr(r.ratingItemType, "otro"),
			CoverImage:   coverImage(r.ratingCoverURL, r.ratingCoverAlt),
			Rating:       rating,
			Liked:        optBool(r.ratingLiked),
			Comment:      optStr(r.ratingComment),
		}

	case models.TypeRanking:
		items := r.rankingItems
		if items == nil {
			items = []models.RankingItem{}
		}
		return &models.RankingPost{
			PostBase:    base,
			Description: optStr(r.rankingDescription),
			Items:       items,
			CoverImage:  coverImage(r.rankingCoverURL, r.rankingCoverAlt),
		}

	default:
		return &base
	}
}
