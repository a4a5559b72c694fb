package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vinicio/internal/models"
)

func idStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// galleryImagesFor loads the images of every listed gallery in one query,
// grouped by gallery. An empty id list short-circuits without touching the
// database.
func (s *PostStore) galleryImagesFor(ids []uuid.UUID) (map[uuid.UUID][]models.ImageMedia, error) {
	result := make(map[uuid.UUID][]models.ImageMedia)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(`
		SELECT gallery_id, image_url, image_alt
		FROM gallery_images
		WHERE gallery_id = ANY($1::uuid[])
		ORDER BY sort_order ASC
	`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch gallery images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var galleryID uuid.UUID
		var url string
		var alt sql.NullString
		if err := rows.Scan(&galleryID, &url, &alt); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		result[galleryID] = append(result[galleryID], models.ImageMedia{
			URL: url,
			Alt: strOr(alt, ""),
		})
	}
	return result, rows.Err()
}

// rankingItemsFor loads the items of every listed ranking in one query,
// grouped by ranking and ordered by rank with storage order as tie-break.
func (s *PostStore) rankingItemsFor(ids []uuid.UUID) (map[uuid.UUID][]models.RankingItem, error) {
	result := make(map[uuid.UUID][]models.RankingItem)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(`
		SELECT ranking_id, rank, subject_title, item_type, cover_image_url,
		       cover_image_alt, rating, description, external_url
		FROM ranking_items
		WHERE ranking_id = ANY($1::uuid[])
		ORDER BY rank ASC, sort_order ASC
	`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("fetch ranking items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rankingID uuid.UUID
		var item models.RankingItem
		var coverURL, coverAlt, description, externalURL sql.NullString
		var rating sql.NullFloat64
		if err := rows.Scan(
			&rankingID, &item.Rank, &item.SubjectTitle, &item.ItemType,
			&coverURL, &coverAlt, &rating, &description, &externalURL,
		); err != nil {
			return nil, fmt.Errorf("scan ranking item: %w", err)
		}
		item.CoverImage = coverImage(coverURL, coverAlt)
		item.Rating = optFloat(rating)
		item.Description = optStr(description)
		item.ExternalURL = optStr(externalURL)
		result[rankingID] = append(result[rankingID], item)
	}
	return result, rows.Err()
}

// replaceGalleryImages swaps a gallery's image list for the payload's.
// Positions default to the payload order when sort_order is omitted.
func replaceGalleryImages(tx *sql.Tx, postID uuid.UUID, in *models.PostInput) error {
	if _, err := tx.Exec(`DELETE FROM gallery_images WHERE gallery_id = $1`, postID); err != nil {
		return fmt.Errorf("clear gallery images: %w", err)
	}
	for i, img := range in.Images {
		sortOrder := i
		if img.SortOrder != nil {
			sortOrder = *img.SortOrder
		}
		if _, err := tx.Exec(`
			INSERT INTO gallery_images (gallery_id, image_url, image_alt, sort_order)
			VALUES ($1, $2, $3, $4)
		`, postID, img.ImageURL, strArg(img.ImageAlt), sortOrder); err != nil {
			return fmt.Errorf("insert gallery image: %w", err)
		}
	}
	return nil
}

// replaceRankingItems swaps a ranking's item list for the payload's.
func replaceRankingItems(tx *sql.Tx, postID uuid.UUID, in *models.PostInput) error {
	if _, err := tx.Exec(`DELETE FROM ranking_items WHERE ranking_id = $1`, postID); err != nil {
		return fmt.Errorf("clear ranking items: %w", err)
	}
	for i, item := range in.Items {
		sortOrder := i
		if item.SortOrder != nil {
			sortOrder = *item.SortOrder
		}
		if _, err := tx.Exec(`
			INSERT INTO ranking_items (ranking_id, rank, subject_title, item_type,
			                           cover_image_url, cover_image_alt, rating,
			                           description, external_url, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, postID, item.Rank, item.SubjectTitle, item.ItemType,
			strArg(item.CoverImageURL), strArg(item.CoverImageAlt),
			floatArg(item.Rating), strArg(item.Description),
			strArg(item.ExternalURL), sortOrder); err != nil {
			return fmt.Errorf("insert ranking item: %w", err)
		}
	}
	return nil
}
