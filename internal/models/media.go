package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media represents a file uploaded to S3-compatible object storage.
// Metadata is stored in PostgreSQL; the file itself lives in the bucket.
// Resized JPEG variants share the original's key with a size suffix.
type Media struct {
	ID           uuid.UUID  `json:"id"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"originalName"`
	ContentType  string     `json:"contentType"`
	SizeBytes    int64      `json:"sizeBytes"`
	Bucket       string     `json:"bucket"`
	S3Key        string     `json:"s3Key"`
	SmallS3Key   *string    `json:"smallS3Key,omitempty"`
	MediumS3Key  *string    `json:"mediumS3Key,omitempty"`
	LargeS3Key   *string    `json:"largeS3Key,omitempty"`
	AltText      *string    `json:"altText,omitempty"`
	PostID       *uuid.UUID `json:"postId,omitempty"`
	UploaderID   uuid.UUID  `json:"uploaderId"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// IsImage returns true if the media item is an image type.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}
