package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialLink is one entry of the about-me social links list.
type SocialLink struct {
	Icon  string `json:"icon"`
	Href  string `json:"href"`
	Label string `json:"label"`
}

// AboutMe is the singleton profile record together with its ordered child
// collections. Skills and interests are plain ordered strings; socials carry
// icon/href/label triples.
type AboutMe struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Title     *string      `json:"title,omitempty"`
	Location  *string      `json:"location,omitempty"`
	Bio       *string      `json:"bio,omitempty"`
	Email     *string      `json:"email,omitempty"`
	ImageURL  *string      `json:"imageUrl,omitempty"`
	Quote     *string      `json:"quote,omitempty"`
	Skills    []string     `json:"skills"`
	Interests []string     `json:"interests"`
	Socials   []SocialLink `json:"socials"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// AboutMeInput is the PUT payload. Nil fields are left untouched; a non-nil
// child list replaces the stored list wholesale.
type AboutMeInput struct {
	Name      *string      `json:"name"`
	Title     *string      `json:"title"`
	Location  *string      `json:"location"`
	Bio       *string      `json:"bio"`
	Email     *string      `json:"email"`
	ImageURL  *string      `json:"image_url"`
	Quote     *string      `json:"quote"`
	Skills    []string     `json:"skills"`
	Interests []string     `json:"interests"`
	Socials   []SocialLink `json:"socials"`
}
