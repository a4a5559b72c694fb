package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"vinicio/internal/models"
)

// AboutMeStore manages the singleton profile record and its ordered child
// collections.
type AboutMeStore struct {
	db *sql.DB
}

// NewAboutMeStore creates a new AboutMeStore with the given database connection.
func NewAboutMeStore(db *sql.DB) *AboutMeStore {
	return &AboutMeStore{db: db}
}

const aboutMeColumns = `id, name, title, location, bio, email, image_url, quote, created_at, updated_at`

func scanAboutMe(scanner interface{ Scan(...any) error }) (*models.AboutMe, error) {
	a := &models.AboutMe{}
	err := scanner.Scan(
		&a.ID, &a.Name, &a.Title, &a.Location, &a.Bio, &a.Email,
		&a.ImageURL, &a.Quote, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Get assembles the profile aggregate: the singleton row plus its skills,
// interests, and social links in stored order. Returns nil if the profile
// has never been seeded.
func (s *AboutMeStore) Get() (*models.AboutMe, error) {
	row := s.db.QueryRow(`SELECT ` + aboutMeColumns + ` FROM about_me LIMIT 1`)
	a, err := scanAboutMe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find about me: %w", err)
	}

	a.Skills = []string{}
	rows, err := s.db.Query(`
		SELECT skill FROM about_me_skills
		WHERE about_me_id = $1 ORDER BY sort_order ASC
	`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var skill string
		if err := rows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		a.Skills = append(a.Skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	a.Interests = []string{}
	rows, err = s.db.Query(`
		SELECT interest FROM about_me_interests
		WHERE about_me_id = $1 ORDER BY sort_order ASC
	`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var interest string
		if err := rows.Scan(&interest); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		a.Interests = append(a.Interests, interest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	a.Socials = []models.SocialLink{}
	rows, err = s.db.Query(`
		SELECT icon, href, label FROM about_me_socials
		WHERE about_me_id = $1 ORDER BY sort_order ASC
	`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list socials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var link models.SocialLink
		if err := rows.Scan(&link.Icon, &link.Href, &link.Label); err != nil {
			return nil, fmt.Errorf("scan social: %w", err)
		}
		a.Socials = append(a.Socials, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return a, nil
}

// Update patches the singleton row and fully replaces any child list the
// payload carries, all in one transaction. Returns the fresh aggregate, or
// nil when the profile does not exist.
func (s *AboutMeStore) Update(in *models.AboutMeInput) (*models.AboutMe, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin update about me: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`SELECT id FROM about_me LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load about me: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE about_me
		SET name = COALESCE($1, name),
		    title = COALESCE($2, title),
		    location = COALESCE($3, location),
		    bio = COALESCE($4, bio),
		    email = COALESCE($5, email),
		    image_url = COALESCE($6, image_url),
		    quote = COALESCE($7, quote),
		    updated_at = NOW()
		WHERE id = $8
	`, strArg(in.Name), strArg(in.Title), strArg(in.Location), strArg(in.Bio),
		strArg(in.Email), strArg(in.ImageURL), strArg(in.Quote), id)
	if err != nil {
		return nil, fmt.Errorf("update about me: %w", err)
	}

	if in.Skills != nil {
		if _, err := tx.Exec(`DELETE FROM about_me_skills WHERE about_me_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear skills: %w", err)
		}
		for i, skill := range in.Skills {
			if _, err := tx.Exec(`
				INSERT INTO about_me_skills (about_me_id, skill, sort_order)
				VALUES ($1, $2, $3)
			`, id, skill, i); err != nil {
				return nil, fmt.Errorf("insert skill: %w", err)
			}
		}
	}

	if in.Interests != nil {
		if _, err := tx.Exec(`DELETE FROM about_me_interests WHERE about_me_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear interests: %w", err)
		}
		for i, interest := range in.Interests {
			if _, err := tx.Exec(`
				INSERT INTO about_me_interests (about_me_id, interest, sort_order)
				VALUES ($1, $2, $3)
			`, id, interest, i); err != nil {
				return nil, fmt.Errorf("insert interest: %w", err)
			}
		}
	}

	if in.Socials != nil {
		if _, err := tx.Exec(`DELETE FROM about_me_socials WHERE about_me_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear socials: %w", err)
		}
		for i, social := range in.Socials {
			if _, err := tx.Exec(`
				INSERT INTO about_me_socials (about_me_id, icon, href, label, sort_order)
				VALUES ($1, $2, $3, $4, $5)
			`, id, social.Icon, social.Href, social.Label, i); err != nil {
				return nil, fmt.Errorf("insert social: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update about me: %w", err)
	}
	return s.Get()
}

// singletonID loads the profile row's id. Returns uuid.Nil when missing.
func (s *AboutMeStore) singletonID() (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM about_me LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("load about me: %w", err)
	}
	return id, nil
}

// AddSkill appends a skill after the current tail. Returns false when the
// profile does not exist.
func (s *AboutMeStore) AddSkill(skill string) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	_, err = s.db.Exec(`
		INSERT INTO about_me_skills (about_me_id, skill, sort_order)
		SELECT $1, $2, COALESCE(MAX(sort_order), 0) + 1
		FROM about_me_skills WHERE about_me_id = $1
	`, id, skill)
	if err != nil {
		return false, fmt.Errorf("add skill: %w", err)
	}
	return true, nil
}

// RemoveSkill deletes a skill by value.
func (s *AboutMeStore) RemoveSkill(skill string) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	if _, err := s.db.Exec(`
		DELETE FROM about_me_skills WHERE about_me_id = $1 AND skill = $2
	`, id, skill); err != nil {
		return false, fmt.Errorf("remove skill: %w", err)
	}
	return true, nil
}

// AddInterest appends an interest after the current tail.
func (s *AboutMeStore) AddInterest(interest string) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	_, err = s.db.Exec(`
		INSERT INTO about_me_interests (about_me_id, interest, sort_order)
		SELECT $1, $2, COALESCE(MAX(sort_order), 0) + 1
		FROM about_me_interests WHERE about_me_id = $1
	`, id, interest)
	if err != nil {
		return false, fmt.Errorf("add interest: %w", err)
	}
	return true, nil
}

// RemoveInterest deletes an interest by value.
func (s *AboutMeStore) RemoveInterest(interest string) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	if _, err := s.db.Exec(`
		DELETE FROM about_me_interests WHERE about_me_id = $1 AND interest = $2
	`, id, interest); err != nil {
		return false, fmt.Errorf("remove interest: %w", err)
	}
	return true, nil
}

// AddSocial appends a social link after the current tail.
func (s *AboutMeStore) AddSocial(link models.SocialLink) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	_, err = s.db.Exec(`
		INSERT INTO about_me_socials (about_me_id, icon, href, label, sort_order)
		SELECT $1, $2, $3, $4, COALESCE(MAX(sort_order), 0) + 1
		FROM about_me_socials WHERE about_me_id = $1
	`, id, link.Icon, link.Href, link.Label)
	if err != nil {
		return false, fmt.Errorf("add social: %w", err)
	}
	return true, nil
}

// RemoveSocial deletes a social link by label.
func (s *AboutMeStore) RemoveSocial(label string) (bool, error) {
	id, err := s.singletonID()
	if err != nil || id == uuid.Nil {
		return false, err
	}
	if _, err := s.db.Exec(`
		DELETE FROM about_me_socials WHERE about_me_id = $1 AND label = $2
	`, id, label); err != nil {
		return false, fmt.Errorf("remove social: %w", err)
	}
	return true, nil
}
