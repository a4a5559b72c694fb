package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed creates the initial admin account and the about-me profile row.
// Both steps are skipped when data already exists, so the function is safe
// to run on every start. An empty password falls back to "admin" for
// development; production should always set ADMIN_PASSWORD.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	return seedProfile(db)
}

func seedAdmin(db *sql.DB, email, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	if password == "" {
		password = "admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA stays off until the admin completes setup on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, email, string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("seeded admin user", "email", email)
	return nil
}

// seedProfile inserts the singleton about-me row so profile updates have
// something to patch.
func seedProfile(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM about_me").Scan(&count); err != nil {
		return fmt.Errorf("seed check about me: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := db.Exec(`INSERT INTO about_me (name) VALUES ($1)`, "Your Name"); err != nil {
		return fmt.Errorf("seed insert about me: %w", err)
	}

	slog.Info("seeded about-me profile")
	return nil
}
