package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/streaming-catalog/internal/model"
)

type seedCategory struct {
	ID          uint64
	Name        string
	Description string
}

type seedContent struct {
	ID          uint64
	Title       string
	Description string
	ReleaseYear int
	Genre       string
	Slug        string
	Type        string
}

var seedCategories = []seedCategory{
	{1, "Trending", "Titles everyone is talking about"},
	{2, "Popular", "Highly rated titles"},
	{3, "New Releases", "Recently added titles"},
	{4, "Action", "Action movies and series"},
	{5, "Comedy", "Comedy movies and series"},
	{6, "Drama", "Drama titles"},
	{7, "Sci-Fi", "Science fiction movies and series"},
	{8, "Anime", "Animated titles"},
}

var seedContents = []seedContent{
	{1, "Beyond the Stars", "An exploration crew faces the unknown on an uncharted planet", 2023, "Sci-Fi", "space_adventure", model.ContentTypeMovie},
	{2, "City Shadows", "A crime drama following one man through the city's underworld", 2022, "Drama", "city_shadows", model.ContentTypeSeries},
	{3, "School of Laughs", "A campus comedy about eccentric teachers and their students", 2021, "Comedy", "comedy_school", model.ContentTypeSeries},
	{4, "The Last Warrior", "An ancient warrior wakes in the present day to fight a new enemy", 2023, "Action", "last_warrior", model.ContentTypeMovie},
	{5, "Magic Forest", "A fantasy anime about a mysterious forest and its creatures", 2022, "Anime", "magic_forest", model.ContentTypeMovie},
	{6, "Future City 2150", "Sci-fi action set in the metropolis of the year 2150", 2023, "Sci-Fi", "future_city", model.ContentTypeMovie},
	{7, "Family Bonds", "A moving drama about a separated family finding each other again", 2021, "Drama", "family_bonds", model.ContentTypeSeries},
	{8, "Secret Mission", "A thriller about a spy on a dangerous assignment", 2022, "Action", "secret_mission", model.ContentTypeSeries},
}

// content id -> category ids
var seedLinks = map[uint64][]uint64{
	1: {1, 3, 7},
	2: {2, 6},
	3: {5},
	4: {1, 3, 4},
	5: {2, 8},
	6: {1, 3, 7},
	7: {2, 6},
	8: {4},
}

// seedContentCategories flattens seedLinks into join rows in content order.
func seedContentCategories() []model.ContentCategory {
	var out []model.ContentCategory
	for _, c := range seedContents {
		for _, catID := range seedLinks[c.ID] {
			out = append(out, model.ContentCategory{ContentID: c.ID, CategoryID: catID})
		}
	}
	return out
}

// SeedUser is the demo account created by Seed.
const (
	SeedUsername = "testuser"
	SeedEmail    = "test@example.com"
	SeedPassword = "password123"
)

// Seed inserts the demo catalog and the demo user.  It does nothing and
// returns false when the catalog already has content.  passwordHash is the
// hashed form of SeedPassword.
func Seed(ctx context.Context, db *sql.DB, passwordHash string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM contents").Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, c := range seedCategories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (id, name, description) VALUES (?, ?, ?)",
			c.ID, c.Name, c.Description); err != nil {
			return false, fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}
	for _, c := range seedContents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contents (id, title, description, release_year, genre, image_url, video_url, type)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.Description, c.ReleaseYear, c.Genre,
			"https://via.placeholder.com/300x450?text="+c.Slug,
			"https://example.com/videos/"+c.Slug+".mp4",
			c.Type); err != nil {
			return false, fmt.Errorf("seed content %d: %w", c.ID, err)
		}
	}
	for _, l := range seedContentCategories() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO content_categories (content_id, category_id) VALUES (?, ?)",
			l.ContentID, l.CategoryID); err != nil {
			return false, fmt.Errorf("seed link %d/%d: %w", l.ContentID, l.CategoryID, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		SeedUsername, SeedEmail, passwordHash); err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
