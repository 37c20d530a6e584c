package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mix-and-munch/internal/core/recipe"
	"mix-and-munch/internal/pkg/common"

	_ "modernc.org/sqlite"
)

// SavedRecipeStore persists user-saved recipes in SQLite. Recipes are
// stored as JSON next to their id and save timestamp.
type SavedRecipeStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS saved_recipes (
	recipe_id TEXT PRIMARY KEY,
	recipe_json TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_saved_recipes_saved_at ON saved_recipes(saved_at DESC);
`

// NewSavedRecipeStore opens (or creates) the database at path.
func NewSavedRecipeStore(path string) (*SavedRecipeStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SavedRecipeStore{db: db}, nil
}

// Save stores a recipe, replacing any previous copy.
func (s *SavedRecipeStore) Save(ctx context.Context, detail *recipe.Detail) error {
	data, err := common.ToJSON(detail)
	if err != nil {
		return fmt.Errorf("failed to serialize recipe: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO saved_recipes (recipe_id, recipe_json, saved_at) VALUES (?, ?, ?)`,
		detail.ID, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// Delete removes a saved recipe. Deleting an unsaved id is not an error.
func (s *SavedRecipeStore) Delete(ctx context.Context, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_recipes WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// IsSaved reports whether a recipe id has been saved.
func (s *SavedRecipeStore) IsSaved(ctx context.Context, recipeID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_recipes WHERE recipe_id = ?)`, recipeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check saved recipe: %w", err)
	}
	return exists, nil
}

// List returns all saved recipes, most recently saved first. Rows whose
// JSON no longer parses are skipped.
func (s *SavedRecipeStore) List(ctx context.Context) ([]recipe.Detail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_json FROM saved_recipes ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	defer rows.Close()

	var recipes []recipe.Detail
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan saved recipe: %w", err)
		}
		var detail recipe.Detail
		if err := common.ParseJSON(data, &detail); err != nil {
			continue
		}
		recipes = append(recipes, detail)
	}
	return recipes, rows.Err()
}

// Count returns the number of saved recipes.
func (s *SavedRecipeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_recipes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count saved recipes: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *SavedRecipeStore) Close() error {
	return s.db.Close()
}
