package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dverbeek/weekmenu/internal/mealplan"
	"github.com/dverbeek/weekmenu/internal/model"
)

type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

func scanRecipe(scanner interface{ Scan(...any) error }) (*model.Recipe, error) {
	var r model.Recipe
	var cookbookID sql.NullInt64
	var page sql.NullInt64
	var imagePath sql.NullString
	var lastUsed sql.NullTime
	var favorite int

	err := scanner.Scan(
		&r.ID, &r.Name, &cookbookID, &page, &imagePath, &r.Serves,
		&favorite, &lastUsed, &r.UsageCount, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.IsFavorite = favorite != 0
	if cookbookID.Valid {
		r.CookbookID = &cookbookID.Int64
	}
	if page.Valid {
		p := int(page.Int64)
		r.Page = &p
	}
	if imagePath.Valid {
		r.ImagePath = &imagePath.String
	}
	if lastUsed.Valid {
		r.LastUsed = &lastUsed.Time
	}
	return &r, nil
}

const recipeCols = `id, name, cookbook_id, page, image_path, serves, is_favorite, last_used, usage_count, created_at`

func (s *RecipeStore) Create(name string, cookbookID *int64, page *int, imagePath *string, serves int) (*model.Recipe, error) {
	if serves <= 0 {
		serves = mealplan.DefaultPeopleCount
	}

	result, err := s.db.Exec(
		`INSERT INTO recipe (name, cookbook_id, page, image_path, serves) VALUES (?, ?, ?, ?, ?)`,
		name, nullInt64(cookbookID), nullIntValue(page), nullString(imagePath), serves,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RecipeStore) GetByID(id int64) (*model.Recipe, error) {
	row := s.db.QueryRow(`SELECT `+recipeCols+` FROM recipe WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return r, nil
}

func (s *RecipeStore) List() ([]model.Recipe, error) {
	rows, err := s.db.Query(`SELECT ` + recipeCols + ` FROM recipe ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

func collectRecipes(rows *sql.Rows) ([]model.Recipe, error) {
	var recipes []model.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

func (s *RecipeStore) Update(id int64, name string, cookbookID *int64, page *int, imagePath *string, serves int) (*model.Recipe, error) {
	if serves <= 0 {
		serves = mealplan.DefaultPeopleCount
	}

	_, err := s.db.Exec(
		`UPDATE recipe SET name = ?, cookbook_id = ?, page = ?, image_path = ?, serves = ? WHERE id = ?`,
		name, nullInt64(cookbookID), nullIntValue(page), nullString(imagePath), serves, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a recipe along with its ingredient lines and quick-add
// rows. Menu cells that referenced it keep their slot with a null recipe.
// The referential cleanup is done explicitly so it holds regardless of the
// connection's foreign-key pragma.
func (s *RecipeStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE menu_item SET recipe_id = NULL WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("detach menu items: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM quick_add_item WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("delete quick adds: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM recipe_ingredient WHERE recipe_id = ?`, id); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM recipe WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	return tx.Commit()
}

// LineInput is one submitted ingredient row. Amount arrives as the raw form
// value and is coerced to a non-negative number.
type LineInput struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

// ReplaceLines swaps a recipe's ingredient lines for the given input, in one
// transaction. Rows with an empty name are skipped; ingredients are resolved
// by exact name, created on first use. This is a full replace: surviving
// order is the input order.
func (s *RecipeStore) ReplaceLines(recipeID int64, lines []LineInput) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM recipe_ingredient WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}

	for _, line := range lines {
		if line.Name == "" {
			continue
		}
		ingredientID, err := getOrCreateIngredient(tx, line.Name, line.Category)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO recipe_ingredient (recipe_id, ingredient_id, amount, unit) VALUES (?, ?, ?, ?)`,
			recipeID, ingredientID, coerceAmount(line.Amount), line.Unit,
		); err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	}

	return tx.Commit()
}

// coerceAmount parses a form amount; empty, malformed, or negative input
// becomes 0 rather than an error.
func coerceAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

const lineCols = `ri.id, ri.recipe_id, ri.ingredient_id, i.name, i.category, ri.amount, ri.unit`

// Lines returns a recipe's ingredient lines in insertion order, with the
// ingredient name and category joined in.
func (s *RecipeStore) Lines(recipeID int64) ([]model.RecipeLine, error) {
	rows, err := s.db.Query(
		`SELECT `+lineCols+` FROM recipe_ingredient ri
		 JOIN ingredient i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ? ORDER BY ri.id ASC`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	var lines []model.RecipeLine
	for rows.Next() {
		var rl model.RecipeLine
		err := rows.Scan(&rl.ID, &rl.RecipeID, &rl.IngredientID, &rl.IngredientName, &rl.Category, &rl.Amount, &rl.Unit)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, rl)
	}
	return lines, rows.Err()
}

// ToggleFavorite flips the favorite flag and returns the updated recipe, or
// nil when the recipe does not exist.
func (s *RecipeStore) ToggleFavorite(id int64) (*model.Recipe, error) {
	r, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, nil
	}

	next := 0
	if !r.IsFavorite {
		next = 1
	}
	if _, err := s.db.Exec(`UPDATE recipe SET is_favorite = ? WHERE id = ?`, next, id); err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return s.GetByID(id)
}

// QuickAccess returns the favorite, recently used, and most used recipes,
// each capped at 10. Ties break on id so the order is deterministic.
func (s *RecipeStore) QuickAccess() (*model.QuickAccess, error) {
	favorites, err := s.queryRecipes(
		`SELECT ` + recipeCols + ` FROM recipe WHERE is_favorite = 1 ORDER BY name ASC, id ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("quick access favorites: %w", err)
	}

	recent, err := s.queryRecipes(
		`SELECT ` + recipeCols + ` FROM recipe WHERE last_used IS NOT NULL ORDER BY last_used DESC, id ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("quick access recent: %w", err)
	}

	popular, err := s.queryRecipes(
		`SELECT ` + recipeCols + ` FROM recipe WHERE usage_count > 0 ORDER BY usage_count DESC, id ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("quick access popular: %w", err)
	}

	return &model.QuickAccess{Favorites: favorites, Recent: recent, Popular: popular}, nil
}

func (s *RecipeStore) queryRecipes(query string, args ...any) ([]model.Recipe, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecipes(rows)
}

// --- null helpers ---

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullIntValue(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
