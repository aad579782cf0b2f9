package store

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/dverbeek/weekmenu/internal/model"
)

type CookbookStore struct {
	db *sql.DB
}

func NewCookbookStore(db *sql.DB) *CookbookStore {
	return &CookbookStore{db: db}
}

func scanCookbook(scanner interface{ Scan(...any) error }) (*model.Cookbook, error) {
	var c model.Cookbook
	var imagePath sql.NullString
	err := scanner.Scan(&c.ID, &c.Name, &c.Abbreviation, &imagePath, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if imagePath.Valid {
		c.ImagePath = &imagePath.String
	}
	return &c, nil
}

const cookbookCols = `id, name, abbreviation, image_path, created_at`

// Create inserts a cookbook. An empty abbreviation is derived from the name.
func (s *CookbookStore) Create(name, abbreviation string, imagePath *string) (*model.Cookbook, error) {
	if abbreviation == "" {
		abbreviation = deriveAbbreviation(name)
	}

	result, err := s.db.Exec(
		`INSERT INTO cookbook (name, abbreviation, image_path) VALUES (?, ?, ?)`,
		name, abbreviation, nullString(imagePath),
	)
	if err != nil {
		return nil, fmt.Errorf("insert cookbook: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CookbookStore) GetByID(id int64) (*model.Cookbook, error) {
	row := s.db.QueryRow(`SELECT `+cookbookCols+` FROM cookbook WHERE id = ?`, id)
	c, err := scanCookbook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cookbook: %w", err)
	}
	return c, nil
}

func (s *CookbookStore) GetByName(name string) (*model.Cookbook, error) {
	row := s.db.QueryRow(`SELECT `+cookbookCols+` FROM cookbook WHERE name = ?`, name)
	c, err := scanCookbook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cookbook by name: %w", err)
	}
	return c, nil
}

func (s *CookbookStore) List() ([]model.Cookbook, error) {
	rows, err := s.db.Query(`SELECT ` + cookbookCols + ` FROM cookbook ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cookbooks: %w", err)
	}
	defer rows.Close()

	var cookbooks []model.Cookbook
	for rows.Next() {
		c, err := scanCookbook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cookbook: %w", err)
		}
		cookbooks = append(cookbooks, *c)
	}
	return cookbooks, rows.Err()
}

func (s *CookbookStore) Update(id int64, name, abbreviation string, imagePath *string) (*model.Cookbook, error) {
	if abbreviation == "" {
		abbreviation = deriveAbbreviation(name)
	}

	_, err := s.db.Exec(
		`UPDATE cookbook SET name = ?, abbreviation = ?, image_path = ? WHERE id = ?`,
		name, abbreviation, nullString(imagePath), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update cookbook: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a cookbook. Its recipes survive and simply lose the
// cookbook reference.
func (s *CookbookStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE recipe SET cookbook_id = NULL WHERE cookbook_id = ?`, id); err != nil {
		return fmt.Errorf("detach recipes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cookbook WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete cookbook: %w", err)
	}

	return tx.Commit()
}

// Recipes lists a cookbook's recipes sorted by page number, with recipes
// lacking a page at the end.
func (s *CookbookStore) Recipes(cookbookID int64) ([]model.Recipe, error) {
	rows, err := s.db.Query(
		`SELECT `+recipeCols+` FROM recipe WHERE cookbook_id = ? ORDER BY page IS NULL ASC, page ASC, name ASC`,
		cookbookID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cookbook recipes: %w", err)
	}
	defer rows.Close()
	return collectRecipes(rows)
}

// deriveAbbreviation builds an abbreviation from the uppercase initials of
// the name's words, truncated to 5 characters.
func deriveAbbreviation(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			initials = append(initials, unicode.ToUpper(r))
			break
		}
		if len(initials) == 5 {
			break
		}
	}
	return string(initials)
}
