package store

import (
	"database/sql"
	"fmt"

	"github.com/dverbeek/weekmenu/internal/model"
)

type IngredientStore struct {
	db *sql.DB
}

func NewIngredientStore(db *sql.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so ingredient resolution can
// run inside a caller's transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// GetOrCreate returns the id of the ingredient with exactly this name,
// creating it with the given category when absent. On a hit the category
// argument is ignored: the first writer fixes the category.
func (s *IngredientStore) GetOrCreate(name, category string) (int64, error) {
	return getOrCreateIngredient(s.db, name, category)
}

func getOrCreateIngredient(q dbtx, name, category string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM ingredient WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup ingredient: %w", err)
	}

	result, err := q.Exec(`INSERT INTO ingredient (name, category) VALUES (?, ?)`, name, category)
	if err != nil {
		return 0, fmt.Errorf("insert ingredient: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (s *IngredientStore) GetByID(id int64) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := s.db.QueryRow(`SELECT id, name, category FROM ingredient WHERE id = ?`, id).
		Scan(&ing.ID, &ing.Name, &ing.Category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &ing, nil
}

func (s *IngredientStore) List() ([]model.Ingredient, error) {
	rows, err := s.db.Query(`SELECT id, name, category FROM ingredient ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []model.Ingredient
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Category); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}
