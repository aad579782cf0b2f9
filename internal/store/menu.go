package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dverbeek/weekmenu/internal/mealplan"
	"github.com/dverbeek/weekmenu/internal/model"
)

type MenuStore struct {
	db *sql.DB
}

func NewMenuStore(db *sql.DB) *MenuStore {
	return &MenuStore{db: db}
}

const menuItemCols = `m.id, m.year, m.week_number, m.day_of_week, m.meal_type, m.recipe_id, m.people_count`

// WeekItems returns the menu cells for a week, with recipe names joined in.
func (s *MenuStore) WeekItems(year, week int) ([]model.MenuItem, error) {
	rows, err := s.db.Query(
		`SELECT `+menuItemCols+`, COALESCE(r.name, '')
		 FROM menu_item m
		 LEFT JOIN recipe r ON r.id = m.recipe_id
		 WHERE m.year = ? AND m.week_number = ?
		 ORDER BY m.day_of_week ASC, m.meal_type ASC, m.id ASC`,
		year, week,
	)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		var recipeID sql.NullInt64
		err := rows.Scan(
			&item.ID, &item.Year, &item.WeekNumber, &item.DayOfWeek,
			&item.MealType, &recipeID, &item.PeopleCount, &item.RecipeName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if recipeID.Valid {
			item.RecipeID = &recipeID.Int64
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// position identifies a recipe placement within a week. Usage tracking works
// on the set difference of these tuples across a save.
type position struct {
	day      int
	mealType string
	recipeID int64
}

// ReplaceWeek atomically replaces the menu cells for a week and updates
// recipe usage bookkeeping. Positions present after the save but not before
// it each add one to their recipe's usage count; every recipe placed in the
// new menu gets its last-used time refreshed. A failure anywhere rolls the
// whole week back.
func (s *MenuStore) ReplaceWeek(year, week int, cells []model.MenuCell) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	oldPositions, err := weekPositions(tx, year, week)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM menu_item WHERE year = ? AND week_number = ?`, year, week); err != nil {
		return fmt.Errorf("clear week: %w", err)
	}

	newPositions := make(map[position]struct{})
	newRecipes := make(map[int64]struct{})
	for _, cell := range cells {
		if cell.RecipeID == nil {
			continue
		}
		people := cell.PeopleCount
		if people <= 0 {
			people = mealplan.DefaultPeopleCount
		}
		if _, err := tx.Exec(
			`INSERT INTO menu_item (year, week_number, day_of_week, meal_type, recipe_id, people_count) VALUES (?, ?, ?, ?, ?, ?)`,
			year, week, cell.DayOfWeek, cell.MealType, *cell.RecipeID, people,
		); err != nil {
			return fmt.Errorf("insert menu item: %w", err)
		}
		newPositions[position{cell.DayOfWeek, cell.MealType, *cell.RecipeID}] = struct{}{}
		newRecipes[*cell.RecipeID] = struct{}{}
	}

	now := time.Now().UTC()
	for pos := range newPositions {
		if _, existed := oldPositions[pos]; existed {
			continue
		}
		if _, err := tx.Exec(
			`UPDATE recipe SET usage_count = usage_count + 1, last_used = ? WHERE id = ?`,
			now, pos.recipeID,
		); err != nil {
			return fmt.Errorf("bump usage: %w", err)
		}
	}

	for recipeID := range newRecipes {
		if _, err := tx.Exec(`UPDATE recipe SET last_used = ? WHERE id = ?`, now, recipeID); err != nil {
			return fmt.Errorf("touch last used: %w", err)
		}
	}

	return tx.Commit()
}

func weekPositions(q interface {
	Query(query string, args ...any) (*sql.Rows, error)
}, year, week int) (map[position]struct{}, error) {
	rows, err := q.Query(
		`SELECT day_of_week, meal_type, recipe_id FROM menu_item
		 WHERE year = ? AND week_number = ? AND recipe_id IS NOT NULL`,
		year, week,
	)
	if err != nil {
		return nil, fmt.Errorf("read week positions: %w", err)
	}
	defer rows.Close()

	positions := make(map[position]struct{})
	for rows.Next() {
		var pos position
		if err := rows.Scan(&pos.day, &pos.mealType, &pos.recipeID); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions[pos] = struct{}{}
	}
	return positions, rows.Err()
}

// ClearWeek deletes every menu cell for the week. Usage counts are not
// rewound: a planned week still counts as a use.
func (s *MenuStore) ClearWeek(year, week int) error {
	_, err := s.db.Exec(`DELETE FROM menu_item WHERE year = ? AND week_number = ?`, year, week)
	if err != nil {
		return fmt.Errorf("clear week: %w", err)
	}
	return nil
}

// --- Quick-add methods ---

// QuickAdds returns the persisted quick-add entries for a week.
func (s *MenuStore) QuickAdds(year, week int) ([]model.QuickAddItem, error) {
	rows, err := s.db.Query(
		`SELECT q.id, q.year, q.week_number, q.recipe_id, r.name, q.people_count, q.created_at
		 FROM quick_add_item q
		 JOIN recipe r ON r.id = q.recipe_id
		 WHERE q.year = ? AND q.week_number = ?
		 ORDER BY q.id ASC`,
		year, week,
	)
	if err != nil {
		return nil, fmt.Errorf("list quick adds: %w", err)
	}
	defer rows.Close()

	var items []model.QuickAddItem
	for rows.Next() {
		var item model.QuickAddItem
		err := rows.Scan(
			&item.ID, &item.Year, &item.WeekNumber, &item.RecipeID,
			&item.RecipeName, &item.PeopleCount, &item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quick add: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReplaceQuickAdds atomically replaces the quick-add set for a week.
func (s *MenuStore) ReplaceQuickAdds(year, week int, entries []model.QuickAddEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM quick_add_item WHERE year = ? AND week_number = ?`, year, week); err != nil {
		return fmt.Errorf("clear quick adds: %w", err)
	}

	for _, e := range entries {
		people := e.PeopleCount
		if people <= 0 {
			people = mealplan.DefaultPeopleCount
		}
		if _, err := tx.Exec(
			`INSERT INTO quick_add_item (year, week_number, recipe_id, people_count) VALUES (?, ?, ?, ?)`,
			year, week, e.RecipeID, people,
		); err != nil {
			return fmt.Errorf("insert quick add: %w", err)
		}
	}

	return tx.Commit()
}

func (s *MenuStore) ClearQuickAdds(year, week int) error {
	_, err := s.db.Exec(`DELETE FROM quick_add_item WHERE year = ? AND week_number = ?`, year, week)
	if err != nil {
		return fmt.Errorf("clear quick adds: %w", err)
	}
	return nil
}
