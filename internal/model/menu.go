package model

import "time"

// MenuItem is one cell of a week plan: a recipe assigned to a day and meal
// slot, with its own target people count independent of the recipe's serves.
type MenuItem struct {
	ID          int64  `json:"id"`
	Year        int    `json:"year"`
	WeekNumber  int    `json:"week_number"`
	DayOfWeek   int    `json:"day_of_week"`
	MealType    string `json:"meal_type"`
	RecipeID    *int64 `json:"recipe_id"`
	RecipeName  string `json:"recipe_name,omitempty"`
	PeopleCount int    `json:"people_count"`
}

// MenuCell is the input shape for a week menu save.
type MenuCell struct {
	DayOfWeek   int    `json:"day"`
	MealType    string `json:"meal_type"`
	RecipeID    *int64 `json:"recipe_id"`
	PeopleCount int    `json:"people_count"`
}

// QuickAddEntry is the input shape for a quick-add save.
type QuickAddEntry struct {
	RecipeID    int64 `json:"recipe_id"`
	PeopleCount int   `json:"people_count"`
}

// QuickAddItem is a week-scoped shopping-list entry not tied to a menu cell.
type QuickAddItem struct {
	ID          int64     `json:"id"`
	Year        int       `json:"year"`
	WeekNumber  int       `json:"week_number"`
	RecipeID    int64     `json:"recipe_id"`
	RecipeName  string    `json:"recipe_name,omitempty"`
	PeopleCount int       `json:"people_count"`
	CreatedAt   time.Time `json:"created_at"`
}
