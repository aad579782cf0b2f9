package model

import "time"

type Recipe struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	CookbookID *int64     `json:"cookbook_id"`
	Page       *int       `json:"page"`
	ImagePath  *string    `json:"image_path"`
	Serves     int        `json:"serves"`
	IsFavorite bool       `json:"is_favorite"`
	LastUsed   *time.Time `json:"last_used"`
	UsageCount int        `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// QuickAccess groups the recipe shortcut lists shown on the week menu page.
type QuickAccess struct {
	Favorites []Recipe `json:"favorites"`
	Recent    []Recipe `json:"recent"`
	Popular   []Recipe `json:"popular"`
}

// RecipeLine is one ingredient row of a recipe. IngredientName and Category
// are denormalized from the ingredient table when lines are read.
type RecipeLine struct {
	ID             int64   `json:"id"`
	RecipeID       int64   `json:"recipe_id"`
	IngredientID   int64   `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Category       string  `json:"category"`
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
}
