package handler

import (
	"net/http"

	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/store"
)

// IngredientHandler serves the ingredient catalog, used by the recipe form
// for name autocompletion.
type IngredientHandler struct {
	ingredientStore *store.IngredientStore
}

func NewIngredientHandler(is *store.IngredientStore) *IngredientHandler {
	return &IngredientHandler{ingredientStore: is}
}

func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.ingredientStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list ingredients"})
		return
	}
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	writeJSON(w, http.StatusOK, ingredients)
}
