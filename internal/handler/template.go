package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dverbeek/weekmenu/internal/mealplan"
	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/shopping"
	"github.com/dverbeek/weekmenu/internal/store"
)

// TemplateHandler renders the server-side pages.
type TemplateHandler struct {
	menuStore     *store.MenuStore
	recipeStore   *store.RecipeStore
	cookbookStore *store.CookbookStore
	templates     *template.Template
	logger        *slog.Logger
}

func NewTemplateHandler(ms *store.MenuStore, rs *store.RecipeStore, cs *store.CookbookStore, logger *slog.Logger) *TemplateHandler {
	funcs := template.FuncMap{
		"deref": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseGlob("web/templates/*.html"))
	return &TemplateHandler{
		menuStore:     ms,
		recipeStore:   rs,
		cookbookStore: cs,
		templates:     tmpl,
		logger:        logger,
	}
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Index redirects to the current ISO week's menu.
func (h *TemplateHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	year, week := mealplan.WeekOf(time.Now())
	http.Redirect(w, r, fmt.Sprintf("/week/%d/%d", year, week), http.StatusSeeOther)
}

func (h *TemplateHandler) WeekMenuPage(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	items, err := h.menuStore.WeekItems(year, week)
	if err != nil {
		http.Error(w, "failed to load menu", http.StatusInternalServerError)
		return
	}
	recipes, err := h.recipeStore.List()
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}

	// Key cells by "day-meal" so the template can look up each slot.
	cells := make(map[string]model.MenuItem, len(items))
	for _, item := range items {
		cells[fmt.Sprintf("%d-%s", item.DayOfWeek, item.MealType)] = item
	}

	prevYear, prevWeek := mealplan.PrevWeek(year, week)
	nextYear, nextWeek := mealplan.NextWeek(year, week)

	h.render(w, "week_menu.html", map[string]any{
		"Title":    fmt.Sprintf("Week %d, %d", week, year),
		"Year":     year,
		"Week":     week,
		"PrevYear": prevYear,
		"PrevWeek": prevWeek,
		"NextYear": nextYear,
		"NextWeek": nextWeek,
		"Days":     mealplan.Days,
		"Meals":    mealplan.Meals,
		"Cells":    cells,
		"Recipes":  recipes,
	})
}

func (h *TemplateHandler) RecipesPage(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeStore.List()
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}
	h.render(w, "recipes.html", map[string]any{
		"Title":   "Recepten",
		"Recipes": recipes,
	})
}

func (h *TemplateHandler) RecipeNewPage(w http.ResponseWriter, r *http.Request) {
	cookbooks, err := h.cookbookStore.List()
	if err != nil {
		http.Error(w, "failed to load cookbooks", http.StatusInternalServerError)
		return
	}
	h.render(w, "recipe_form.html", map[string]any{
		"Title":      "Nieuw recept",
		"Cookbooks":  cookbooks,
		"Categories": shopping.CategoryOrder,
	})
}

func (h *TemplateHandler) RecipeEditPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	recipe, err := h.recipeStore.GetByID(id)
	if err != nil {
		http.Error(w, "failed to load recipe", http.StatusInternalServerError)
		return
	}
	if recipe == nil {
		http.NotFound(w, r)
		return
	}
	lines, err := h.recipeStore.Lines(id)
	if err != nil {
		http.Error(w, "failed to load recipe lines", http.StatusInternalServerError)
		return
	}
	cookbooks, err := h.cookbookStore.List()
	if err != nil {
		http.Error(w, "failed to load cookbooks", http.StatusInternalServerError)
		return
	}
	h.render(w, "recipe_form.html", map[string]any{
		"Title":      recipe.Name,
		"Recipe":     recipe,
		"Lines":      lines,
		"Cookbooks":  cookbooks,
		"Categories": shopping.CategoryOrder,
	})
}

func (h *TemplateHandler) CookbooksPage(w http.ResponseWriter, r *http.Request) {
	cookbooks, err := h.cookbookStore.List()
	if err != nil {
		http.Error(w, "failed to load cookbooks", http.StatusInternalServerError)
		return
	}
	h.render(w, "cookbooks.html", map[string]any{
		"Title":     "Kookboeken",
		"Cookbooks": cookbooks,
	})
}

func (h *TemplateHandler) CookbookRecipesPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	cookbook, err := h.cookbookStore.GetByID(id)
	if err != nil {
		http.Error(w, "failed to load cookbook", http.StatusInternalServerError)
		return
	}
	if cookbook == nil {
		http.NotFound(w, r)
		return
	}
	recipes, err := h.cookbookStore.Recipes(id)
	if err != nil {
		http.Error(w, "failed to load recipes", http.StatusInternalServerError)
		return
	}
	h.render(w, "cookbook_recipes.html", map[string]any{
		"Title":    cookbook.Name,
		"Cookbook": cookbook,
		"Recipes":  recipes,
	})
}

func (h *TemplateHandler) ShoppingListPage(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	extras := parseExtraEntries(r)
	lines, err := buildShoppingList(h.menuStore, h.recipeStore, year, week, extras)
	if err != nil {
		h.logger.Error("build shopping list", "year", year, "week", week, "error", err)
		http.Error(w, "failed to build shopping list", http.StatusInternalServerError)
		return
	}

	quickAdds, err := h.menuStore.QuickAdds(year, week)
	if err != nil {
		http.Error(w, "failed to load quick adds", http.StatusInternalServerError)
		return
	}

	h.render(w, "shopping_list.html", map[string]any{
		"Title":     fmt.Sprintf("Boodschappen week %d", week),
		"Year":      year,
		"Week":      week,
		"Lines":     lines,
		"QuickAdds": quickAdds,
	})
}
