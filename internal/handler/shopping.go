package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/shopping"
	"github.com/dverbeek/weekmenu/internal/store"
	"github.com/dverbeek/weekmenu/internal/websocket"
)

type ShoppingHandler struct {
	menuStore   *store.MenuStore
	recipeStore *store.RecipeStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewShoppingHandler(ms *store.MenuStore, rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{menuStore: ms, recipeStore: rs, hub: hub, logger: logger}
}

// Get builds the consolidated shopping list for a week. Repeated recipe_id
// and people query parameters add transient entries on top of the menu cells
// and the persisted quick-adds.
func (h *ShoppingHandler) Get(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	extras := parseExtraEntries(r)
	lines, err := buildShoppingList(h.menuStore, h.recipeStore, year, week, extras)
	if err != nil {
		h.logger.Error("build shopping list", "year", year, "week", week, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build shopping list"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"week":  week,
		"lines": lines,
	})
}

// parseExtraEntries pairs repeated recipe_id and people parameters by index.
// A malformed id is skipped; a malformed or missing people value falls back
// to the default in the aggregator.
func parseExtraEntries(r *http.Request) []shopping.Entry {
	q := r.URL.Query()
	ids := q["recipe_id"]
	people := q["people"]

	var extras []shopping.Entry
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		count := 0
		if i < len(people) {
			count, _ = strconv.Atoi(people[i])
		}
		extras = append(extras, shopping.Entry{RecipeID: id, PeopleCount: count})
	}
	return extras
}

// buildShoppingList gathers the week's entries from all three sources and
// runs the aggregator. Menu cells without a recipe and entries whose recipe
// no longer exists contribute nothing.
func buildShoppingList(ms *store.MenuStore, rs *store.RecipeStore, year, week int, extras []shopping.Entry) ([]shopping.Line, error) {
	items, err := ms.WeekItems(year, week)
	if err != nil {
		return nil, err
	}
	quickAdds, err := ms.QuickAdds(year, week)
	if err != nil {
		return nil, err
	}

	var entries []shopping.Entry
	for _, item := range items {
		if item.RecipeID == nil {
			continue
		}
		entries = append(entries, shopping.Entry{RecipeID: *item.RecipeID, PeopleCount: item.PeopleCount})
	}
	for _, qa := range quickAdds {
		entries = append(entries, shopping.Entry{RecipeID: qa.RecipeID, PeopleCount: qa.PeopleCount})
	}
	entries = append(entries, extras...)

	sources := make(map[int64]shopping.Source)
	for _, e := range entries {
		if _, ok := sources[e.RecipeID]; ok {
			continue
		}
		recipe, err := rs.GetByID(e.RecipeID)
		if err != nil {
			return nil, err
		}
		if recipe == nil {
			continue
		}
		lines, err := rs.Lines(e.RecipeID)
		if err != nil {
			return nil, err
		}
		sources[e.RecipeID] = shopping.Source{Serves: recipe.Serves, Lines: lines}
	}

	list := shopping.Build(entries, sources)
	if list == nil {
		list = []shopping.Line{}
	}
	return list, nil
}

func (h *ShoppingHandler) ListQuickAdds(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, err := h.menuStore.QuickAdds(year, week)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load quick adds"})
		return
	}
	if items == nil {
		items = []model.QuickAddItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) SaveQuickAdds(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Items []model.QuickAddEntry `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.menuStore.ReplaceQuickAdds(year, week, req.Items); err != nil {
		h.logger.Error("save quick adds", "year", year, "week", week, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to save quick adds"})
		return
	}

	h.hub.Broadcast(websocket.WeekMessage("quick_add", "updated", year, week))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *ShoppingHandler) ClearQuickAdds(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.menuStore.ClearQuickAdds(year, week); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to clear quick adds"})
		return
	}

	h.hub.Broadcast(websocket.WeekMessage("quick_add", "cleared", year, week))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
