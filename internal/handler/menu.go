package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dverbeek/weekmenu/internal/mealplan"
	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/store"
	"github.com/dverbeek/weekmenu/internal/websocket"
)

type MenuHandler struct {
	menuStore   *store.MenuStore
	recipeStore *store.RecipeStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewMenuHandler(ms *store.MenuStore, rs *store.RecipeStore, hub *websocket.Hub, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{menuStore: ms, recipeStore: rs, hub: hub, logger: logger}
}

func (h *MenuHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, err := h.menuStore.WeekItems(year, week)
	if err != nil {
		h.logger.Error("load week menu", "year", year, "week", week, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load menu"})
		return
	}
	if items == nil {
		items = []model.MenuItem{}
	}

	recipes, err := h.recipeStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load recipes"})
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"week":    week,
		"days":    mealplan.Days,
		"meals":   mealplan.Meals,
		"items":   items,
		"recipes": recipes,
	})
}

// menuCellValue accepts both the legacy bare recipe-id form and the
// structured {recipe_id, people_count} form for a meal slot.
type menuCellValue struct {
	RecipeID    *int64
	PeopleCount int
}

func (v *menuCellValue) UnmarshalJSON(data []byte) error {
	var id *int64
	if err := json.Unmarshal(data, &id); err == nil {
		v.RecipeID = id
		return nil
	}

	var obj struct {
		RecipeID    *int64 `json:"recipe_id"`
		PeopleCount int    `json:"people_count"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	v.RecipeID = obj.RecipeID
	v.PeopleCount = obj.PeopleCount
	return nil
}

type updateMenuRequest struct {
	Menu []struct {
		Day   int                      `json:"day"`
		Meals map[string]menuCellValue `json:"meals"`
	} `json:"menu"`
}

func (h *MenuHandler) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req updateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	var cells []model.MenuCell
	for _, day := range req.Menu {
		if !mealplan.ValidDay(day.Day) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
			return
		}
		for mealType, cell := range day.Meals {
			if !mealplan.ValidMeal(mealType) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid meal type"})
				return
			}
			cells = append(cells, model.MenuCell{
				DayOfWeek:   day.Day,
				MealType:    mealType,
				RecipeID:    cell.RecipeID,
				PeopleCount: cell.PeopleCount,
			})
		}
	}

	if err := h.menuStore.ReplaceWeek(year, week, cells); err != nil {
		h.logger.Error("save week menu", "year", year, "week", week, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to save menu"})
		return
	}

	h.hub.Broadcast(websocket.WeekMessage("menu", "updated", year, week))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *MenuHandler) ClearWeek(w http.ResponseWriter, r *http.Request) {
	year, week, err := parseWeekParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.menuStore.ClearWeek(year, week); err != nil {
		h.logger.Error("clear week menu", "year", year, "week", week, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "failed to clear menu"})
		return
	}

	h.hub.Broadcast(websocket.WeekMessage("menu", "cleared", year, week))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
