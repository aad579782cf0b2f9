package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/dverbeek/weekmenu/internal/mealplan"
	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/store"
	"github.com/dverbeek/weekmenu/internal/upload"
	"github.com/dverbeek/weekmenu/internal/websocket"
)

const maxUploadBytes = 10 << 20

type RecipeHandler struct {
	recipeStore *store.RecipeStore
	uploads     *upload.Store
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewRecipeHandler(rs *store.RecipeStore, uploads *upload.Store, hub *websocket.Hub, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipeStore: rs, uploads: uploads, hub: hub, logger: logger}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	recipe, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if recipe == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	lines, err := h.recipeStore.Lines(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe lines"})
		return
	}
	if lines == nil {
		lines = []model.RecipeLine{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe, "lines": lines})
}

// recipeForm holds the parsed multipart form of a recipe create or edit.
type recipeForm struct {
	name       string
	cookbookID *int64
	page       *int
	serves     int
	imagePath  *string
	lines      []store.LineInput
}

// parseRecipeForm reads a multipart recipe submission. The image is saved as
// a side effect when one was uploaded; imagePath stays nil otherwise.
func (h *RecipeHandler) parseRecipeForm(r *http.Request) (*recipeForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("invalid form data")
	}

	form := &recipeForm{
		name:   strings.TrimSpace(r.FormValue("name")),
		serves: coerceCount(r.FormValue("serves")),
	}
	if form.name == "" {
		return nil, errors.New("name is required")
	}

	if raw := r.FormValue("cookbook_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid cookbook_id")
		}
		form.cookbookID = &id
	}
	if raw := r.FormValue("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid page")
		}
		form.page = &p
	}

	imagePath, err := h.saveImage(r)
	if err != nil {
		return nil, err
	}
	form.imagePath = imagePath

	names := r.MultipartForm.Value["ingredient[]"]
	amounts := r.MultipartForm.Value["amount[]"]
	units := r.MultipartForm.Value["unit[]"]
	categories := r.MultipartForm.Value["category[]"]
	for i, name := range names {
		form.lines = append(form.lines, store.LineInput{
			Name:     strings.TrimSpace(name),
			Amount:   valueAt(amounts, i),
			Unit:     valueAt(units, i),
			Category: valueAt(categories, i),
		})
	}

	return form, nil
}

// saveImage stores an uploaded image file, if any, and returns its public
// path. No file is not an error.
func (h *RecipeHandler) saveImage(r *http.Request) (*string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid image upload")
	}
	defer file.Close()

	name, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrEmptyFilename) {
			return nil, nil
		}
		return nil, err
	}
	p := path.Join("/static/uploads", name)
	return &p, nil
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseRecipeForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	recipe, err := h.recipeStore.Create(form.name, form.cookbookID, form.page, form.imagePath, form.serves)
	if err != nil {
		h.logger.Error("create recipe", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create recipe"})
		return
	}

	if err := h.recipeStore.ReplaceLines(recipe.ID, form.lines); err != nil {
		h.logger.Error("save recipe lines", "recipe_id", recipe.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save recipe lines"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "created", recipe.ID, nil))
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	form, err := h.parseRecipeForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// No new image uploaded: keep the current one.
	if form.imagePath == nil {
		form.imagePath = existing.ImagePath
	}

	recipe, err := h.recipeStore.Update(id, form.name, form.cookbookID, form.page, form.imagePath, form.serves)
	if err != nil {
		h.logger.Error("update recipe", "recipe_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update recipe"})
		return
	}

	if err := h.recipeStore.ReplaceLines(id, form.lines); err != nil {
		h.logger.Error("save recipe lines", "recipe_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save recipe lines"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "updated", id, nil))
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.recipeStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get recipe"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	if err := h.recipeStore.Delete(id); err != nil {
		h.logger.Error("delete recipe", "recipe_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete recipe"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *RecipeHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	recipe, err := h.recipeStore.ToggleFavorite(id)
	if err != nil {
		h.logger.Error("toggle favorite", "recipe_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle favorite"})
		return
	}
	if recipe == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("recipe", "favorite", id, map[string]any{"is_favorite": recipe.IsFavorite}))
	writeJSON(w, http.StatusOK, map[string]any{"id": recipe.ID, "is_favorite": recipe.IsFavorite})
}

func (h *RecipeHandler) QuickAccess(w http.ResponseWriter, r *http.Request) {
	qa, err := h.recipeStore.QuickAccess()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load quick access"})
		return
	}
	if qa.Favorites == nil {
		qa.Favorites = []model.Recipe{}
	}
	if qa.Recent == nil {
		qa.Recent = []model.Recipe{}
	}
	if qa.Popular == nil {
		qa.Popular = []model.Recipe{}
	}
	writeJSON(w, http.StatusOK, qa)
}

// coerceCount parses a positive integer form value, falling back to the
// default people count on anything else.
func coerceCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return mealplan.DefaultPeopleCount
	}
	return n
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
