package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/dverbeek/weekmenu/internal/model"
	"github.com/dverbeek/weekmenu/internal/store"
	"github.com/dverbeek/weekmenu/internal/upload"
	"github.com/dverbeek/weekmenu/internal/websocket"
)

type CookbookHandler struct {
	cookbookStore *store.CookbookStore
	uploads       *upload.Store
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewCookbookHandler(cs *store.CookbookStore, uploads *upload.Store, hub *websocket.Hub, logger *slog.Logger) *CookbookHandler {
	return &CookbookHandler{cookbookStore: cs, uploads: uploads, hub: hub, logger: logger}
}

func (h *CookbookHandler) List(w http.ResponseWriter, r *http.Request) {
	cookbooks, err := h.cookbookStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list cookbooks"})
		return
	}
	if cookbooks == nil {
		cookbooks = []model.Cookbook{}
	}
	writeJSON(w, http.StatusOK, cookbooks)
}

func (h *CookbookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	cookbook, err := h.cookbookStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get cookbook"})
		return
	}
	if cookbook == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cookbook not found"})
		return
	}
	writeJSON(w, http.StatusOK, cookbook)
}

type cookbookForm struct {
	name         string
	abbreviation string
	imagePath    *string
}

func (h *CookbookHandler) parseCookbookForm(r *http.Request) (*cookbookForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("invalid form data")
	}

	form := &cookbookForm{
		name:         strings.TrimSpace(r.FormValue("name")),
		abbreviation: strings.TrimSpace(r.FormValue("abbreviation")),
	}
	if form.name == "" {
		return nil, errors.New("name is required")
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return form, nil
	}
	if err != nil {
		return nil, errors.New("invalid image upload")
	}
	defer file.Close()

	name, err := h.uploads.Save(file, header.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrEmptyFilename) {
			return form, nil
		}
		return nil, err
	}
	p := path.Join("/static/uploads", name)
	form.imagePath = &p
	return form, nil
}

func (h *CookbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseCookbookForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	existing, err := h.cookbookStore.GetByName(form.name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check cookbook"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cookbook already exists"})
		return
	}

	cookbook, err := h.cookbookStore.Create(form.name, form.abbreviation, form.imagePath)
	if err != nil {
		h.logger.Error("create cookbook", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create cookbook"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("cookbook", "created", cookbook.ID, nil))
	writeJSON(w, http.StatusCreated, cookbook)
}

func (h *CookbookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.cookbookStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get cookbook"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cookbook not found"})
		return
	}

	form, err := h.parseCookbookForm(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if form.imagePath == nil {
		form.imagePath = existing.ImagePath
	}
	if form.abbreviation == "" {
		form.abbreviation = existing.Abbreviation
	}

	cookbook, err := h.cookbookStore.Update(id, form.name, form.abbreviation, form.imagePath)
	if err != nil {
		h.logger.Error("update cookbook", "cookbook_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update cookbook"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("cookbook", "updated", id, nil))
	writeJSON(w, http.StatusOK, cookbook)
}

func (h *CookbookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.cookbookStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get cookbook"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cookbook not found"})
		return
	}

	if err := h.cookbookStore.Delete(id); err != nil {
		h.logger.Error("delete cookbook", "cookbook_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete cookbook"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("cookbook", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// Recipes lists a cookbook's recipes sorted by page, pageless recipes last.
func (h *CookbookHandler) Recipes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	cookbook, err := h.cookbookStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get cookbook"})
		return
	}
	if cookbook == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cookbook not found"})
		return
	}

	recipes, err := h.cookbookStore.Recipes(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list recipes"})
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"cookbook": cookbook, "recipes": recipes})
}
