package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dverbeek/weekmenu/internal/config"
	"github.com/dverbeek/weekmenu/internal/handler"
	"github.com/dverbeek/weekmenu/internal/middleware"
	"github.com/dverbeek/weekmenu/internal/store"
	"github.com/dverbeek/weekmenu/internal/upload"
	ws "github.com/dverbeek/weekmenu/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	menuH       *handler.MenuHandler
	ingredientH *handler.IngredientHandler
	shoppingH   *handler.ShoppingHandler
	recipeH     *handler.RecipeHandler
	cookbookH   *handler.CookbookHandler
	templateH   *handler.TemplateHandler
	logger      *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	ingredientStore := store.NewIngredientStore(db)
	recipeStore := store.NewRecipeStore(db)
	cookbookStore := store.NewCookbookStore(db)
	menuStore := store.NewMenuStore(db)

	uploads := upload.NewStore(cfg.UploadsDir)

	return &Server{
		db:          db,
		hub:         hub,
		menuH:       handler.NewMenuHandler(menuStore, recipeStore, hub, logger.With("component", "menu")),
		ingredientH: handler.NewIngredientHandler(ingredientStore),
		shoppingH:   handler.NewShoppingHandler(menuStore, recipeStore, hub, logger.With("component", "shopping")),
		recipeH:     handler.NewRecipeHandler(recipeStore, uploads, hub, logger.With("component", "recipe")),
		cookbookH:   handler.NewCookbookHandler(cookbookStore, uploads, hub, logger.With("component", "cookbook")),
		templateH:   handler.NewTemplateHandler(menuStore, recipeStore, cookbookStore, logger.With("component", "template")),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Week menu API
	mux.HandleFunc("GET /api/weeks/{year}/{week}/menu", s.menuH.GetWeek)
	mux.HandleFunc("PUT /api/weeks/{year}/{week}/menu", s.menuH.UpdateWeek)
	mux.HandleFunc("DELETE /api/weeks/{year}/{week}/menu", s.menuH.ClearWeek)

	// Shopping list + quick-add API
	mux.HandleFunc("GET /api/weeks/{year}/{week}/shopping-list", s.shoppingH.Get)
	mux.HandleFunc("GET /api/weeks/{year}/{week}/quick-add", s.shoppingH.ListQuickAdds)
	mux.HandleFunc("PUT /api/weeks/{year}/{week}/quick-add", s.shoppingH.SaveQuickAdds)
	mux.HandleFunc("DELETE /api/weeks/{year}/{week}/quick-add", s.shoppingH.ClearQuickAdds)

	// Recipe API
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes/quick-access", s.recipeH.QuickAccess)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)
	mux.HandleFunc("POST /api/recipes/{id}/favorite", s.recipeH.ToggleFavorite)

	// Ingredient catalog (recipe form autocomplete)
	mux.HandleFunc("GET /api/ingredients", s.ingredientH.List)

	// Cookbook API
	mux.HandleFunc("GET /api/cookbooks", s.cookbookH.List)
	mux.HandleFunc("POST /api/cookbooks", s.cookbookH.Create)
	mux.HandleFunc("GET /api/cookbooks/{id}", s.cookbookH.Get)
	mux.HandleFunc("PUT /api/cookbooks/{id}", s.cookbookH.Update)
	mux.HandleFunc("DELETE /api/cookbooks/{id}", s.cookbookH.Delete)
	mux.HandleFunc("GET /api/cookbooks/{id}/recipes", s.cookbookH.Recipes)

	// Pages
	mux.HandleFunc("GET /", s.templateH.Index)
	mux.HandleFunc("GET /week/{year}/{week}", s.templateH.WeekMenuPage)
	mux.HandleFunc("GET /recipes", s.templateH.RecipesPage)
	mux.HandleFunc("GET /recipes/new", s.templateH.RecipeNewPage)
	mux.HandleFunc("GET /recipes/{id}/edit", s.templateH.RecipeEditPage)
	mux.HandleFunc("GET /cookbooks", s.templateH.CookbooksPage)
	mux.HandleFunc("GET /cookbooks/{id}/recipes", s.templateH.CookbookRecipesPage)
	mux.HandleFunc("GET /shopping-list/{year}/{week}", s.templateH.ShoppingListPage)

	// Static assets (uploaded images included)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	mux.HandleFunc("GET /health", s.healthHandler)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
