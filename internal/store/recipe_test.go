package store

import (
	"testing"

	"github.com/dverbeek/weekmenu/internal/database"
)

func setupRecipeTestDB(t *testing.T) (*RecipeStore, *CookbookStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRecipeStore(db), NewCookbookStore(db)
}

func TestRecipeCRUD(t *testing.T) {
	rs, cs := setupRecipeTestDB(t)

	book, err := cs.Create("Het Basiskookboek", "", nil)
	if err != nil {
		t.Fatalf("create cookbook: %v", err)
	}
	page := 42

	// Create
	r, err := rs.Create("Pasta Pesto", &book.ID, &page, nil, 4)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if r.Name != "Pasta Pesto" {
		t.Errorf("name = %q, want %q", r.Name, "Pasta Pesto")
	}
	if r.CookbookID == nil || *r.CookbookID != book.ID {
		t.Errorf("cookbook_id = %v, want %d", r.CookbookID, book.ID)
	}
	if r.Page == nil || *r.Page != 42 {
		t.Errorf("page = %v, want 42", r.Page)
	}
	if r.Serves != 4 {
		t.Errorf("serves = %d, want 4", r.Serves)
	}
	if r.IsFavorite {
		t.Error("new recipe should not be favorite")
	}
	if r.UsageCount != 0 {
		t.Errorf("usage_count = %d, want 0", r.UsageCount)
	}
	if r.LastUsed != nil {
		t.Errorf("last_used = %v, want nil", r.LastUsed)
	}

	// GetByID
	got, err := rs.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get recipe: %v", err)
	}
	if got == nil || got.Name != "Pasta Pesto" {
		t.Errorf("got %+v, want Pasta Pesto", got)
	}

	// Update
	updated, err := rs.Update(r.ID, "Pasta Pesto Rosso", nil, nil, nil, 2)
	if err != nil {
		t.Fatalf("update recipe: %v", err)
	}
	if updated.Name != "Pasta Pesto Rosso" {
		t.Errorf("updated name = %q", updated.Name)
	}
	if updated.CookbookID != nil {
		t.Errorf("cookbook_id should be cleared, got %v", updated.CookbookID)
	}
	if updated.Serves != 2 {
		t.Errorf("serves = %d, want 2", updated.Serves)
	}

	// Delete
	if err := rs.Delete(r.ID); err != nil {
		t.Fatalf("delete recipe: %v", err)
	}
	got, err = rs.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestRecipeCreateDefaultsServes(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	r, err := rs.Create("Soep", nil, nil, nil, 0)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	if r.Serves != 4 {
		t.Errorf("serves = %d, want default 4", r.Serves)
	}
}

func TestReplaceLinesFullReplace(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	r, err := rs.Create("Stamppot", nil, nil, nil, 4)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	err = rs.ReplaceLines(r.ID, []LineInput{
		{Name: "Aardappel", Amount: "1", Unit: "kg", Category: "AGF"},
		{Name: "Boerenkool", Amount: "400", Unit: "g", Category: "AGF"},
	})
	if err != nil {
		t.Fatalf("replace lines: %v", err)
	}

	lines, err := rs.Lines(r.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].IngredientName != "Aardappel" || lines[1].IngredientName != "Boerenkool" {
		t.Errorf("lines out of input order: %q, %q", lines[0].IngredientName, lines[1].IngredientName)
	}

	// A second replace wipes the first set entirely.
	err = rs.ReplaceLines(r.ID, []LineInput{
		{Name: "Rookworst", Amount: "1", Unit: "stuks", Category: "Vlees"},
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	lines, err = rs.Lines(r.ID)
	if err != nil {
		t.Fatalf("list lines again: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after replace, got %d", len(lines))
	}
	if lines[0].IngredientName != "Rookworst" {
		t.Errorf("line = %q, want Rookworst", lines[0].IngredientName)
	}
}

func TestReplaceLinesSkipsEmptyNames(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	r, err := rs.Create("Salade", nil, nil, nil, 2)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	err = rs.ReplaceLines(r.ID, []LineInput{
		{Name: "", Amount: "100", Unit: "g", Category: "AGF"},
		{Name: "Sla", Amount: "1", Unit: "krop", Category: "AGF"},
	})
	if err != nil {
		t.Fatalf("replace lines: %v", err)
	}

	lines, err := rs.Lines(r.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected empty-name row skipped, got %d lines", len(lines))
	}
}

func TestReplaceLinesCoercesAmounts(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	r, err := rs.Create("Smoothie", nil, nil, nil, 2)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	err = rs.ReplaceLines(r.ID, []LineInput{
		{Name: "Banaan", Amount: "2", Unit: "stuks", Category: "AGF"},
		{Name: "Honing", Amount: "niet-een-getal", Unit: "el", Category: "Houdbaar"},
		{Name: "Citroen", Amount: "-3", Unit: "stuks", Category: "AGF"},
	})
	if err != nil {
		t.Fatalf("replace lines: %v", err)
	}

	lines, err := rs.Lines(r.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	amounts := map[string]float64{}
	for _, l := range lines {
		amounts[l.IngredientName] = l.Amount
	}
	if amounts["Banaan"] != 2 {
		t.Errorf("Banaan amount = %v, want 2", amounts["Banaan"])
	}
	if amounts["Honing"] != 0 {
		t.Errorf("malformed amount should coerce to 0, got %v", amounts["Honing"])
	}
	if amounts["Citroen"] != 0 {
		t.Errorf("negative amount should coerce to 0, got %v", amounts["Citroen"])
	}
}

func TestReplaceLinesReusesIngredients(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	a, err := rs.Create("Recept A", nil, nil, nil, 4)
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := rs.Create("Recept B", nil, nil, nil, 4)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	if err := rs.ReplaceLines(a.ID, []LineInput{{Name: "Knoflook", Amount: "2", Unit: "teen", Category: "AGF"}}); err != nil {
		t.Fatalf("lines a: %v", err)
	}
	if err := rs.ReplaceLines(b.ID, []LineInput{{Name: "Knoflook", Amount: "1", Unit: "teen", Category: "AGF"}}); err != nil {
		t.Fatalf("lines b: %v", err)
	}

	linesA, _ := rs.Lines(a.ID)
	linesB, _ := rs.Lines(b.ID)
	if linesA[0].IngredientID != linesB[0].IngredientID {
		t.Errorf("same ingredient name resolved to two ids: %d and %d",
			linesA[0].IngredientID, linesB[0].IngredientID)
	}
}

func TestToggleFavorite(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	r, err := rs.Create("Wraps", nil, nil, nil, 4)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	on, err := rs.ToggleFavorite(r.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on.IsFavorite {
		t.Error("expected favorite after first toggle")
	}

	off, err := rs.ToggleFavorite(r.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.IsFavorite {
		t.Error("expected not favorite after second toggle")
	}

	missing, err := rs.ToggleFavorite(99999)
	if err != nil {
		t.Fatalf("toggle missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing recipe, got %+v", missing)
	}
}

func TestQuickAccessFavorites(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	fav, err := rs.Create("Favoriet", nil, nil, nil, 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rs.Create("Gewoon", nil, nil, nil, 4); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rs.ToggleFavorite(fav.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	qa, err := rs.QuickAccess()
	if err != nil {
		t.Fatalf("quick access: %v", err)
	}
	if len(qa.Favorites) != 1 || qa.Favorites[0].ID != fav.ID {
		t.Errorf("favorites = %+v, want only %d", qa.Favorites, fav.ID)
	}
	if len(qa.Recent) != 0 {
		t.Errorf("recent should be empty before any planning, got %d", len(qa.Recent))
	}
	if len(qa.Popular) != 0 {
		t.Errorf("popular should be empty before any planning, got %d", len(qa.Popular))
	}
}

func TestQuickAccessCapsAtTen(t *testing.T) {
	rs, _ := setupRecipeTestDB(t)

	for i := 0; i < 12; i++ {
		r, err := rs.Create("Recept", nil, nil, nil, 4)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := rs.ToggleFavorite(r.ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	qa, err := rs.QuickAccess()
	if err != nil {
		t.Fatalf("quick access: %v", err)
	}
	if len(qa.Favorites) != 10 {
		t.Errorf("favorites = %d, want capped at 10", len(qa.Favorites))
	}
}
