package store

import (
	"testing"

	"github.com/dverbeek/weekmenu/internal/database"
)

func setupIngredientTestDB(t *testing.T) *IngredientStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewIngredientStore(db)
}

func TestGetOrCreateDeduplicates(t *testing.T) {
	is := setupIngredientTestDB(t)

	first, err := is.GetOrCreate("Tomaat", "AGF")
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	second, err := is.GetOrCreate("Tomaat", "AGF")
	if err != nil {
		t.Fatalf("get ingredient: %v", err)
	}
	if first != second {
		t.Errorf("same name produced two ids: %d and %d", first, second)
	}

	ingredients, err := is.List()
	if err != nil {
		t.Fatalf("list ingredients: %v", err)
	}
	if len(ingredients) != 1 {
		t.Errorf("expected 1 ingredient, got %d", len(ingredients))
	}
}

func TestGetOrCreateFirstWriterKeepsCategory(t *testing.T) {
	is := setupIngredientTestDB(t)

	id, err := is.GetOrCreate("Melk", "Zuivel")
	if err != nil {
		t.Fatalf("create ingredient: %v", err)
	}
	if _, err := is.GetOrCreate("Melk", "Dranken"); err != nil {
		t.Fatalf("get ingredient: %v", err)
	}

	ing, err := is.GetByID(id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if ing == nil {
		t.Fatal("expected ingredient, got nil")
	}
	if ing.Category != "Zuivel" {
		t.Errorf("category = %q, want %q", ing.Category, "Zuivel")
	}
}

func TestGetOrCreateIsCaseSensitive(t *testing.T) {
	is := setupIngredientTestDB(t)

	a, err := is.GetOrCreate("tomaat", "AGF")
	if err != nil {
		t.Fatalf("create lowercase: %v", err)
	}
	b, err := is.GetOrCreate("Tomaat", "AGF")
	if err != nil {
		t.Fatalf("create capitalized: %v", err)
	}
	if a == b {
		t.Error("names differing only in case should be distinct ingredients")
	}
}

func TestIngredientListSortedByName(t *testing.T) {
	is := setupIngredientTestDB(t)

	for _, name := range []string{"Ui", "Appel", "Melk"} {
		if _, err := is.GetOrCreate(name, "Overig"); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	ingredients, err := is.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Appel", "Melk", "Ui"}
	for i, name := range want {
		if ingredients[i].Name != name {
			t.Errorf("ingredient[%d].Name = %q, want %q", i, ingredients[i].Name, name)
		}
	}
}

func TestGetByIDMissing(t *testing.T) {
	is := setupIngredientTestDB(t)

	ing, err := is.GetByID(12345)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ing != nil {
		t.Errorf("expected nil for missing ingredient, got %+v", ing)
	}
}
