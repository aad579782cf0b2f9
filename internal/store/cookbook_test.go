package store

import (
	"testing"

	"github.com/dverbeek/weekmenu/internal/database"
)

func setupCookbookTestDB(t *testing.T) (*CookbookStore, *RecipeStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCookbookStore(db), NewRecipeStore(db)
}

func TestCookbookCRUD(t *testing.T) {
	cs, _ := setupCookbookTestDB(t)

	// Create with explicit abbreviation
	c, err := cs.Create("De Zilveren Lepel", "DZL", nil)
	if err != nil {
		t.Fatalf("create cookbook: %v", err)
	}
	if c.Abbreviation != "DZL" {
		t.Errorf("abbreviation = %q, want %q", c.Abbreviation, "DZL")
	}

	// GetByName
	got, err := cs.GetByName("De Zilveren Lepel")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if got == nil || got.ID != c.ID {
		t.Errorf("get by name = %+v, want id %d", got, c.ID)
	}

	// Update
	updated, err := cs.Update(c.ID, "De Zilveren Lepel 2", "ZL2", nil)
	if err != nil {
		t.Fatalf("update cookbook: %v", err)
	}
	if updated.Name != "De Zilveren Lepel 2" || updated.Abbreviation != "ZL2" {
		t.Errorf("updated = %+v", updated)
	}

	// Delete
	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete cookbook: %v", err)
	}
	got, err = cs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestCookbookDerivesAbbreviation(t *testing.T) {
	cs, _ := setupCookbookTestDB(t)

	tests := []struct {
		name string
		want string
	}{
		{"Het Grote Pastaboek", "HGP"},
		{"Simpel", "S"},
		{"Een Twee Drie Vier Vijf Zes", "ETDVV"},
	}
	for _, tt := range tests {
		c, err := cs.Create(tt.name, "", nil)
		if err != nil {
			t.Fatalf("create %q: %v", tt.name, err)
		}
		if c.Abbreviation != tt.want {
			t.Errorf("abbreviation for %q = %q, want %q", tt.name, c.Abbreviation, tt.want)
		}
	}
}

func TestCookbookDeleteDetachesRecipes(t *testing.T) {
	cs, rs := setupCookbookTestDB(t)

	c, err := cs.Create("Oud Boek", "OB", nil)
	if err != nil {
		t.Fatalf("create cookbook: %v", err)
	}
	r, err := rs.Create("Erwtensoep", &c.ID, nil, nil, 4)
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete cookbook: %v", err)
	}

	got, err := rs.GetByID(r.ID)
	if err != nil {
		t.Fatalf("get recipe: %v", err)
	}
	if got == nil {
		t.Fatal("recipe must survive cookbook deletion")
	}
	if got.CookbookID != nil {
		t.Errorf("cookbook_id should be null, got %v", *got.CookbookID)
	}
}

func TestCookbookRecipesSortedByPage(t *testing.T) {
	cs, rs := setupCookbookTestDB(t)

	c, err := cs.Create("Bakboek", "BB", nil)
	if err != nil {
		t.Fatalf("create cookbook: %v", err)
	}

	p12, p3 := 12, 3
	if _, err := rs.Create("Appeltaart", &c.ID, &p12, nil, 8); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rs.Create("Zonder Pagina", &c.ID, nil, nil, 4); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rs.Create("Brownies", &c.ID, &p3, nil, 6); err != nil {
		t.Fatalf("create: %v", err)
	}

	recipes, err := cs.Recipes(c.ID)
	if err != nil {
		t.Fatalf("cookbook recipes: %v", err)
	}
	want := []string{"Brownies", "Appeltaart", "Zonder Pagina"}
	if len(recipes) != len(want) {
		t.Fatalf("expected %d recipes, got %d", len(want), len(recipes))
	}
	for i, name := range want {
		if recipes[i].Name != name {
			t.Errorf("recipe[%d] = %q, want %q", i, recipes[i].Name, name)
		}
	}
}
