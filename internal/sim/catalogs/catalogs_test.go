package catalogs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Recipes.Digest) != 64 {
		t.Fatalf("digest: %q", c.Recipes.Digest)
	}
	def := Default()
	if len(c.Recipes.Order) != len(def.Recipes.Order) {
		t.Fatalf("recipes: got %v want %v", c.Recipes.Order, def.Recipes.Order)
	}
	for i, id := range def.Recipes.Order {
		if c.Recipes.Order[i] != id || c.Recipes.ByID[id] != def.Recipes.ByID[id] {
			t.Fatalf("recipe %s differs from the built-in catalog", id)
		}
	}
}

func TestWorldRecipes(t *testing.T) {
	c := Default()
	rs, err := c.Recipes.WorldRecipes([]string{"FullSoup"})
	if err != nil {
		t.Fatalf("WorldRecipes: %v", err)
	}
	if len(rs) != 1 || rs[0].Limit != 70 || rs[0].Bonus != 20 {
		t.Fatalf("got %+v", rs)
	}
	if got := rs[0].Target.Name(); got != "CookedLettuce-CookedOnion-CookedTomato-Plate" {
		t.Fatalf("target: got %s", got)
	}

	all, err := c.Recipes.WorldRecipes(nil)
	if err != nil || len(all) != 4 || all[0].Name != "OnionLettuceSoup" {
		t.Fatalf("all recipes: %+v, %v", all, err)
	}
	if _, err := c.Recipes.WorldRecipes([]string{"Pizza"}); !errors.Is(err, ErrUnknownRecipe) {
		t.Fatalf("got %v want ErrUnknownRecipe", err)
	}
}

func TestLoadRejectsUnknownDish(t *testing.T) {
	dir := t.TempDir()
	body := `[{"recipe_id": "Mystery", "dish": "Zed", "time_limit_seconds": 10, "bonus": 1}]`
	if err := os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected an error for an unknown dish")
	}
}
