package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kitchencrew.ai/internal/sim/kitchen"
	"kitchencrew.ai/internal/sim/world"
)

var ErrUnknownRecipe = errors.New("unknown recipe")

type Catalogs struct {
	Recipes RecipeCatalog
}

// RecipeCatalog holds the order templates. Order keeps file order so the
// order rotation is reproducible.
type RecipeCatalog struct {
	ByID   map[string]RecipeDef
	Order  []string
	Digest string
}

type RecipeDef struct {
	RecipeID         string  `json:"recipe_id"`
	Dish             string  `json:"dish"`
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
	Bonus            int     `json:"bonus"`
}

var defaultRecipes = []RecipeDef{
	{RecipeID: "OnionLettuceSoup", Dish: "Alice", TimeLimitSeconds: 60, Bonus: 15},
	{RecipeID: "TomatoLettuceSoup", Dish: "Bob", TimeLimitSeconds: 60, Bonus: 15},
	{RecipeID: "OnionTomatoSoup", Dish: "Cathy", TimeLimitSeconds: 60, Bonus: 15},
	{RecipeID: "FullSoup", Dish: "David", TimeLimitSeconds: 70, Bonus: 20},
}

// Default is the built-in catalog.
func Default() *Catalogs {
	raw, _ := json.Marshal(defaultRecipes)
	var c Catalogs
	if err := parseRecipes(raw, &c.Recipes); err != nil {
		panic(err)
	}
	return &c
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := parseRecipes(raw, out); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	return nil
}

func parseRecipes(raw []byte, out *RecipeCatalog) error {
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return err
	}
	out.ByID = map[string]RecipeDef{}
	out.Order = out.Order[:0]
	for _, r := range defs {
		if r.RecipeID == "" {
			return fmt.Errorf("empty recipe_id")
		}
		if _, dup := out.ByID[r.RecipeID]; dup {
			return fmt.Errorf("duplicate recipe_id %q", r.RecipeID)
		}
		if _, ok := kitchen.LookupDish(r.Dish); !ok {
			return fmt.Errorf("recipe %s: unknown dish %q", r.RecipeID, r.Dish)
		}
		out.ByID[r.RecipeID] = r
		out.Order = append(out.Order, r.RecipeID)
	}
	return nil
}

// Target is the plated cooked soup that fulfils the recipe.
func (r RecipeDef) Target() kitchen.Object {
	d, _ := kitchen.LookupDish(r.Dish)
	return d.Object(kitchen.Cooked, true)
}

// WorldRecipes resolves recipe ids for the simulator. No ids selects every
// recipe in catalog order.
func (c RecipeCatalog) WorldRecipes(ids []string) ([]world.Recipe, error) {
	if len(ids) == 0 {
		ids = c.Order
	}
	out := make([]world.Recipe, 0, len(ids))
	for _, id := range ids {
		r, ok := c.ByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, id)
		}
		out = append(out, world.Recipe{Name: r.RecipeID, Target: r.Target(), Limit: r.TimeLimitSeconds, Bonus: r.Bonus})
	}
	return out, nil
}
