package world

import "kitchencrew.ai/internal/sim/kitchen"

type Config struct {
	Seed int64

	// Seconds of game time per Step.
	TickSeconds float64

	ChopSteps          int
	CookSeconds        float64
	CharSeconds        float64
	FirePutoutSeconds  float64
	FireRecoverSeconds float64

	// Orders. Recipes rotate in a seeded random order; an empty list disables orders.
	MaxOrders    int
	Recipes      []Recipe
	ExpirePunish int
}

// Recipe is an order template.
type Recipe struct {
	Name   string
	Target kitchen.Object
	Limit  float64
	Bonus  int
}

func (c *Config) applyDefaults() {
	if c.TickSeconds <= 0 {
		c.TickSeconds = 1
	}
	if c.ChopSteps <= 0 {
		c.ChopSteps = 8
	}
	if c.CookSeconds <= 0 {
		c.CookSeconds = 15
	}
	if c.CharSeconds <= 0 {
		c.CharSeconds = 25
	}
	if c.FirePutoutSeconds <= 0 {
		c.FirePutoutSeconds = 5
	}
	if c.FireRecoverSeconds <= 0 {
		c.FireRecoverSeconds = 1
	}
	if c.MaxOrders <= 0 {
		c.MaxOrders = 2
	}
	if c.ExpirePunish <= 0 {
		c.ExpirePunish = 5
	}
}
