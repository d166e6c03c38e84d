// Package inventory holds the tiered item lists reports draw entries from.
package inventory

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/expensegen/internal/pricing"
)

//go:embed data/default_inventory.json
var defaultInventory []byte

// Inventory maps each price tier to the items that may be bought in it.
type Inventory map[pricing.Tier][]string

// Fallback returns the sentinel item used when a tier has no items.
func Fallback(t pricing.Tier) string {
	return "_Default" + string(t) + "Item"
}

// Default returns the bundled default inventory.
func Default() (Inventory, error) {
	inv, err := Parse(defaultInventory)
	if err != nil {
		return nil, fmt.Errorf("parse default inventory: %w", err)
	}
	return inv, nil
}

// Parse decodes a YAML or JSON inventory document.
func Parse(data []byte) (Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Load reads an inventory file in YAML or JSON.
func Load(path string) (Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse inventory file %s: %w", path, err)
	}
	return inv, nil
}

// Resolve builds the inventory an engine works with. An empty input is
// replaced by the bundled default. The result always has exactly the three
// tiers, each non-empty, and never shares slices with the input.
func Resolve(inv Inventory) (Inventory, error) {
	if len(inv) == 0 {
		def, err := Default()
		if err != nil {
			return nil, err
		}
		inv = def
	}

	resolved := make(Inventory, len(pricing.Tiers))
	for _, tier := range pricing.Tiers {
		items := inv[tier]
		if len(items) == 0 {
			resolved[tier] = []string{Fallback(tier)}
			continue
		}
		resolved[tier] = slices.Clone(items)
	}
	return resolved, nil
}

// Clone returns a deep copy of the inventory.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for tier, items := range inv {
		out[tier] = slices.Clone(items)
	}
	return out
}
