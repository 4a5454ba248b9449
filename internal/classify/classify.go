// Package classify assigns order items to a pricing category using keyword
// heuristics over the item name and its encoded options. The keyword lists
// are configuration, not code: the shop tunes them as the catalog evolves.
package classify

import (
	"strings"

	"doucetentation/internal/menu"
	"doucetentation/internal/models"
)

// Config holds the keyword lists driving classification. Keywords are
// compared against a normalized (lowercased, diacritic-stripped) pool, so
// entries may be written with or without accents.
type Config struct {
	// SavoryKeywords flag an item as savory when any of them appears in
	// the search pool.
	SavoryKeywords []string `yaml:"savory_keywords"`
	// DualCatalogFlavors exist in both catalogs (a rissole filling that is
	// also a cake filling). Alone they mean cake; combined with a unit
	// marker they mean savory.
	DualCatalogFlavors []string `yaml:"dual_catalog_flavors"`
	// UnitMarkers are quantity wordings ("la douzaine", "à l'unité") that
	// only savory listings use.
	UnitMarkers []string `yaml:"unit_markers"`
}

// DefaultConfig returns the shop's current keyword lists.
func DefaultConfig() Config {
	return Config{
		SavoryKeywords: []string{
			"jambon", "fromage", "poulet", "viande", "salé", "salgado",
			"rissois", "rissóis", "coxinha", "alheira", "croquette", "frit",
			"francesinha", "bacalhau", "morue", "bolinho", "beignet", "accra",
			"douzaine", "unité",
		},
		DualCatalogFlavors: []string{"nutella", "curry"},
		UnitMarkers:        []string{"douzaine", "unité", "unite"},
	}
}

// Classifier decides the pricing category of an item.
type Classifier struct {
	savory  []string
	dual    []string
	markers []string
}

// New builds a classifier from config, falling back to the default lists
// for any empty slice.
func New(cfg Config) *Classifier {
	def := DefaultConfig()
	if len(cfg.SavoryKeywords) == 0 {
		cfg.SavoryKeywords = def.SavoryKeywords
	}
	if len(cfg.DualCatalogFlavors) == 0 {
		cfg.DualCatalogFlavors = def.DualCatalogFlavors
	}
	if len(cfg.UnitMarkers) == 0 {
		cfg.UnitMarkers = def.UnitMarkers
	}
	return &Classifier{
		savory:  normalizeAll(cfg.SavoryKeywords),
		dual:    normalizeAll(cfg.DualCatalogFlavors),
		markers: normalizeAll(cfg.UnitMarkers),
	}
}

// Classify returns the category for an item given its name and encoded
// options text. The rules are loose: any savory keyword wins, a
// dual-catalog flavor needs a unit marker to count as savory, and
// everything else is cake. A wrong answer only affects price lookup and
// the calendar badge.
func (c *Classifier) Classify(name, encodedOptions string) models.ItemCategory {
	pool := menu.Normalize(name + " " + encodedOptions)

	hasMarker := containsAny(pool, c.markers)
	if containsAny(pool, c.dual) && hasMarker {
		return models.CategorySavory
	}
	if containsAny(pool, c.savory) {
		return models.CategorySavory
	}
	return models.CategoryCake
}

func containsAny(pool string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(pool, w) {
			return true
		}
	}
	return false
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := menu.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
