// Package codec converts the structured per-item configuration of an order
// line to and from the single delimited instructions text stored on the
// item. The text form is what the calendar and historical records carry;
// ItemOptions is the typed form everything else works with.
package codec

import (
	"strings"

	"doucetentation/internal/menu"
	"doucetentation/internal/models"
)

// Delimiter separates encoded segments.
const Delimiter = " | "

// ItemOptions is the decoded configuration of one order item. Fields are
// grouped by the category they belong to; whichever group does not apply
// stays empty. Extra collects free-text fragments that match no known
// label, preserved verbatim.
type ItemOptions struct {
	Category models.ItemCategory

	// Cake options.
	Flavor  string
	Filling string
	Mousse  string
	Finish  string

	// Savory options.
	Type  string
	Fried bool

	// Shared options.
	Message     string
	Supplements string
	Candles     bool
	Photo       bool
	GlutenFree  bool
	ChefChoice  bool

	Extra []string
}

// Codec decodes instruction text against a catalog so raw values align to
// canonical option names.
type Codec struct {
	menu *menu.Menu
}

// New returns a codec bound to the given catalog.
func New(m *menu.Menu) *Codec {
	if m == nil {
		m = menu.Default()
	}
	return &Codec{menu: m}
}

// Encode renders options as delimited "label: value" text. The category tag
// always comes first; empty fields are omitted; Extra fragments are appended
// verbatim.
func Encode(o ItemOptions) string {
	category := o.Category
	if category == "" {
		category = models.CategoryCake
	}

	segments := []string{"Catégorie: " + string(category)}
	appendField := func(label, value string) {
		if value != "" {
			segments = append(segments, label+": "+value)
		}
	}
	appendFlag := func(label string, set bool) {
		if set {
			segments = append(segments, label)
		}
	}

	appendField("Saveur de base", o.Flavor)
	appendField("Garniture", o.Filling)
	appendField("Mousse", o.Mousse)
	appendField("Finition", o.Finish)
	appendField("Type", o.Type)
	appendFlag("Frit", o.Fried)
	appendField("Plaque", o.Message)
	appendField("Suppléments", o.Supplements)
	appendFlag("Bougies", o.Candles)
	appendFlag("Impression Photo", o.Photo)
	appendFlag("Sans Gluten", o.GlutenFree)
	appendFlag("Choix du restaurant", o.ChefChoice)

	for _, extra := range o.Extra {
		if strings.TrimSpace(extra) != "" {
			segments = append(segments, extra)
		}
	}

	return strings.Join(segments, Delimiter)
}

// Decode parses delimited instruction text. Each segment is normalized and
// matched against a fixed-priority list of label patterns; the first
// matching pattern wins and a segment feeds at most one field. Values of
// catalog-backed fields are aligned to catalog spellings to tolerate text
// drift. Segments matching nothing are kept verbatim in Extra, so staff
// notes written free-form inside the instructions survive a round trip.
func (c *Codec) Decode(text string) ItemOptions {
	var o ItemOptions
	if strings.TrimSpace(text) == "" {
		return o
	}

	for _, seg := range strings.Split(text, Delimiter) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		n := menu.Normalize(seg)
		val := segmentValue(seg)

		switch {
		case strings.HasPrefix(n, "categorie"):
			if strings.Contains(n, "salgado") {
				o.Category = models.CategorySavory
			} else {
				o.Category = models.CategoryCake
			}
		case strings.Contains(n, "base") || strings.Contains(n, "gout"):
			o.Flavor, _ = menu.Align(val, c.menu.Bases)
		case strings.Contains(n, "garniture"):
			o.Filling, _ = menu.Align(val, c.menu.Fillings)
		case strings.Contains(n, "mousse"):
			o.Mousse, _ = menu.Align(val, c.menu.Mousses)
		case strings.Contains(n, "finition"):
			o.Finish, _ = menu.Align(val, c.menu.FinishNames())
		case strings.Contains(n, "type: "):
			o.Type, _ = menu.Align(val, c.menu.TypeNames())
		case strings.Contains(n, "frit"):
			o.Fried = true
		case strings.Contains(n, "plaque") || strings.Contains(n, "inscription"):
			o.Message = val
		case strings.Contains(n, "supplement"):
			o.Supplements = val
		case strings.Contains(n, "bougie"):
			o.Candles = true
		case strings.Contains(n, "photo"):
			o.Photo = true
		case strings.Contains(n, "gluten"):
			o.GlutenFree = true
		case strings.Contains(n, "choix du restaurant") || strings.Contains(n, "chef"):
			o.ChefChoice = true
		default:
			o.Extra = append(o.Extra, seg)
		}
	}

	return o
}

// segmentValue extracts the value part of a "label: value" segment, or the
// whole segment when it carries no label.
func segmentValue(seg string) string {
	if idx := strings.Index(seg, ": "); idx != -1 {
		return strings.TrimSpace(seg[idx+2:])
	}
	return strings.TrimSpace(seg)
}
