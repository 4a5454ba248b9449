package menu

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Finish is a cake finish priced per person.
type Finish struct {
	Name           string
	PricePerPerson decimal.Decimal
}

// FlatTier groups savory types sharing one per-dozen price.
type FlatTier struct {
	Price decimal.Decimal
	Types []string
}

// PricedItem is a savory entry carrying its own price, either per dozen
// or per piece.
type PricedItem struct {
	Name     string
	PerDozen decimal.Decimal
	PerPiece decimal.Decimal
}

// Menu holds the bakery's product catalog: the named options offered for
// cakes and the savory (salgados) price lists.
type Menu struct {
	Bases    []string
	Fillings []string
	Mousses  []string
	Finishes []Finish

	FlatTiers []FlatTier
	Priced    []PricedItem

	FriedPerDozen   decimal.Decimal
	PlaqueSurcharge decimal.Decimal
}

// Default returns the current shop catalog.
func Default() *Menu {
	return &Menu{
		Bases: []string{
			"Marbre", "Chocolat", "Génoise", "Orange", "Carotte", "Cerise",
			"Noix", "Amandes", "Fraise", "Nature", "Yaourt", "Cannelle",
			"Red Velvet", "Green Velvet", "Génoise au Chocolat", "Citron",
		},
		Fillings: []string{
			"Oreo", "Kinder", "Nutella", "Crème Pâtissière", "Crème aux œufs",
			"Rafaello", "Caramel", "Brigadeiro", "Cacahuètes Salées",
		},
		Mousses: []string{
			"Fraise", "Fruits du bois", "Framboise", "Citron", "Ananas",
			"Fruit de la Passion", "Capuccino", "Tiramisu",
		},
		Finishes: []Finish{
			{Name: "Chantilly", PricePerPerson: decimal.NewFromFloat(5.00)},
			{Name: "Pâte à sucre", PricePerPerson: decimal.NewFromFloat(5.50)},
		},
		FlatTiers: []FlatTier{
			{
				Price: decimal.NewFromFloat(8.00),
				Types: []string{
					"Thon", "Mixte (Jambon/Fromage)", "Poulet", "Curry",
					"Saucisse", "Viande", "Alheira", "Nutella",
				},
			},
			{
				Price: decimal.NewFromFloat(9.00),
				Types: []string{
					"Crevette", "Francesinha", "Cochon de lait", "Morue",
				},
			},
		},
		Priced: []PricedItem{
			{Name: "Bolinhos de bacalhau", PerDozen: decimal.NewFromFloat(8.00)},
			{Name: "Coxinhas", PerPiece: decimal.NewFromFloat(1.00)},
		},
		FriedPerDozen:   decimal.NewFromFloat(1.00),
		PlaqueSurcharge: decimal.NewFromFloat(3.00),
	}
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics and trims a string so catalog
// names survive the text drift introduced by upstream payloads and staff
// edits ("Pâte à sucre" matches "pate a sucre").
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// matches reports whether a raw value and a catalog name refer to the same
// entry: normalized equality first, then substring containment in either
// direction.
func matches(raw, name string) bool {
	n := Normalize(name)
	r := Normalize(raw)
	if r == "" || n == "" {
		return false
	}
	if r == n {
		return true
	}
	return strings.Contains(n, r) || strings.Contains(r, n)
}

// Align resolves a decoded raw value against a list of catalog names and
// returns the canonical spelling. The raw value is returned unchanged when
// nothing matches.
func Align(raw string, names []string) (string, bool) {
	r := Normalize(raw)
	for _, name := range names {
		if Normalize(name) == r {
			return name, true
		}
	}
	for _, name := range names {
		if matches(raw, name) {
			return name, true
		}
	}
	return raw, false
}

// FinishNames lists the catalog finish names.
func (m *Menu) FinishNames() []string {
	names := make([]string, len(m.Finishes))
	for i, f := range m.Finishes {
		names[i] = f.Name
	}
	return names
}

// TypeNames lists every savory type the catalog knows about.
func (m *Menu) TypeNames() []string {
	var names []string
	for _, tier := range m.FlatTiers {
		names = append(names, tier.Types...)
	}
	for _, p := range m.Priced {
		names = append(names, p.Name)
	}
	return names
}

// FindFinish looks up a finish by name using normalized matching.
func (m *Menu) FindFinish(name string) (Finish, bool) {
	for _, f := range m.Finishes {
		if Normalize(f.Name) == Normalize(name) {
			return f, true
		}
	}
	for _, f := range m.Finishes {
		if matches(name, f.Name) {
			return f, true
		}
	}
	return Finish{}, false
}

// FlatTierPrice resolves a savory type against the flat-price tiers.
func (m *Menu) FlatTierPrice(typ string) (decimal.Decimal, bool) {
	for _, tier := range m.FlatTiers {
		for _, t := range tier.Types {
			if Normalize(t) == Normalize(typ) {
				return tier.Price, true
			}
		}
	}
	return decimal.Zero, false
}

// FindPriced resolves a savory type against the individually priced entries.
func (m *Menu) FindPriced(typ string) (PricedItem, bool) {
	for _, p := range m.Priced {
		if Normalize(p.Name) == Normalize(typ) {
			return p, true
		}
	}
	for _, p := range m.Priced {
		if matches(typ, p.Name) {
			return p, true
		}
	}
	return PricedItem{}, false
}
