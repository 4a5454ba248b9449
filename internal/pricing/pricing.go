// Package pricing computes item prices from decoded options and the order
// size label. It is a pure lookup layer: anything the catalog cannot
// resolve contributes zero rather than an error, and the result is never
// negative.
package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"doucetentation/internal/codec"
	"doucetentation/internal/menu"
	"doucetentation/internal/models"
)

var dozen = decimal.NewFromInt(12)

// Calculator prices order items against a catalog.
type Calculator struct {
	menu  *menu.Menu
	codec *codec.Codec
}

// New builds a calculator for the given catalog.
func New(m *menu.Menu) *Calculator {
	if m == nil {
		m = menu.Default()
	}
	return &Calculator{menu: m, codec: codec.New(m)}
}

// ItemPrice computes the price of one order line. The item's instructions
// are decoded to recover its options; a staff-set category override on the
// item wins over the category tag in the text. orderSize is the order's
// size label ("15 pers"), from which the person count is taken for cakes.
func (c *Calculator) ItemPrice(item models.OrderItem, orderSize string) decimal.Decimal {
	opts := c.codec.Decode(item.Instructions)

	category := opts.Category
	if item.Category != "" {
		category = item.Category
	}

	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}

	var total decimal.Decimal
	if category == models.CategorySavory {
		total = c.savoryPrice(opts, qty)
	} else {
		total = c.cakePrice(opts, orderSize, qty)
	}

	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// OrderTotal sums the item prices of an order.
func (c *Calculator) OrderTotal(order models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(c.ItemPrice(item, order.Size))
	}
	return total
}

// savoryPrice resolves the base unit price of a savory type. Flat tiers and
// per-dozen entries treat quantity as a dozen count; per-piece entries
// multiply by quantity directly. The fried surcharge applies once per dozen
// before the quantity multiplication.
func (c *Calculator) savoryPrice(opts codec.ItemOptions, qty int) decimal.Decimal {
	q := decimal.NewFromInt(int64(qty))

	price, resolved := c.menu.FlatTierPrice(opts.Type)
	if !resolved {
		if entry, ok := c.menu.FindPriced(opts.Type); ok {
			if entry.PerPiece.IsPositive() && !entry.PerDozen.IsPositive() {
				return entry.PerPiece.Mul(q)
			}
			price = entry.PerDozen
			if !price.IsPositive() {
				price = entry.PerPiece.Mul(dozen)
			}
			resolved = true
		}
	}
	// An unresolved type contributes zero to the base term.
	if opts.Fried {
		price = price.Add(c.menu.FriedPerDozen)
	}
	return price.Mul(q)
}

// cakePrice is per-person price of the finish times the person count read
// from the size label, plus the plaque surcharge when a message is present,
// times quantity. No digit in the size label means the size is undetermined
// and the price is deliberately zero.
func (c *Calculator) cakePrice(opts codec.ItemOptions, orderSize string, qty int) decimal.Decimal {
	persons := firstDigitRun(orderSize)

	perPerson := decimal.Zero
	if finish, ok := c.menu.FindFinish(opts.Finish); ok {
		perPerson = finish.PricePerPerson
	}

	total := perPerson.Mul(decimal.NewFromInt(int64(persons)))
	if opts.Message != "" {
		total = total.Add(c.menu.PlaqueSurcharge)
	}
	return total.Mul(decimal.NewFromInt(int64(qty)))
}

// firstDigitRun returns the first contiguous run of digits found in s, or
// zero when there is none.
func firstDigitRun(s string) int {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, err := strconv.Atoi(s[start:i])
			if err != nil {
				return 0
			}
			return n
		}
	}
	if start != -1 {
		n, err := strconv.Atoi(s[start:])
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
