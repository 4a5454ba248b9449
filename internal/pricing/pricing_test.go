package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"doucetentation/internal/models"
)

func price(t *testing.T, instructions string, qty int, orderSize string) decimal.Decimal {
	t.Helper()
	return New(nil).ItemPrice(models.OrderItem{
		Name:         "item",
		Quantity:     qty,
		Instructions: instructions,
	}, orderSize)
}

func TestCakePricePerPerson(t *testing.T) {
	// Chantilly at 5.00 per person for 15 persons.
	total := price(t, "Catégorie: Gâteaux | Finition: Chantilly", 1, "15 pers")
	assert.True(t, total.Equal(decimal.NewFromFloat(75.00)), total.String())
}

func TestCakePlaqueSurcharge(t *testing.T) {
	total := price(t, "Catégorie: Gâteaux | Finition: Chantilly | Plaque: Félicitations", 1, "15 pers")
	assert.True(t, total.Equal(decimal.NewFromFloat(78.00)), total.String())
}

func TestCakeSizeWithoutDigitPricesZero(t *testing.T) {
	total := price(t, "Catégorie: Gâteaux | Finition: Chantilly", 1, "grand format")
	assert.True(t, total.IsZero(), total.String())
}

func TestCakeUnknownFinishPricesZeroBase(t *testing.T) {
	total := price(t, "Catégorie: Gâteaux | Finition: Miroir", 1, "10 pers")
	assert.True(t, total.IsZero(), total.String())

	// The plaque surcharge still applies on its own.
	total = price(t, "Catégorie: Gâteaux | Plaque: Bravo", 1, "10 pers")
	assert.True(t, total.Equal(decimal.NewFromFloat(3.00)), total.String())
}

func TestSavoryFlatTier(t *testing.T) {
	total := price(t, "Catégorie: Salgados | Type: Thon", 1, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(8.00)), total.String())

	total = price(t, "Catégorie: Salgados | Type: Francesinha", 2, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(18.00)), total.String())
}

func TestSavoryFriedSurchargePerDozen(t *testing.T) {
	// (8.00 + 1.00) x 2 dozens.
	total := price(t, "Catégorie: Salgados | Type: Thon | Frit", 2, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(18.00)), total.String())
}

func TestSavoryPerPieceItem(t *testing.T) {
	total := price(t, "Catégorie: Salgados | Type: Coxinhas", 30, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(30.00)), total.String())
}

func TestSavoryPerDozenItem(t *testing.T) {
	total := price(t, "Catégorie: Salgados | Type: Bolinhos de bacalhau", 2, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(16.00)), total.String())
}

func TestSavoryUnknownTypeContributesZeroBase(t *testing.T) {
	total := price(t, "Catégorie: Salgados | Type: Empanada", 3, "")
	assert.True(t, total.IsZero(), total.String())

	// Fried surcharge still counts even without a resolved base.
	total = price(t, "Catégorie: Salgados | Type: Empanada | Frit", 3, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(3.00)), total.String())
}

func TestCategoryOverrideWins(t *testing.T) {
	// Text says cake, staff override says savory: the override drives pricing.
	item := models.OrderItem{
		Name:         "Nutella",
		Quantity:     1,
		Instructions: "Catégorie: Gâteaux | Type: Nutella",
		Category:     models.CategorySavory,
	}
	total := New(nil).ItemPrice(item, "10 pers")
	assert.True(t, total.Equal(decimal.NewFromFloat(8.00)), total.String())
}

func TestQuantityClampedToOne(t *testing.T) {
	item := models.OrderItem{
		Name:         "Rissois",
		Quantity:     0,
		Instructions: "Catégorie: Salgados | Type: Thon",
	}
	total := New(nil).ItemPrice(item, "")
	assert.True(t, total.Equal(decimal.NewFromFloat(8.00)), total.String())
}

func TestOrderTotal(t *testing.T) {
	order := models.Order{
		Size: "10 pers",
		Items: []models.OrderItem{
			{Name: "Gâteau", Quantity: 1, Instructions: "Catégorie: Gâteaux | Finition: Chantilly"},
			{Name: "Rissois", Quantity: 1, Instructions: "Catégorie: Salgados | Type: Thon"},
		},
	}
	total := New(nil).OrderTotal(order)
	assert.True(t, total.Equal(decimal.NewFromFloat(58.00)), total.String())
}

func TestFirstDigitRun(t *testing.T) {
	assert.Equal(t, 15, firstDigitRun("15 pers"))
	assert.Equal(t, 20, firstDigitRun("environ 20 personnes"))
	assert.Equal(t, 8, firstDigitRun("8"))
	assert.Equal(t, 0, firstDigitRun("grand"))
	assert.Equal(t, 0, firstDigitRun(""))
}
