// Package transform maps raw upstream orders into canonical calendar
// orders. It never fails: every missing field has a stated default, and a
// half-filled web order still gets a calendar slot.
package transform

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"doucetentation/internal/classify"
	"doucetentation/internal/codec"
	"doucetentation/internal/gloria"
	"doucetentation/internal/menu"
	"doucetentation/internal/models"
)

const (
	fallbackType = "Commande Web"
	fallbackTime = "12:00"
)

// Transformer converts raw upstream orders to models.Order.
type Transformer struct {
	classifier *classify.Classifier
	codec      *codec.Codec
	now        func() time.Time
}

// New builds a transformer around a classifier and codec.
func New(classifier *classify.Classifier, c *codec.Codec) *Transformer {
	if classifier == nil {
		classifier = classify.New(classify.DefaultConfig())
	}
	if c == nil {
		c = codec.New(nil)
	}
	return &Transformer{classifier: classifier, codec: c, now: time.Now}
}

// Transform builds the canonical order for a raw upstream order. The source
// argument tags which upstream channel (cake or snack storefront) it came
// from.
func (t *Transformer) Transform(raw gloria.RawOrder, source models.OrderSource) models.Order {
	order := models.Order{
		ID:          t.orderID(raw),
		Type:        typeLabel(raw.Items),
		Size:        sizeLabel(raw.Items),
		Client:      clientName(raw),
		Phone:       raw.ClientPhone,
		Source:      source,
		Notes:       raw.Instructions,
		Status:      statusFor(raw.Status),
		Items:       t.transformItems(raw.Items),
		Supplements: deriveSupplements(raw),
	}
	order.Date, order.Time = t.splitTimestamp(raw)

	if payload, err := json.Marshal(raw); err == nil {
		order.RawPayload = models.JSONBlob(payload)
	}
	return order
}

func (t *Transformer) orderID(raw gloria.RawOrder) string {
	if id := strings.TrimSpace(string(raw.ID)); id != "" {
		return id
	}
	return uuid.NewString()
}

// typeLabel condenses the item names into the card title: the single name,
// or the first two joined with " + " and an ellipsis when more follow.
func typeLabel(items []gloria.RawItem) string {
	switch len(items) {
	case 0:
		return fallbackType
	case 1:
		return items[0].Name
	case 2:
		return items[0].Name + " + " + items[1].Name
	default:
		return items[0].Name + " + " + items[1].Name + "..."
	}
}

func sizeLabel(items []gloria.RawItem) string {
	if len(items) == 0 {
		return "1 article"
	}
	total := 0
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return strconv.Itoa(total) + " article(s)"
}

func clientName(raw gloria.RawOrder) string {
	first := raw.ClientFirstName
	if first == "" {
		first = "Client"
	}
	return strings.TrimSpace(first + " " + raw.ClientLastName)
}

func statusFor(status string) models.OrderStatus {
	if status == "pending" || status == "submitted" {
		return models.StatusPending
	}
	return models.StatusAccepted
}

// splitTimestamp derives calendar date and pickup time from the fulfillment
// timestamp, falling back to the acceptance timestamp and then to now. The
// text before 'T' is the date; the five characters after it are the time.
func (t *Transformer) splitTimestamp(raw gloria.RawOrder) (string, string) {
	ts := raw.FulfillAt
	if ts == "" {
		ts = raw.AcceptedAt
	}
	if ts == "" {
		ts = t.now().UTC().Format(time.RFC3339)
	}

	idx := strings.Index(ts, "T")
	if idx == -1 {
		return ts, fallbackTime
	}
	rest := ts[idx+1:]
	if len(rest) < 5 {
		return ts[:idx], fallbackTime
	}
	return ts[:idx], rest[:5]
}

// transformItems runs each raw item through the classifier and codec: the
// customer's option picks become normalized encoded instructions with the
// derived category tag in front.
func (t *Transformer) transformItems(items []gloria.RawItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		optText := encodeRawOptions(item.Options)
		opts := t.codec.Decode(optText)
		opts.Category = t.classifier.Classify(item.Name, optText)

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		out = append(out, models.OrderItem{
			Name:         item.Name,
			Quantity:     qty,
			Instructions: codec.Encode(opts),
		})
	}
	return out
}

// encodeRawOptions flattens the upstream option pairs into delimited
// segments. Generic group labels ("Votre choix...") add noise, so only the
// option name is kept for those; finish-like groups map onto the canonical
// Finition label.
func encodeRawOptions(options []gloria.RawItemOption) string {
	segments := make([]string, 0, len(options))
	for _, opt := range options {
		group := menu.Normalize(opt.GroupName)
		switch {
		case group == "" || strings.Contains(group, "choix") || strings.Contains(group, "votre"):
			segments = append(segments, opt.Name)
		case strings.Contains(group, "finition") || strings.Contains(group, "decoration") || strings.Contains(group, "style"):
			segments = append(segments, "Finition: "+opt.Name)
		default:
			segments = append(segments, opt.GroupName+": "+opt.Name)
		}
	}
	return strings.Join(segments, codec.Delimiter)
}

// deriveSupplements computes the order-level supplement tags: the plaque
// text when an option asks for personalization, the chosen finish, or a
// plain note when free-text instructions have nowhere better to go. Tags
// are deduplicated, order preserved.
func deriveSupplements(raw gloria.RawOrder) models.StringList {
	var supplements []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		supplements = append(supplements, s)
	}

	for _, item := range raw.Items {
		personalized := false
		for _, opt := range item.Options {
			group := menu.Normalize(opt.GroupName)
			name := menu.Normalize(opt.Name)

			if strings.Contains(group, "plaque") || strings.Contains(group, "inscription") ||
				strings.Contains(name, "plaque") || strings.Contains(name, "inscription") ||
				strings.Contains(name, "personnalisee") {
				personalized = true
			}
			if strings.Contains(group, "finition") || strings.Contains(group, "votre choix") ||
				strings.Contains(group, "style") {
				add("Finition: " + opt.Name)
			}
		}
		if personalized && raw.Instructions != "" {
			add("Texte Plaque: " + raw.Instructions)
		}
	}

	if raw.Instructions != "" && len(supplements) == 0 {
		supplements = append(supplements, "Note: "+raw.Instructions)
	}
	return supplements
}
