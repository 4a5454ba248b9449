package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderSource tells where an order entered the system.
type OrderSource string

const (
	SourceManual      OrderSource = "manual"
	SourceGloriaCake  OrderSource = "gloria_cake"
	SourceGloriaSnack OrderSource = "gloria_snack"
)

// OrderStatus represents the possible states of a production order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAccepted   OrderStatus = "accepted"
	StatusInProgress OrderStatus = "in_progress"
	StatusReady      OrderStatus = "ready"
)

// ItemCategory is the pricing/display category of an order item.
type ItemCategory string

const (
	CategoryCake   ItemCategory = "Gâteaux"
	CategorySavory ItemCategory = "Salgados"
)

// Order is the canonical production order shown on the weekly calendar,
// regardless of whether staff typed it in or it came from the web platform.
// The ID is the dedup key: once an upstream order is stored under its id it
// is never overwritten by a later poll, only by staff edits.
type Order struct {
	ID          string      `gorm:"primary_key" json:"id"`
	Type        string      `json:"type"`
	Size        string      `json:"size"`
	Client      string      `json:"client"`
	Phone       string      `json:"phone"`
	Date        string      `json:"date"` // ISO calendar date, YYYY-MM-DD
	Time        string      `json:"time"` // HH:MM
	Source      OrderSource `json:"source"`
	Notes       string      `json:"notes"`
	Status      OrderStatus `json:"status"`
	Items       []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Supplements StringList  `gorm:"type:text" json:"supplements"`
	RawPayload  JSONBlob    `gorm:"type:text" json:"gloriaRaw,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order. Instructions holds the encoded
// option text (see the codec package). Category, when set, is a staff
// override that wins over whatever the classifier derives from the text.
type OrderItem struct {
	ID           uint         `gorm:"primary_key" json:"-"`
	OrderID      string       `gorm:"index" json:"-"`
	Name         string       `json:"name"`
	Quantity     int          `json:"quantity"`
	Instructions string       `json:"instructions"`
	Category     ItemCategory `json:"category,omitempty"`
}

// StringList stores a list of short labels as a JSON text column. jinzhu
// gorm has no native slice mapping, so it goes through Valuer/Scanner.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// JSONBlob retains an arbitrary JSON document, used for the audit copy of
// the originating upstream payload.
type JSONBlob json.RawMessage

// Value implements driver.Valuer.
func (b JSONBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (b *JSONBlob) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		*b = append((*b)[:0], v...)
		return nil
	case string:
		*b = JSONBlob(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONBlob", src)
	}
}

// MarshalJSON keeps the retained payload readable in API responses.
func (b JSONBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *JSONBlob) UnmarshalJSON(data []byte) error {
	*b = append((*b)[:0], data...)
	return nil
}
