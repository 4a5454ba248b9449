package gloria

import (
	"encoding/json"
	"strings"
)

// ID is the upstream order identifier. GloriaFood sends it as a JSON
// number, but the dedup key is its string form, and a payload drifting to a
// string id must not poison a whole batch, so both shapes are accepted.
type ID string

// UnmarshalJSON implements json.Unmarshaler. Unusable values decode to the
// empty ID; the transformer substitutes a generated id in that case.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			*id = ""
			return nil
		}
		*id = ID(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

// RawOrder is an order exactly as the upstream platform delivers it.
// Immutable once received; a copy is retained on the canonical order for
// audit.
type RawOrder struct {
	ID              ID        `json:"id"`
	ClientFirstName string    `json:"client_first_name"`
	ClientLastName  string    `json:"client_last_name"`
	ClientPhone     string    `json:"client_phone"`
	Instructions    string    `json:"instructions"`
	FulfillAt       string    `json:"fulfill_at"`
	AcceptedAt      string    `json:"accepted_at"`
	Status          string    `json:"status"`
	Items           []RawItem `json:"items"`
}

// RawItem is one line of an upstream order.
type RawItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Options  []RawItemOption `json:"options"`
}

// RawItemOption is one (group label, option name) pair chosen by the
// customer on the ordering site.
type RawItemOption struct {
	GroupName string `json:"group_name"`
	Name      string `json:"name"`
}
