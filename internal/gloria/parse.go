package gloria

import "encoding/json"

// ParseResponse extracts the raw orders from an API response body. The
// endpoint answers with one of three shapes: {"orders": [...]},
// {"count": n, "orders": [...]}, or a bare order object recognizable by its
// id field. Anything else, including invalid JSON, yields an empty list;
// an unknown shape is never a reason to fail a poll cycle.
func ParseResponse(body []byte) []RawOrder {
	var envelope struct {
		Orders []RawOrder `json:"orders"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Orders) > 0 {
		return envelope.Orders
	}

	var single RawOrder
	if err := json.Unmarshal(body, &single); err == nil && single.ID != "" {
		return []RawOrder{single}
	}

	return nil
}
