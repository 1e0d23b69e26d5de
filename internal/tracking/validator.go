package tracking

import (
	"encoding/json"
	"fmt"

	"github.com/distrifone/tracking-backend/internal/shared"
)

// cartEnvelope covers both shapes callers send: the cart object directly, or
// a wrapper holding it under "state". A top-level items list wins when both
// are present.
type cartEnvelope struct {
	Items json.RawMessage `json:"items"`
	Total *float64        `json:"total"`
	State *struct {
		Items json.RawMessage `json:"items"`
		Total *float64        `json:"total"`
	} `json:"state"`
}

// NormalizeCartPayload unwraps, validates and normalizes an inbound cart
// payload in one pass. Returned errors wrap shared.ErrValidation; nothing may
// be persisted when an error is returned.
//
// An empty item list is valid and represents an intentional cart clear.
// Items missing an id get a generated one, which also serves as the product
// reference when productId is absent. A missing total is computed as the sum
// of line totals; line totals are always recomputed from quantity and unit
// price.
func NormalizeCartPayload(raw json.RawMessage) (*CartData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: cart payload is empty", shared.ErrValidation)
	}

	var env cartEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: cart payload must be an object", shared.ErrValidation)
	}

	rawItems := env.Items
	total := env.Total
	if isAbsent(rawItems) && env.State != nil {
		rawItems = env.State.Items
		total = env.State.Total
	}
	if isAbsent(rawItems) {
		return nil, fmt.Errorf("%w: cart items must be an array", shared.ErrValidation)
	}

	var items []CartItem
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, fmt.Errorf("%w: cart items must be an array", shared.ErrValidation)
	}

	if len(items) == 0 {
		return &CartData{Items: []CartItem{}}, nil
	}

	if total != nil && *total < 0 {
		return nil, fmt.Errorf("%w: cart total must not be negative", shared.ErrValidation)
	}

	var sum float64
	for i := range items {
		item := &items[i]
		if item.Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", shared.ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %q has invalid quantity", shared.ErrValidation, item.Name)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item %q has negative unit price", shared.ErrValidation, item.Name)
		}
		if item.ID == "" {
			item.ID = shared.NewID("item_")
		}
		if item.ProductID == "" {
			item.ProductID = item.ID
		}
		item.TotalPrice = float64(item.Quantity) * item.UnitPrice
		sum += item.TotalPrice
	}

	if total == nil {
		total = &sum
	}

	return &CartData{Items: items, Total: total}, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
