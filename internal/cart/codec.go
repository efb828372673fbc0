package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/cart/internal/model"
)

// ErrMalformed wraps every failure to decode a persisted cart.
var ErrMalformed = errors.New("cart: malformed blob")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Encode serializes products as a JSON array in cart order.
// A nil cart encodes as [].
func Encode(products []model.Product) ([]byte, error) {
	if products == nil {
		products = []model.Product{}
	}
	b, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a blob written by Encode. Entries with a quantity below 1
// or a repeated id are rejected; anything AddToCart accepts decodes.
func Decode(b []byte) ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformed, i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: entry %d: duplicate id %q", ErrMalformed, i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}
