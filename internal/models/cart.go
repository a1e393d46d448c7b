package models

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Price keeps whatever the client sent for an item price; Valid is false when
// the JSON value was not a number.
type Price struct {
	Amount float64
	Valid  bool
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Amount, p.Valid = raw.(float64)

	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(p.Amount)
}

// CartItem is one entry of the client-held cart. An absent quantity means 1,
// so the legacy encoding (the same product repeated) and an explicit quantity
// both decode into the same shape.
type CartItem struct {
	ProductID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     Price     `json:"price"`
	Quantity  *int      `json:"quantity,omitempty"`
}

func (i CartItem) Units() int {
	if i.Quantity == nil {
		return 1
	}

	return *i.Quantity
}

// Cart decodes to nil for anything that is not a JSON array, which the
// checkout reports as a missing cart.
type Cart []CartItem

func (c *Cart) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*c = nil
		return nil
	}

	var items []CartItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}

	*c = items

	return nil
}

type CheckoutRequest struct {
	Nonce string `json:"nonce"`
	Cart  Cart   `json:"cart"`
}

type ClientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

type CheckoutResponse struct {
	OK    bool   `json:"ok"`
	Order *Order `json:"order"`
}
