package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// ItemDTO is one live-priced cart line. UnitPrice and LineTotal are nil when
// the line cannot currently be priced; Reason then says why.
type ItemDTO struct {
	ItemID      uuid.UUID         `json:"item_id"`
	ProductID   uuid.UUID         `json:"product_id"`
	PartNo      string            `json:"part_no"`
	Description string            `json:"description"`
	PartType    enums.PartType    `json:"part_type"`
	Qty         int               `json:"qty"`
	UnitPrice   *decimal.Decimal  `json:"unit_price,omitempty"`
	LineTotal   *decimal.Decimal  `json:"line_total,omitempty"`
	PriceSource enums.PriceSource `json:"price_source"`
	Available   bool              `json:"available"`
	Reason      string            `json:"reason,omitempty"`

	Superseded           bool       `json:"superseded"`
	ReplacementPartNo    string     `json:"replacement_part_no,omitempty"`
	ReplacementProductID *uuid.UUID `json:"replacement_product_id,omitempty"`
	ReplacementAvailable bool       `json:"replacement_available"`
	SupersessionDepth    int        `json:"supersession_depth,omitempty"`
}

// DTO is the enriched cart returned to the dealer. Prices are resolved fresh
// on every read and never persisted on the cart.
type DTO struct {
	CartID     uuid.UUID       `json:"cart_id"`
	Items      []ItemDTO       `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Currency   enums.Currency  `json:"currency"`
	TotalItems int             `json:"total_items"`
}
