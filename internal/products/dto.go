package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// DTO is a catalogue product priced for the requesting dealer. UnitPrice is
// nil when the dealer cannot currently buy the product.
type DTO struct {
	ID          uuid.UUID         `json:"id"`
	PartNo      string            `json:"part_no"`
	Description string            `json:"description"`
	PartType    enums.PartType    `json:"part_type"`
	Brand       *string           `json:"brand,omitempty"`
	StockQty    int               `json:"stock_qty"`
	UnitPrice   *decimal.Decimal  `json:"unit_price,omitempty"`
	PriceSource enums.PriceSource `json:"price_source"`
	Available   bool              `json:"available"`
}

// SearchResult carries one page of priced products plus the cursor for the
// next page, empty when the listing is exhausted.
type SearchResult struct {
	Products   []DTO  `json:"products"`
	NextCursor string `json:"next_cursor,omitempty"`
}
