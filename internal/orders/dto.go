package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	"github.com/torqueline/partsportal-backend/pkg/enums"
)

// LineDTO is one frozen order line.
type LineDTO struct {
	ID              uuid.UUID         `json:"id"`
	ProductID       uuid.UUID         `json:"product_id"`
	PartNo          string            `json:"part_no"`
	Description     string            `json:"description"`
	PartType        enums.PartType    `json:"part_type"`
	Qty             int               `json:"qty"`
	UnitPrice       decimal.Decimal   `json:"unit_price"`
	LineTotal       decimal.Decimal   `json:"line_total"`
	PriceSource     enums.PriceSource `json:"price_source"`
	BandCode        string            `json:"band_code,omitempty"`
	MinPriceApplied bool              `json:"min_price_applied"`
}

// DTO is the immutable order view returned to dealers.
type DTO struct {
	ID             uuid.UUID         `json:"id"`
	OrderNo        string            `json:"order_no"`
	Status         enums.OrderStatus `json:"status"`
	DispatchMethod *string           `json:"dispatch_method,omitempty"`
	PORef          *string           `json:"po_ref,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	Currency       enums.Currency    `json:"currency"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Total          decimal.Decimal   `json:"total"`
	TotalItems     int               `json:"total_items"`
	PlacedAt       time.Time         `json:"placed_at"`
	Lines          []LineDTO         `json:"lines,omitempty"`
}

// ListResult carries one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []DTO  `json:"orders"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func toDTO(header models.OrderHeader, includeLines bool) DTO {
	dto := DTO{
		ID:             header.ID,
		OrderNo:        header.OrderNo,
		Status:         header.Status,
		DispatchMethod: header.DispatchMethod,
		PORef:          header.PORef,
		Notes:          header.Notes,
		Currency:       header.Currency,
		Subtotal:       header.Subtotal,
		Total:          header.Total,
		TotalItems:     header.TotalItems,
		PlacedAt:       header.PlacedAt,
	}
	if includeLines {
		dto.Lines = make([]LineDTO, 0, len(header.Lines))
		for _, line := range header.Lines {
			dto.Lines = append(dto.Lines, LineDTO{
				ID:          line.ID,
				ProductID:   line.ProductID,
				PartNo:      line.PartNo,
				Description: line.Description,
				PartType:    line.PartType,
				Qty:         line.Qty,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
				PriceSource: line.PriceSource,

				BandCode:        line.BandCode,
				MinPriceApplied: line.MinPriceApplied,
			})
		}
	}
	return dto
}
