package rules

import (
	"fmt"

	"go.uber.org/multierr"
)

// Problem reasons reported by the order validator.
const (
	ReasonInvalidQty        = "invalid_qty"
	ReasonProductInactive   = "product_inactive"
	ReasonInsufficientStock = "insufficient_stock"
)

// Line is one cart line with everything the validator needs to judge it.
// Price availability is deliberately not a rule: the checkout engine raises
// it as its own failure after the rules pass.
type Line struct {
	PartNo   string
	Qty      int
	StockQty int
	IsActive bool
}

// Problem describes one validation failure on one line.
type Problem struct {
	PartNo string `json:"part_no"`
	Reason string `json:"reason"`
}

// ValidateLines checks every line and reports all problems at once rather
// than failing on the first. The combined error mirrors the problem list for
// logging.
func ValidateLines(lines []Line) ([]Problem, error) {
	var problems []Problem
	var combined error

	record := func(partNo, reason string) {
		problems = append(problems, Problem{PartNo: partNo, Reason: reason})
		combined = multierr.Append(combined, fmt.Errorf("%s: %s", partNo, reason))
	}

	for _, line := range lines {
		if line.Qty <= 0 {
			record(line.PartNo, ReasonInvalidQty)
		}
		if !line.IsActive {
			record(line.PartNo, ReasonProductInactive)
		}
		if line.IsActive && line.Qty > 0 && line.Qty > line.StockQty {
			record(line.PartNo, ReasonInsufficientStock)
		}
	}

	return problems, combined
}
