package supersession

import (
	"context"
	"fmt"

	"github.com/torqueline/partsportal-backend/pkg/db/models"
	pkgerrors "github.com/torqueline/partsportal-backend/pkg/errors"
)

// BlockedDetails is attached to the typed error when a part is superseded so
// the caller can point the dealer at the replacement.
type BlockedDetails struct {
	PartNo               string `json:"part_no"`
	ReplacementPartNo    string `json:"replacement_part_no"`
	ReplacementAvailable bool   `json:"replacement_available"`
	Depth                int    `json:"depth"`
}

// Guard blocks superseded part numbers from being sold. A part with a
// supersession record is refused even when the replacement does not exist as
// a live product: selling the old number is never correct.
type Guard interface {
	Check(ctx context.Context, partNo string) error
}

type chainLookup interface {
	FindByOriginalPart(ctx context.Context, partNo string) (*models.Supersession, error)
}

type replacementChecker interface {
	ExistsLiveByPartNo(ctx context.Context, partNo string) (bool, error)
}

type guard struct {
	chains   chainLookup
	products replacementChecker
}

// NewGuard constructs the supersession guard.
func NewGuard(chains chainLookup, products replacementChecker) (Guard, error) {
	if chains == nil {
		return nil, fmt.Errorf("supersession repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	return &guard{chains: chains, products: products}, nil
}

func (g *guard) Check(ctx context.Context, partNo string) error {
	record, err := g.chains.FindByOriginalPart(ctx, partNo)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up supersession chain")
	}
	if record == nil {
		return nil
	}

	replacementLive, err := g.products.ExistsLiveByPartNo(ctx, record.LatestPart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking replacement product")
	}

	return pkgerrors.New(pkgerrors.CodeItemSuperseded,
		fmt.Sprintf("part %s is superseded by %s", record.OriginalPart, record.LatestPart)).
		WithDetails(BlockedDetails{
			PartNo:               record.OriginalPart,
			ReplacementPartNo:    record.LatestPart,
			ReplacementAvailable: replacementLive,
			Depth:                record.Depth,
		})
}
