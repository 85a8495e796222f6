package enums

// PriceSource records which rule produced a resolved price.
type PriceSource string

const (
	PriceSourceSpecial PriceSource = "special"
	PriceSourceTier    PriceSource = "tier"
	PriceSourceNone    PriceSource = "none"
)

// IsValid reports whether the price source is a known value.
func (p PriceSource) IsValid() bool {
	switch p {
	case PriceSourceSpecial, PriceSourceTier, PriceSourceNone:
		return true
	}
	return false
}
