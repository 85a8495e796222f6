package enums

// PartType classifies a catalog product.
type PartType string

const (
	PartTypeGenuine     PartType = "GENUINE"
	PartTypeAftermarket PartType = "AFTERMARKET"
	PartTypeAccessory   PartType = "ACCESSORY"
)

// IsValid reports whether the part type is a known value.
func (p PartType) IsValid() bool {
	switch p {
	case PartTypeGenuine, PartTypeAftermarket, PartTypeAccessory:
		return true
	}
	return false
}
