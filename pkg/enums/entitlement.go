package enums

// Entitlement controls which part types a dealer account may see and price.
type Entitlement string

const (
	EntitlementGenuineOnly     Entitlement = "GENUINE_ONLY"
	EntitlementAftermarketOnly Entitlement = "AFTERMARKET_ONLY"
	EntitlementShowAll         Entitlement = "SHOW_ALL"
)

// IsValid reports whether the entitlement is a known value.
func (e Entitlement) IsValid() bool {
	switch e {
	case EntitlementGenuineOnly, EntitlementAftermarketOnly, EntitlementShowAll:
		return true
	}
	return false
}

// Allows reports whether the entitlement permits the given part type.
func (e Entitlement) Allows(partType PartType) bool {
	switch e {
	case EntitlementGenuineOnly:
		return partType == PartTypeGenuine
	case EntitlementAftermarketOnly:
		return partType != PartTypeGenuine
	case EntitlementShowAll:
		return true
	}
	return false
}
