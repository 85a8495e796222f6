package enums

// Currency is the ISO 4217 currency code carried on orders.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// IsValid reports whether the currency is a known value.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyGBP, CurrencyEUR:
		return true
	}
	return false
}
