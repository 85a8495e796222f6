package enums

// OrderStatus tracks an order through operational review and fulfilment.
// New orders always start SUSPENDED; progression happens in back-office
// workflows outside this service.
type OrderStatus string

const (
	OrderStatusSuspended  OrderStatus = "SUSPENDED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid reports whether the status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusSuspended, OrderStatusProcessing, OrderStatusDispatched, OrderStatusCancelled:
		return true
	}
	return false
}
