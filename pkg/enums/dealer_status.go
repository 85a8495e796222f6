package enums

// DealerStatus is the lifecycle state of a dealer account.
type DealerStatus string

const (
	DealerStatusActive    DealerStatus = "ACTIVE"
	DealerStatusInactive  DealerStatus = "INACTIVE"
	DealerStatusSuspended DealerStatus = "SUSPENDED"
)

// IsValid reports whether the status is a known value.
func (s DealerStatus) IsValid() bool {
	switch s {
	case DealerStatusActive, DealerStatusInactive, DealerStatusSuspended:
		return true
	}
	return false
}

// CanTransact reports whether an account in this status may place orders.
func (s DealerStatus) CanTransact() bool {
	return s == DealerStatusActive
}
