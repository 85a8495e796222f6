package models

// OrderSequence backs the monotonic order number allocator. A single seeded
// row is bumped atomically inside the checkout transaction.
type OrderSequence struct {
	ID        int   `gorm:"column:id;primaryKey"`
	NextValue int64 `gorm:"column:next_value;not null"`
}
