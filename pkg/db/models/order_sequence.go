package models

// OrderSequence is a named monotonic counter row. The value is only ever
// touched by the allocator's atomic increment-and-read statement.
type OrderSequence struct {
	Key   string `gorm:"column:key;primaryKey;size:64"`
	Value int64  `gorm:"column:value;not null;default:0"`
}

// TableName pins the table used by the raw allocator statement.
func (OrderSequence) TableName() string { return "order_sequences" }
